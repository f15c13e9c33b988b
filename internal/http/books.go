package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/semg6/personal-library/internal/listing"
	"github.com/semg6/personal-library/internal/services"
)

type BooksController struct {
	library       Library
	defaultUserID uint
}

func NewBooksController(library Library, defaultUserID uint) *BooksController {
	return &BooksController{
		library:       library,
		defaultUserID: defaultUserID,
	}
}

// ListBooks returns the library for a reader, or without reading state when
// all=1.
// GET /api/books?user_id=&all=1
func (controller *BooksController) ListBooks(c *gin.Context) {
	ctx := c.Request.Context()

	var books []listing.BookView
	var err error
	if c.Query("all") == "1" {
		books, err = controller.library.ListUnfiltered(ctx)
	} else {
		userID, ok := queryUserID(c, controller.defaultUserID)
		if !ok {
			respondBadRequest(c, "invalid user_id")
			return
		}
		books, err = controller.library.ListForUser(ctx, userID)
	}
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.IndentedJSON(http.StatusOK, gin.H{"books": books, "count": len(books)})
}

// GetBook returns one book without reading state.
// GET /api/books/:id
func (controller *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := controller.library.GetBook(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, listing.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}

	c.IndentedJSON(http.StatusOK, book)
}

// AddBook looks an ISBN up and ingests it.
// POST /api/books {"isbn": "..."}
func (controller *BooksController) AddBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "isbn is required")
		return
	}

	result := controller.library.AddByISBN(c.Request.Context(), req.ISBN)
	c.IndentedJSON(addStatus(result.Kind), result)
}

func addStatus(kind services.AddKind) int {
	switch kind {
	case services.AddAdded:
		return http.StatusCreated
	case services.AddAlreadyPresent:
		return http.StatusOK
	case services.AddNotFound:
		return http.StatusNotFound
	case services.AddInvalidISBN:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// UpdateState merge-patches a reader's state for a book.
// PATCH /api/users/:userId/books/:bookId/state
func (controller *BooksController) UpdateState(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	patch, err := bindStatePatch(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid_state", err.Error())
		return
	}

	result := controller.library.UpdateReadingState(c.Request.Context(), userID, bookID, patch)
	c.IndentedJSON(stateStatus(result.Kind), result)
}

func stateStatus(kind services.StateKind) int {
	switch kind {
	case services.StateCreated:
		return http.StatusCreated
	case services.StateUpdated:
		return http.StatusOK
	case services.StateInvalid:
		return http.StatusBadRequest
	case services.StateUserMissing, services.StateBookMissing:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
