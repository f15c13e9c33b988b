package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/semg6/personal-library/internal/entities"
	"github.com/semg6/personal-library/internal/listing"
	"github.com/semg6/personal-library/internal/services"
)

const (
	pageTemplate        = "index"
	messageLoadFailed   = "Your library could not be loaded. Please try again."
	messageInvalidInput = "Invalid request"
)

// Statuses offered by the reading-state form.
var Statuses = []string{entities.StatusOwned, entities.StatusReading, entities.StatusFinished}

type UIController struct {
	library       Library
	defaultUserID uint
}

func NewUIController(library Library, defaultUserID uint) *UIController {
	return &UIController{
		library:       library,
		defaultUserID: defaultUserID,
	}
}

// pageView is the data rendered by the library page.
type pageView struct {
	userID      uint
	showAll     bool
	message     string
	messageType string
	isbn        string
	added       *services.AddResult
}

// LibraryPage renders the library.
// GET /?user_id=&all=1
func (controller *UIController) LibraryPage(c *gin.Context) {
	userID, ok := queryUserID(c, controller.defaultUserID)
	if !ok {
		c.String(http.StatusBadRequest, "Invalid user ID")
		return
	}

	controller.render(c, http.StatusOK, pageView{
		userID:      userID,
		showAll:     c.Query("all") == "1",
		message:     c.Query("message"),
		messageType: c.Query("message_type"),
	})
}

// AddBook looks up the submitted ISBN and re-renders the page with the outcome.
// POST /
func (controller *UIController) AddBook(c *gin.Context) {
	userID, ok := queryUserID(c, controller.defaultUserID)
	if !ok {
		c.String(http.StatusBadRequest, "Invalid user ID")
		return
	}
	view := pageView{userID: userID}

	isbn := strings.TrimSpace(c.PostForm("isbn"))
	if isbn == "" {
		controller.render(c, http.StatusOK, view)
		return
	}

	result := controller.library.AddByISBN(c.Request.Context(), isbn)
	view.isbn = isbn
	view.message = result.Message
	view.messageType = result.MessageType()
	view.added = &result

	controller.render(c, http.StatusOK, view)
}

// UpdateState applies the reading-state form and redirects back to the page.
// POST /books/:id/state
func (controller *UIController) UpdateState(c *gin.Context) {
	bookID, err := parseID(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid book ID")
		return
	}

	var form stateForm
	if err := c.ShouldBind(&form); err != nil {
		c.String(http.StatusBadRequest, messageInvalidInput)
		return
	}

	userID := controller.defaultUserID
	if form.UserID != "" {
		if userID, err = parseID(form.UserID); err != nil {
			c.String(http.StatusBadRequest, "Invalid user ID")
			return
		}
	}

	patch, err := form.patch()
	if err != nil {
		redirectToLibrary(c, userID, err.Error(), services.MessageTypeError)
		return
	}

	result := controller.library.UpdateReadingState(c.Request.Context(), userID, bookID, patch)
	redirectToLibrary(c, userID, result.Message, result.MessageType())
}

func redirectToLibrary(c *gin.Context, userID uint, message, messageType string) {
	q := url.Values{}
	q.Set("user_id", strconv.FormatUint(uint64(userID), 10))
	q.Set("message", message)
	q.Set("message_type", messageType)
	c.Redirect(http.StatusSeeOther, "/?"+q.Encode())
}

func (controller *UIController) render(c *gin.Context, status int, view pageView) {
	ctx := c.Request.Context()

	var books []listing.BookView
	var err error
	if view.showAll {
		books, err = controller.library.ListUnfiltered(ctx)
	} else {
		books, err = controller.library.ListForUser(ctx, view.userID)
	}
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Uint("user_id", view.userID).Msg("Failed to list books")
		status = http.StatusInternalServerError
		view.message, view.messageType = messageLoadFailed, services.MessageTypeError
		books = nil
	}

	users, err := controller.library.ListUsers(ctx)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("Failed to list users")
	}

	c.HTML(status, pageTemplate, gin.H{
		"Books":            books,
		"TotalBooks":       len(books),
		"Users":            users,
		"UserID":           view.userID,
		"ShowAll":          view.showAll,
		"Statuses":         Statuses,
		"Message":          view.message,
		"MessageType":      view.messageType,
		"ISBN":             view.isbn,
		"Added":            view.added,
		"LookupSuccessful": view.added != nil && view.added.Kind == services.AddAdded,
		"CSRFField":        csrfField(c),
	})
}
