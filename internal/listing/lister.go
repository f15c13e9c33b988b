// Package listing assembles the enriched book views shown to readers.
//
// Two modes exist and are kept apart on purpose: ListForUser joins one
// reader's state onto every book, ListUnfiltered returns catalog data only.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/semg6/personal-library/internal/entities"
)

// NoAuthors is shown when a book has no linked authors.
const NoAuthors = "N/A"

// AuthorSeparator joins author names in a view.
const AuthorSeparator = ", "

var ErrBookNotFound = errors.New("book not found")

// ReadingState is one reader's state for a book.
type ReadingState struct {
	Status      string     `json:"status"`
	CurrentPage *int       `json:"current_page,omitempty"`
	UserRating  *int       `json:"user_rating,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	StartedDate *time.Time `json:"started_date,omitempty"`
	ReadDate    *time.Time `json:"read_date,omitempty"`
	AddedOn     time.Time  `json:"added_on"`
}

// BookView is a book with its category, authors and, for ListForUser, the
// reader's state.
type BookView struct {
	ID            uint          `json:"book_id"`
	ISBN13        *string       `json:"isbn_13,omitempty"`
	ISBN10        *string       `json:"isbn_10,omitempty"`
	Title         string        `json:"title"`
	Subtitle      *string       `json:"subtitle,omitempty"`
	Publisher     *string       `json:"publisher,omitempty"`
	PublishedDate *string       `json:"published_date,omitempty"`
	Description   *string       `json:"description,omitempty"`
	PageCount     *int          `json:"page_count,omitempty"`
	AverageRating *float64      `json:"average_rating,omitempty"`
	Thumbnail     *string       `json:"thumbnail,omitempty"`
	Category      *string       `json:"category,omitempty"`
	Authors       string        `json:"authors"`
	AuthorNames   []string      `json:"author_names"`
	State         *ReadingState `json:"reading_state"`
}

// ISBN returns the ISBN-13, falling back to the ISBN-10.
func (v BookView) ISBN() string {
	if v.ISBN13 != nil {
		return *v.ISBN13
	}
	return entities.Deref(v.ISBN10)
}

// Store provides the reads the lister needs.
type Store interface {
	// ListBooks returns every book with its Category loaded, in book_id order.
	ListBooks(ctx context.Context) ([]entities.Book, error)
	// GetBook returns one book with its Category loaded, or nil.
	GetBook(ctx context.Context, bookID uint) (*entities.Book, error)
	// AuthorNames returns each book's author names in position order.
	AuthorNames(ctx context.Context, bookIDs []uint) (map[uint][]string, error)
	// StatesForUser returns every state row of the reader.
	StatesForUser(ctx context.Context, userID uint) ([]entities.UserBook, error)
}

type Lister struct {
	store Store
}

func NewLister(store Store) *Lister {
	return &Lister{store: store}
}

// ListForUser returns every book with the reader's state attached. Books the
// reader has no state for have a nil State.
func (l *Lister) ListForUser(ctx context.Context, userID uint) ([]BookView, error) {
	views, err := l.listBooks(ctx)
	if err != nil {
		return nil, err
	}

	states, err := l.store.StatesForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reading states for user %d: %w", userID, err)
	}
	byBook := make(map[uint]*ReadingState, len(states))
	for i := range states {
		byBook[states[i].BookID] = toReadingState(&states[i])
	}

	for i := range views {
		views[i].State = byBook[views[i].ID]
	}
	return views, nil
}

// ListUnfiltered returns every book without reading state.
func (l *Lister) ListUnfiltered(ctx context.Context) ([]BookView, error) {
	return l.listBooks(ctx)
}

// Get returns a single book view without reading state.
func (l *Lister) Get(ctx context.Context, bookID uint) (*BookView, error) {
	book, err := l.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("failed to load book %d: %w", bookID, err)
	}
	if book == nil {
		return nil, ErrBookNotFound
	}

	names, err := l.store.AuthorNames(ctx, []uint{bookID})
	if err != nil {
		return nil, fmt.Errorf("failed to load authors for book %d: %w", bookID, err)
	}

	view := toView(book, names[bookID])
	return &view, nil
}

func (l *Lister) listBooks(ctx context.Context) ([]BookView, error) {
	books, err := l.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	if len(books) == 0 {
		return []BookView{}, nil
	}

	ids := make([]uint, len(books))
	for i := range books {
		ids[i] = books[i].ID
	}
	names, err := l.store.AuthorNames(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load authors: %w", err)
	}

	views := make([]BookView, len(books))
	for i := range books {
		views[i] = toView(&books[i], names[books[i].ID])
	}
	return views, nil
}

func toView(book *entities.Book, authorNames []string) BookView {
	view := BookView{
		ID:            book.ID,
		ISBN13:        book.ISBN13,
		ISBN10:        book.ISBN10,
		Title:         book.Title,
		Subtitle:      book.Subtitle,
		Publisher:     book.Publisher,
		PublishedDate: book.PublishedDate,
		Description:   book.Description,
		PageCount:     book.PageCount,
		AverageRating: book.AverageRating,
		Thumbnail:     book.Thumbnail,
		AuthorNames:   authorNames,
		Authors:       JoinAuthors(authorNames),
	}
	if view.AuthorNames == nil {
		view.AuthorNames = []string{}
	}
	if book.Category != nil {
		name := book.Category.Name
		view.Category = &name
	}
	return view
}

func toReadingState(row *entities.UserBook) *ReadingState {
	return &ReadingState{
		Status:      row.Status,
		CurrentPage: row.CurrentPage,
		UserRating:  row.UserRating,
		Notes:       row.Notes,
		StartedDate: row.StartedDate,
		ReadDate:    row.ReadDate,
		AddedOn:     row.AddedOn,
	}
}

// JoinAuthors joins names with ", " or returns "N/A" when there are none.
func JoinAuthors(names []string) string {
	if len(names) == 0 {
		return NoAuthors
	}
	return strings.Join(names, AuthorSeparator)
}
