// Package ingest turns normalized catalog metadata into library rows.
//
// One call to Engine.Ingest runs inside one unit of work: the duplicate
// check, category resolution, the book insert and the author fan-out commit
// together or not at all. Ingesting the same ISBN twice is a no-op that
// reports the existing book.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/semg6/personal-library/internal/entities"
)

// Outcome tells a new book apart from one that was already in the library.
type Outcome string

const (
	OutcomeCreated        Outcome = "created"
	OutcomeAlreadyPresent Outcome = "already_present"
)

var (
	// ErrNoIdentifier is returned for records with neither an ISBN-13 nor an
	// ISBN-10; they could never be deduplicated.
	ErrNoIdentifier = errors.New("record has no ISBN")
	// ErrNoTitle is returned for records without a title.
	ErrNoTitle = errors.New("record has no title")
	// ErrBookExists is returned by Store.CreateBook when the book insert
	// loses a unique key race.
	ErrBookExists = errors.New("book already exists")
)

// Step names the ingestion step an Error happened in.
type Step string

const (
	StepDuplicateCheck Step = "duplicate_check"
	StepCategory       Step = "category"
	StepBook           Step = "book"
	StepAuthor         Step = "author"
	StepLink           Step = "author_link"
)

// Error reports an unexpected storage failure. Nothing of the failed
// ingestion was committed.
type Error struct {
	Step Step
	ISBN string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ingest %s: %s step failed: %v", e.ISBN, e.Step, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Result describes a finished ingestion.
type Result struct {
	BookID        uint
	Outcome       Outcome
	Title         string
	AuthorsLinked int
}

// Store is the storage a single unit of work exposes to the engine.
type Store interface {
	// FindBookByISBN returns the book matching either identifier, or nil.
	FindBookByISBN(ctx context.Context, isbn13, isbn10 *string) (*entities.Book, error)
	// ResolveCategory returns the id of the named category, creating it.
	ResolveCategory(ctx context.Context, name string) (uint, error)
	// CreateBook inserts the book and sets its ID. Returns ErrBookExists on
	// a unique violation.
	CreateBook(ctx context.Context, book *entities.Book) error
	// ResolveAuthor returns the id of the named author, creating it.
	ResolveAuthor(ctx context.Context, name string) (uint, error)
	// LinkAuthor links an author to a book. An existing link is not an
	// error; linked reports whether a row was written.
	LinkAuthor(ctx context.Context, bookID, authorID uint, position int) (linked bool, err error)
}

// UnitOfWork runs fn atomically: a nil return commits everything fn wrote,
// an error rolls it all back.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Store) error) error
}

type Engine struct {
	uow UnitOfWork
}

func NewEngine(uow UnitOfWork) *Engine {
	return &Engine{uow: uow}
}

// Ingest stores the book described by m unless it is already present.
func (e *Engine) Ingest(ctx context.Context, m Metadata) (Result, error) {
	if m.ISBN13 == nil && m.ISBN10 == nil {
		return Result{}, ErrNoIdentifier
	}
	if m.Title == "" {
		return Result{}, ErrNoTitle
	}

	result, err := e.ingestOnce(ctx, m)
	if !errors.Is(err, ErrBookExists) {
		return result, err
	}

	// A concurrent ingestion committed the same book between our duplicate
	// check and insert. Ours was rolled back; report theirs.
	log.Ctx(ctx).Debug().Str("isbn", m.ISBN()).Msg("Book insert lost a race, re-reading")

	err = e.uow.Do(ctx, func(store Store) error {
		existing, err := store.FindBookByISBN(ctx, m.ISBN13, m.ISBN10)
		if err != nil {
			return &Error{Step: StepDuplicateCheck, ISBN: m.ISBN(), Err: err}
		}
		if existing == nil {
			return &Error{Step: StepBook, ISBN: m.ISBN(), Err: ErrBookExists}
		}
		result = Result{BookID: existing.ID, Outcome: OutcomeAlreadyPresent, Title: existing.Title}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

func (e *Engine) ingestOnce(ctx context.Context, m Metadata) (Result, error) {
	var result Result
	isbn := m.ISBN()

	err := e.uow.Do(ctx, func(store Store) error {
		existing, err := store.FindBookByISBN(ctx, m.ISBN13, m.ISBN10)
		if err != nil {
			return &Error{Step: StepDuplicateCheck, ISBN: isbn, Err: err}
		}
		if existing != nil {
			result = Result{BookID: existing.ID, Outcome: OutcomeAlreadyPresent, Title: existing.Title}
			return nil
		}

		var categoryID *uint
		if m.Category != nil {
			id, err := store.ResolveCategory(ctx, *m.Category)
			if err != nil {
				return &Error{Step: StepCategory, ISBN: isbn, Err: err}
			}
			categoryID = &id
		}

		book := bookFromMetadata(m, categoryID)
		if err := store.CreateBook(ctx, book); err != nil {
			if errors.Is(err, ErrBookExists) {
				return ErrBookExists
			}
			return &Error{Step: StepBook, ISBN: isbn, Err: err}
		}

		linked := 0
		for position, name := range m.Authors {
			authorID, err := store.ResolveAuthor(ctx, name)
			if err != nil {
				return &Error{Step: StepAuthor, ISBN: isbn, Err: fmt.Errorf("author %q: %w", name, err)}
			}
			ok, err := store.LinkAuthor(ctx, book.ID, authorID, position)
			if err != nil {
				return &Error{Step: StepLink, ISBN: isbn, Err: fmt.Errorf("author %q: %w", name, err)}
			}
			if ok {
				linked++
			}
		}

		result = Result{BookID: book.ID, Outcome: OutcomeCreated, Title: book.Title, AuthorsLinked: linked}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	log.Ctx(ctx).Info().
		Str("isbn", isbn).
		Uint("book_id", result.BookID).
		Str("outcome", string(result.Outcome)).
		Int("authors_linked", result.AuthorsLinked).
		Msg("Ingestion finished")

	return result, nil
}

func bookFromMetadata(m Metadata, categoryID *uint) *entities.Book {
	return &entities.Book{
		ISBN13:        m.ISBN13,
		ISBN10:        m.ISBN10,
		Title:         m.Title,
		Subtitle:      m.Subtitle,
		Publisher:     m.Publisher,
		PublishedDate: m.PublishedDate,
		Description:   m.Description,
		PageCount:     m.PageCount,
		AverageRating: m.AverageRating,
		Thumbnail:     m.Thumbnail,
		CategoryID:    categoryID,
	}
}
