package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semg6/personal-library/internal/entities"
)

// memoryStore is an in-memory Store. Writes made inside a failed Do are
// discarded.
type memoryStore struct {
	books      []entities.Book
	categories map[string]uint
	authors    map[string]uint
	links      map[[2]uint]int

	failStep     Step
	raceOnCreate bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		categories: map[string]uint{},
		authors:    map[string]uint{},
		links:      map[[2]uint]int{},
	}
}

func (s *memoryStore) clone() *memoryStore {
	c := newMemoryStore()
	c.books = append(c.books, s.books...)
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.authors {
		c.authors[k] = v
	}
	for k, v := range s.links {
		c.links[k] = v
	}
	c.failStep = s.failStep
	c.raceOnCreate = s.raceOnCreate
	return c
}

func (s *memoryStore) Do(ctx context.Context, fn func(Store) error) error {
	tx := s.clone()
	if err := fn(tx); err != nil {
		if s.raceOnCreate && errors.Is(err, ErrBookExists) {
			// The competing ingestion commits after ours is rolled back.
			s.books = append(s.books, entities.Book{ID: 77, ISBN13: tx.pendingISBN13(), Title: "winner"})
			s.raceOnCreate = false
		}
		return err
	}
	*s = *tx
	return nil
}

func (s *memoryStore) pendingISBN13() *string {
	v := "9780321125217"
	return &v
}

func (s *memoryStore) FindBookByISBN(ctx context.Context, isbn13, isbn10 *string) (*entities.Book, error) {
	if s.failStep == StepDuplicateCheck {
		return nil, assert.AnError
	}
	for i := range s.books {
		b := s.books[i]
		if isbn13 != nil && b.ISBN13 != nil && *b.ISBN13 == *isbn13 {
			return &b, nil
		}
		if isbn10 != nil && b.ISBN10 != nil && *b.ISBN10 == *isbn10 {
			return &b, nil
		}
	}
	return nil, nil
}

func (s *memoryStore) ResolveCategory(ctx context.Context, name string) (uint, error) {
	if s.failStep == StepCategory {
		return 0, assert.AnError
	}
	if id, ok := s.categories[name]; ok {
		return id, nil
	}
	id := uint(len(s.categories) + 1)
	s.categories[name] = id
	return id, nil
}

func (s *memoryStore) CreateBook(ctx context.Context, book *entities.Book) error {
	if s.failStep == StepBook {
		return assert.AnError
	}
	if s.raceOnCreate {
		return ErrBookExists
	}
	book.ID = uint(len(s.books) + 1)
	s.books = append(s.books, *book)
	return nil
}

func (s *memoryStore) ResolveAuthor(ctx context.Context, name string) (uint, error) {
	if s.failStep == StepAuthor {
		return 0, assert.AnError
	}
	if id, ok := s.authors[name]; ok {
		return id, nil
	}
	id := uint(len(s.authors) + 1)
	s.authors[name] = id
	return id, nil
}

func (s *memoryStore) LinkAuthor(ctx context.Context, bookID, authorID uint, position int) (bool, error) {
	if s.failStep == StepLink {
		return false, assert.AnError
	}
	key := [2]uint{bookID, authorID}
	if _, ok := s.links[key]; ok {
		return false, nil
	}
	s.links[key] = position
	return true, nil
}

func TestEngine_Ingest(t *testing.T) {
	ctx := context.Background()
	record := Metadata{
		ISBN13:   strPtr("9780321125217"),
		Title:    "Domain-Driven Design",
		Authors:  []string{"Eric Evans"},
		Category: strPtr("Computers"),
	}

	t.Run("creates then reports already present", func(t *testing.T) {
		store := newMemoryStore()
		engine := NewEngine(store)

		first, err := engine.Ingest(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, OutcomeCreated, first.Outcome)
		assert.Equal(t, 1, first.AuthorsLinked)
		assert.Equal(t, "Domain-Driven Design", first.Title)

		second, err := engine.Ingest(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAlreadyPresent, second.Outcome)
		assert.Equal(t, first.BookID, second.BookID)
		assert.Len(t, store.books, 1)
	})

	t.Run("rejects records without identifiers or title", func(t *testing.T) {
		engine := NewEngine(newMemoryStore())

		_, err := engine.Ingest(ctx, Metadata{Title: "No ISBN"})
		assert.ErrorIs(t, err, ErrNoIdentifier)

		_, err = engine.Ingest(ctx, Metadata{ISBN10: strPtr("0321125215")})
		assert.ErrorIs(t, err, ErrNoTitle)
	})

	t.Run("zero authors is allowed", func(t *testing.T) {
		engine := NewEngine(newMemoryStore())

		result, err := engine.Ingest(ctx, Metadata{ISBN10: strPtr("0321125215"), Title: "Anonymous"})
		require.NoError(t, err)
		assert.Equal(t, OutcomeCreated, result.Outcome)
		assert.Zero(t, result.AuthorsLinked)
	})

	t.Run("storage failure aborts with step context and commits nothing", func(t *testing.T) {
		for _, step := range []Step{StepDuplicateCheck, StepCategory, StepBook, StepAuthor, StepLink} {
			t.Run(string(step), func(t *testing.T) {
				store := newMemoryStore()
				store.failStep = step
				engine := NewEngine(store)

				_, err := engine.Ingest(ctx, record)

				var ingestErr *Error
				require.ErrorAs(t, err, &ingestErr)
				assert.Equal(t, step, ingestErr.Step)
				assert.Equal(t, "9780321125217", ingestErr.ISBN)
				assert.ErrorIs(t, err, assert.AnError)
				assert.Empty(t, store.books)
				assert.Empty(t, store.categories)
			})
		}
	})

	t.Run("lost insert race reports the winner", func(t *testing.T) {
		store := newMemoryStore()
		store.raceOnCreate = true
		engine := NewEngine(store)

		result, err := engine.Ingest(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, OutcomeAlreadyPresent, result.Outcome)
		assert.Equal(t, uint(77), result.BookID)
		assert.Empty(t, store.authors, "the losing attempt was rolled back")
	})
}

func TestError_Message(t *testing.T) {
	err := &Error{Step: StepAuthor, ISBN: "123", Err: assert.AnError}
	assert.Contains(t, err.Error(), "author step failed")
	assert.Contains(t, err.Error(), "123")
}
