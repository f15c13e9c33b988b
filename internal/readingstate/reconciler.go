// Package readingstate keeps one reading-state row per (user, book) pair and
// merges partial updates into it.
package readingstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/semg6/personal-library/internal/entities"
)

// Outcome tells a created row apart from an updated one.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrBookNotFound = errors.New("book not found")
	// ErrStateExists is returned by Store.Create when another writer created
	// the row first.
	ErrStateExists = errors.New("reading state already exists")
)

// Store is the storage a single unit of work exposes to the reconciler.
type Store interface {
	UserExists(ctx context.Context, userID uint) (bool, error)
	BookExists(ctx context.Context, bookID uint) (bool, error)
	// Find returns the row for the pair, or nil.
	Find(ctx context.Context, userID, bookID uint) (*entities.UserBook, error)
	// Create inserts a row. Returns ErrStateExists on a unique violation.
	Create(ctx context.Context, state *entities.UserBook) error
	// Update writes only the fields present in the patch.
	Update(ctx context.Context, userID, bookID uint, patch Patch) error
}

// UnitOfWork runs fn atomically.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(Store) error) error
}

type Reconciler struct {
	uow UnitOfWork
}

func NewReconciler(uow UnitOfWork) *Reconciler {
	return &Reconciler{uow: uow}
}

// Reconcile creates the pair's row from patch, or merges patch into the
// existing row. Status defaults to "owned" on create.
func (r *Reconciler) Reconcile(ctx context.Context, userID, bookID uint, patch Patch) (Outcome, error) {
	if err := patch.Validate(); err != nil {
		return "", err
	}

	outcome, err := r.reconcileOnce(ctx, userID, bookID, patch)
	if errors.Is(err, ErrStateExists) {
		// Another writer created the row between our read and insert; its
		// row now exists, so apply the patch as an update.
		outcome, err = r.reconcileOnce(ctx, userID, bookID, patch)
	}
	if err != nil {
		return "", err
	}

	log.Ctx(ctx).Info().
		Uint("user_id", userID).
		Uint("book_id", bookID).
		Str("outcome", string(outcome)).
		Msg("Reading state reconciled")

	return outcome, nil
}

func (r *Reconciler) reconcileOnce(ctx context.Context, userID, bookID uint, patch Patch) (Outcome, error) {
	var outcome Outcome

	err := r.uow.Do(ctx, func(store Store) error {
		ok, err := store.UserExists(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check user %d: %w", userID, err)
		}
		if !ok {
			return ErrUserNotFound
		}
		ok, err = store.BookExists(ctx, bookID)
		if err != nil {
			return fmt.Errorf("failed to check book %d: %w", bookID, err)
		}
		if !ok {
			return ErrBookNotFound
		}

		existing, err := store.Find(ctx, userID, bookID)
		if err != nil {
			return fmt.Errorf("failed to read reading state: %w", err)
		}

		if existing == nil {
			if err := store.Create(ctx, newState(userID, bookID, patch)); err != nil {
				if errors.Is(err, ErrStateExists) {
					return ErrStateExists
				}
				return fmt.Errorf("failed to create reading state: %w", err)
			}
			outcome = OutcomeCreated
			return nil
		}

		if err := store.Update(ctx, userID, bookID, patch); err != nil {
			return fmt.Errorf("failed to update reading state: %w", err)
		}
		outcome = OutcomeUpdated
		return nil
	})

	return outcome, err
}

func newState(userID, bookID uint, patch Patch) *entities.UserBook {
	state := &entities.UserBook{
		UserID:      userID,
		BookID:      bookID,
		Status:      entities.DefaultStatus,
		CurrentPage: patch.CurrentPage,
		UserRating:  patch.UserRating,
		StartedDate: patch.StartedDate,
		ReadDate:    patch.ReadDate,
	}
	if patch.Status != nil {
		state.Status = *patch.Status
	}
	if patch.Notes != nil && *patch.Notes != "" {
		state.Notes = patch.Notes
	}
	return state
}
