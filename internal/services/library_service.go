package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/semg6/personal-library/internal/catalog"
	"github.com/semg6/personal-library/internal/entities"
	"github.com/semg6/personal-library/internal/ingest"
	"github.com/semg6/personal-library/internal/listing"
	"github.com/semg6/personal-library/internal/readingstate"
)

// AddKind classifies the outcome of adding a book by ISBN.
type AddKind string

const (
	AddAdded          AddKind = "added"
	AddAlreadyPresent AddKind = "already_present"
	AddNotFound       AddKind = "not_found"
	AddInvalidISBN    AddKind = "invalid_isbn"
	AddFailed         AddKind = "failed"
)

// User-facing messages.
const (
	MessageAdded          = "Book added successfully"
	MessageAlreadyPresent = "This book is already in your library"
	MessageNotFound       = "Book not found with that ISBN."
	MessageInvalidISBN    = "Please enter a valid 10 or 13 digit ISBN."
	MessageCatalogFailed  = "The book catalog could not be reached. Please try again later."
	MessageIncomplete     = "The catalog record for that ISBN is incomplete and could not be saved."
	MessageStorageFailed  = "Something went wrong while saving the book. Please try again."

	MessageStateSaved    = "Reading state saved"
	MessageStateNoUser   = "Reader not found"
	MessageStateNoBook   = "Book not found"
	MessageStateFailed   = "Something went wrong while saving the reading state. Please try again."
	MessageStateNoFields = "Nothing to update"
)

// Message types rendered by the UI.
const (
	MessageTypeSuccess = "success"
	MessageTypeError   = "error"
)

// AddResult is the outcome of AddByISBN. Business outcomes never surface as
// errors; Kind and Message say what happened.
type AddResult struct {
	Kind       AddKind `json:"kind"`
	Message    string  `json:"message"`
	ISBN       string  `json:"isbn,omitempty"`
	BookID     uint    `json:"book_id,omitempty"`
	Title      string  `json:"title,omitempty"`
	RecordFile string  `json:"record_file,omitempty"`
}

// MessageType returns "success" for a new book and "error" otherwise.
func (r AddResult) MessageType() string {
	if r.Kind == AddAdded {
		return MessageTypeSuccess
	}
	return MessageTypeError
}

// StateKind classifies the outcome of a reading-state update.
type StateKind string

const (
	StateCreated     StateKind = "created"
	StateUpdated     StateKind = "updated"
	StateInvalid     StateKind = "invalid"
	StateUserMissing StateKind = "user_not_found"
	StateBookMissing StateKind = "book_not_found"
	StateFailed      StateKind = "failed"
)

// StateResult is the outcome of UpdateReadingState.
type StateResult struct {
	Kind    StateKind `json:"kind"`
	Message string    `json:"message"`
}

// OK reports whether the state was written.
func (r StateResult) OK() bool {
	return r.Kind == StateCreated || r.Kind == StateUpdated
}

// MessageType returns "success" when the state was written and "error" otherwise.
func (r StateResult) MessageType() string {
	if r.OK() {
		return MessageTypeSuccess
	}
	return MessageTypeError
}

// LibraryService is what the presentation layer calls: it runs catalog
// lookups through ingestion and turns failures into user-facing results.
type LibraryService struct {
	catalog    catalog.Client
	records    RecordWriter
	ingester   BookIngester
	reconciler StateReconciler
	lister     BookLister
	users      UserStore
}

// LibraryServiceConfig carries the collaborators of a LibraryService.
type LibraryServiceConfig struct {
	Catalog    catalog.Client
	Records    RecordWriter
	Ingester   BookIngester
	Reconciler StateReconciler
	Lister     BookLister
	Users      UserStore
}

func NewLibraryService(cfg LibraryServiceConfig) *LibraryService {
	return &LibraryService{
		catalog:    cfg.Catalog,
		records:    cfg.Records,
		ingester:   cfg.Ingester,
		reconciler: cfg.Reconciler,
		lister:     cfg.Lister,
		users:      cfg.Users,
	}
}

// AddByISBN looks the ISBN up in the catalog, keeps the raw record and
// ingests it.
func (s *LibraryService) AddByISBN(ctx context.Context, input string) AddResult {
	logger := log.Ctx(ctx).With().Str("isbn", input).Logger()

	isbn, err := catalog.NormalizeISBN(input)
	if err != nil {
		return AddResult{Kind: AddInvalidISBN, Message: MessageInvalidISBN, ISBN: input}
	}

	record, err := s.catalog.Lookup(ctx, isbn)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			logger.Info().Msg("ISBN not found in catalog")
			return AddResult{Kind: AddNotFound, Message: MessageNotFound, ISBN: isbn}
		}
		logger.Error().Err(err).Msg("Catalog lookup failed")
		return AddResult{Kind: AddFailed, Message: MessageCatalogFailed, ISBN: isbn}
	}

	result := AddResult{ISBN: isbn}

	if s.records != nil {
		name, err := s.records.Save(isbn, record)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to store catalog record")
		} else {
			result.RecordFile = name
		}
	}

	metadata := ingest.Normalize(*record).WithSubmittedISBN(isbn)

	ingested, err := s.ingester.Ingest(ctx, metadata)
	if err != nil {
		if errors.Is(err, ingest.ErrNoIdentifier) || errors.Is(err, ingest.ErrNoTitle) {
			logger.Warn().Err(err).Msg("Catalog record rejected")
			result.Kind, result.Message = AddFailed, MessageIncomplete
			return result
		}
		logger.Error().Err(err).Msg("Failed to ingest book")
		result.Kind, result.Message = AddFailed, MessageStorageFailed
		return result
	}

	result.BookID = ingested.BookID
	result.Title = ingested.Title
	if ingested.Outcome == ingest.OutcomeAlreadyPresent {
		result.Kind, result.Message = AddAlreadyPresent, MessageAlreadyPresent
	} else {
		result.Kind, result.Message = AddAdded, MessageAdded
	}
	return result
}

// UpdateReadingState merges patch into the reader's state for the book.
func (s *LibraryService) UpdateReadingState(ctx context.Context, userID, bookID uint, patch readingstate.Patch) StateResult {
	if patch.IsEmpty() {
		return StateResult{Kind: StateInvalid, Message: MessageStateNoFields}
	}

	outcome, err := s.reconciler.Reconcile(ctx, userID, bookID, patch)
	switch {
	case err == nil:
		if outcome == readingstate.OutcomeCreated {
			return StateResult{Kind: StateCreated, Message: MessageStateSaved}
		}
		return StateResult{Kind: StateUpdated, Message: MessageStateSaved}
	case errors.Is(err, readingstate.ErrInvalidPatch):
		return StateResult{Kind: StateInvalid, Message: err.Error()}
	case errors.Is(err, readingstate.ErrUserNotFound):
		return StateResult{Kind: StateUserMissing, Message: MessageStateNoUser}
	case errors.Is(err, readingstate.ErrBookNotFound):
		return StateResult{Kind: StateBookMissing, Message: MessageStateNoBook}
	default:
		log.Ctx(ctx).Error().Err(err).
			Uint("user_id", userID).
			Uint("book_id", bookID).
			Msg("Failed to reconcile reading state")
		return StateResult{Kind: StateFailed, Message: MessageStateFailed}
	}
}

func (s *LibraryService) ListForUser(ctx context.Context, userID uint) ([]listing.BookView, error) {
	return s.lister.ListForUser(ctx, userID)
}

func (s *LibraryService) ListUnfiltered(ctx context.Context) ([]listing.BookView, error) {
	return s.lister.ListUnfiltered(ctx)
}

func (s *LibraryService) GetBook(ctx context.Context, bookID uint) (*listing.BookView, error) {
	return s.lister.Get(ctx, bookID)
}

func (s *LibraryService) AddUser(ctx context.Context, name string) (*entities.User, error) {
	return s.users.CreateUser(ctx, name)
}

func (s *LibraryService) ListUsers(ctx context.Context) ([]entities.User, error) {
	return s.users.ListUsers(ctx)
}

func (s *LibraryService) GetUser(ctx context.Context, id uint) (*entities.User, error) {
	return s.users.GetUserByID(ctx, id)
}
