package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semg6/personal-library/internal/catalog"
	"github.com/semg6/personal-library/internal/ingest"
	"github.com/semg6/personal-library/internal/readingstate"
)

type fakeCatalog struct {
	records map[string]*catalog.VolumeRecord
	err     error
	calls   []string
}

func (f *fakeCatalog) Lookup(_ context.Context, isbn string) (*catalog.VolumeRecord, error) {
	f.calls = append(f.calls, isbn)
	if f.err != nil {
		return nil, f.err
	}
	record, ok := f.records[isbn]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return record, nil
}

type fakeRecords struct {
	saved map[string]*catalog.VolumeRecord
	err   error
}

func (f *fakeRecords) Save(isbn string, record *catalog.VolumeRecord) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.saved == nil {
		f.saved = make(map[string]*catalog.VolumeRecord)
	}
	f.saved[isbn] = record
	return isbn + ".json", nil
}

type fakeIngester struct {
	seen   map[string]uint
	got    []ingest.Metadata
	err    error
	nextID uint
}

func (f *fakeIngester) Ingest(_ context.Context, m ingest.Metadata) (ingest.Result, error) {
	f.got = append(f.got, m)
	if f.err != nil {
		return ingest.Result{}, f.err
	}
	if f.seen == nil {
		f.seen = make(map[string]uint)
	}
	if id, ok := f.seen[m.ISBN()]; ok {
		return ingest.Result{BookID: id, Outcome: ingest.OutcomeAlreadyPresent, Title: m.Title}, nil
	}
	f.nextID++
	f.seen[m.ISBN()] = f.nextID
	return ingest.Result{BookID: f.nextID, Outcome: ingest.OutcomeCreated, Title: m.Title}, nil
}

type fakeReconciler struct {
	outcome readingstate.Outcome
	err     error
	calls   int
}

func (f *fakeReconciler) Reconcile(_ context.Context, _, _ uint, patch readingstate.Patch) (readingstate.Outcome, error) {
	f.calls++
	if err := patch.Validate(); err != nil {
		return "", err
	}
	return f.outcome, f.err
}

func ddd() *catalog.VolumeRecord {
	return &catalog.VolumeRecord{
		Title:   "Domain-Driven Design",
		Authors: []string{"Eric Evans"},
		IndustryIdentifiers: []catalog.IndustryIdentifier{
			{Type: catalog.IdentifierISBN13, Identifier: "9780321125217"},
			{Type: catalog.IdentifierISBN10, Identifier: "0321125215"},
		},
	}
}

func TestLibraryService_AddByISBN(t *testing.T) {
	ctx := context.Background()

	t.Run("added then already present", func(t *testing.T) {
		cat := &fakeCatalog{records: map[string]*catalog.VolumeRecord{"9780321125217": ddd()}}
		records := &fakeRecords{}
		ingester := &fakeIngester{}
		svc := NewLibraryService(LibraryServiceConfig{Catalog: cat, Records: records, Ingester: ingester})

		result := svc.AddByISBN(ctx, " 978-0-321-12521-7 ")
		assert.Equal(t, AddAdded, result.Kind)
		assert.Equal(t, MessageAdded, result.Message)
		assert.Equal(t, MessageTypeSuccess, result.MessageType())
		assert.Equal(t, "9780321125217", result.ISBN)
		assert.Equal(t, "9780321125217.json", result.RecordFile)
		assert.Equal(t, uint(1), result.BookID)
		assert.Equal(t, []string{"9780321125217"}, cat.calls)
		assert.Contains(t, records.saved, "9780321125217")

		result = svc.AddByISBN(ctx, "9780321125217")
		assert.Equal(t, AddAlreadyPresent, result.Kind)
		assert.Equal(t, MessageAlreadyPresent, result.Message)
		assert.Equal(t, MessageTypeError, result.MessageType())
		assert.Equal(t, uint(1), result.BookID)
	})

	t.Run("invalid ISBN skips the catalog", func(t *testing.T) {
		cat := &fakeCatalog{}
		svc := NewLibraryService(LibraryServiceConfig{Catalog: cat, Ingester: &fakeIngester{}})

		result := svc.AddByISBN(ctx, "12345")
		assert.Equal(t, AddInvalidISBN, result.Kind)
		assert.Empty(t, cat.calls)
	})

	t.Run("not found", func(t *testing.T) {
		ingester := &fakeIngester{}
		svc := NewLibraryService(LibraryServiceConfig{Catalog: &fakeCatalog{}, Ingester: ingester})

		result := svc.AddByISBN(ctx, "0000000000")
		assert.Equal(t, AddNotFound, result.Kind)
		assert.Equal(t, MessageNotFound, result.Message)
		assert.Empty(t, ingester.got)
	})

	t.Run("transport error is a generic failure", func(t *testing.T) {
		cat := &fakeCatalog{err: &catalog.TransportError{Provider: "test", Err: errors.New("connection refused")}}
		svc := NewLibraryService(LibraryServiceConfig{Catalog: cat, Ingester: &fakeIngester{}})

		result := svc.AddByISBN(ctx, "9780321125217")
		assert.Equal(t, AddFailed, result.Kind)
		assert.Equal(t, MessageCatalogFailed, result.Message)
		assert.NotContains(t, result.Message, "connection refused")
	})

	t.Run("record write failure does not stop ingestion", func(t *testing.T) {
		cat := &fakeCatalog{records: map[string]*catalog.VolumeRecord{"9780321125217": ddd()}}
		svc := NewLibraryService(LibraryServiceConfig{
			Catalog:  cat,
			Records:  &fakeRecords{err: errors.New("disk full")},
			Ingester: &fakeIngester{},
		})

		result := svc.AddByISBN(ctx, "9780321125217")
		assert.Equal(t, AddAdded, result.Kind)
		assert.Empty(t, result.RecordFile)
	})

	t.Run("storage error is a generic failure", func(t *testing.T) {
		cat := &fakeCatalog{records: map[string]*catalog.VolumeRecord{"9780321125217": ddd()}}
		ingester := &fakeIngester{err: &ingest.Error{Step: ingest.StepBook, ISBN: "9780321125217", Err: errors.New("UNIQUE constraint failed: books.secret_column")}}
		svc := NewLibraryService(LibraryServiceConfig{Catalog: cat, Ingester: ingester})

		result := svc.AddByISBN(ctx, "9780321125217")
		assert.Equal(t, AddFailed, result.Kind)
		assert.Equal(t, MessageStorageFailed, result.Message)
		assert.NotContains(t, result.Message, "secret_column")
	})

	t.Run("submitted ISBN fills a missing identifier", func(t *testing.T) {
		record := &catalog.VolumeRecord{Title: "No Identifiers"}
		cat := &fakeCatalog{records: map[string]*catalog.VolumeRecord{"0321125215": record}}
		ingester := &fakeIngester{}
		svc := NewLibraryService(LibraryServiceConfig{Catalog: cat, Ingester: ingester})

		result := svc.AddByISBN(ctx, "0-321-12521-5")
		assert.Equal(t, AddAdded, result.Kind)
		require.Len(t, ingester.got, 1)
		assert.Nil(t, ingester.got[0].ISBN13)
		require.NotNil(t, ingester.got[0].ISBN10)
		assert.Equal(t, "0321125215", *ingester.got[0].ISBN10)
	})

	t.Run("record without a title is incomplete", func(t *testing.T) {
		cat := &fakeCatalog{records: map[string]*catalog.VolumeRecord{"9780321125217": {}}}
		svc := NewLibraryService(LibraryServiceConfig{Catalog: cat, Ingester: &fakeIngester{err: ingest.ErrNoTitle}})

		result := svc.AddByISBN(ctx, "9780321125217")
		assert.Equal(t, AddFailed, result.Kind)
		assert.Equal(t, MessageIncomplete, result.Message)
	})
}

func TestLibraryService_UpdateReadingState(t *testing.T) {
	ctx := context.Background()
	reading := "reading"
	page := 42

	tests := []struct {
		name       string
		reconciler *fakeReconciler
		patch      readingstate.Patch
		expected   StateKind
		calls      int
	}{
		{"created", &fakeReconciler{outcome: readingstate.OutcomeCreated}, readingstate.Patch{Status: &reading}, StateCreated, 1},
		{"updated", &fakeReconciler{outcome: readingstate.OutcomeUpdated}, readingstate.Patch{CurrentPage: &page}, StateUpdated, 1},
		{"empty patch", &fakeReconciler{}, readingstate.Patch{}, StateInvalid, 0},
		{"unknown user", &fakeReconciler{err: readingstate.ErrUserNotFound}, readingstate.Patch{Status: &reading}, StateUserMissing, 1},
		{"unknown book", &fakeReconciler{err: readingstate.ErrBookNotFound}, readingstate.Patch{Status: &reading}, StateBookMissing, 1},
		{"storage failure", &fakeReconciler{err: errors.New("disk I/O error")}, readingstate.Patch{Status: &reading}, StateFailed, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewLibraryService(LibraryServiceConfig{Reconciler: tt.reconciler})

			result := svc.UpdateReadingState(ctx, 1, 7, tt.patch)
			assert.Equal(t, tt.expected, result.Kind)
			assert.Equal(t, tt.calls, tt.reconciler.calls)
			assert.NotContains(t, result.Message, "disk I/O")
		})
	}

	t.Run("invalid rating", func(t *testing.T) {
		rating := 9
		svc := NewLibraryService(LibraryServiceConfig{Reconciler: &fakeReconciler{}})

		result := svc.UpdateReadingState(ctx, 1, 7, readingstate.Patch{UserRating: &rating})
		assert.Equal(t, StateInvalid, result.Kind)
		assert.False(t, result.OK())
		assert.Contains(t, result.Message, "rating")
	})
}
