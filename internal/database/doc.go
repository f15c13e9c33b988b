// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, migrations, default user seeding
//	├── driver.go        # SQLite, MySQL and PostgreSQL dialectors
//	├── errors.go        # Driver error classification (duplicates, other constraint violations)
//	├── books/           # Books, categories, authors and book_authors
//	├── userbooks/       # Per-user reading state
//	└── users/           # User management
//
// # Units of Work
//
// The ingest and readingstate packages own the Store interfaces they need.
// This package adapts them: every call to Do opens one transaction and
// hands the callback a store built from repositories bound to it.
//
//	uow := database.NewIngestUnitOfWork(db)
//	err := uow.Do(ctx, func(store ingest.Store) error {
//		categoryID, err := store.ResolveCategory(ctx, "Fiction")
//		...
//	})
//
// LibraryReader serves the read-only listing queries outside any
// transaction.
//
// # Interface Implementations
//
//   - IngestUnitOfWork: implements ingest.UnitOfWork
//   - ReadingStateUnitOfWork: implements readingstate.UnitOfWork
//   - LibraryReader: implements listing.Store
//   - users.Repository: implements services.UserStore
//
// # Adding a New Domain
//
//  1. Create a new sub-package: internal/database/<domain>/
//  2. Define a Repository struct with a *gorm.DB field
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Implement the required interface
//  5. Add compile-time interface check: var _ SomeInterface = (*Repository)(nil)
package database
