package config

const (
	// DefaultDatabasePath is the SQLite file used when DATABASE_TYPE is sqlite
	DefaultDatabasePath = "./personal-library.db"

	// DefaultEnvFile is read on start-up when it exists
	DefaultEnvFile = ".env"

	// DefaultGoogleBooksURL is the Google Books API root
	DefaultGoogleBooksURL = "https://www.googleapis.com/books/v1"

	// DefaultOpenLibraryURL is the Open Library API root
	DefaultOpenLibraryURL = "https://openlibrary.org"
)
