package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// DB is the global database connection
var DB *sqlx.DB

// Connect establishes a connection to the database.
// DB_TYPE selects the backend: "sqlite" (default) or "postgres".
func Connect() error {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" {
		dbType = "sqlite"
	}

	if dbType == "postgres" {
		dsn := os.Getenv("DATABASE_URL")
		if dsn == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}

		db, err := sqlx.Connect("postgres", dsn)
		if err != nil {
			return fmt.Errorf("failed to connect to postgres: %v", err)
		}
		DB = db
		return initializeSchema()
	}

	// SQLite: create data directory if it doesn't exist
	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dataDir := "data"
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %v", err)
		}
		dbPath = filepath.Join(dataDir, "smartreview.db")
	}

	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %v", err)
	}

	if err := configureSQLite(db); err != nil {
		return err
	}

	DB = db
	return initializeSchema()
}

// ConnectMemory opens an in-memory SQLite database. Used by tests and
// throwaway local runs; the schema is initialized the same way as Connect.
func ConnectMemory() error {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		return fmt.Errorf("failed to open in-memory database: %v", err)
	}

	if err := configureSQLite(db); err != nil {
		return err
	}

	DB = db
	return initializeSchema()
}

func configureSQLite(db *sqlx.DB) error {
	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %v", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return nil
}

// Close closes the database connection
func Close() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema() error {
	// Create users table
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			name TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Create sections table
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS sections (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT DEFAULT '',
			color TEXT DEFAULT '',
			is_active BOOLEAN DEFAULT true,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create sections table: %v", err)
	}

	// Create questions table.
	// priority is nullable on purpose: rows imported before the smart-review
	// migration carry NULL and are read as new (priority 0).
	// due_date holds a virtual session day number, not a calendar date.
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			section_id TEXT NOT NULL,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			priority INTEGER,
			is_pending BOOLEAN DEFAULT false,
			due_date INTEGER DEFAULT 0,
			last_rating INTEGER,
			times_reviewed INTEGER DEFAULT 0,
			was_rolled_over BOOLEAN DEFAULT false,
			last_reviewed_at TIMESTAMP,
			ease_factor REAL DEFAULT 2.5,
			consecutive_misses INTEGER DEFAULT 0,
			priority_boosts INTEGER DEFAULT 0,
			pending_session_id TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (section_id) REFERENCES sections(id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create questions table: %v", err)
	}

	// Create section_progress table. The unique index on (user_id, section_id)
	// is what makes the lazy upsert race-safe.
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS section_progress (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			section_id TEXT NOT NULL,
			current_session_day INTEGER DEFAULT 1,
			total_sessions INTEGER DEFAULT 0,
			last_reviewed TIMESTAMP,
			already_advanced_this_session BOOLEAN DEFAULT false,
			last_session_date TIMESTAMP,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id),
			FOREIGN KEY (section_id) REFERENCES sections(id),
			UNIQUE(user_id, section_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create section_progress table: %v", err)
	}

	_, err = DB.Exec(`
		CREATE INDEX IF NOT EXISTS idx_questions_user_section
		ON questions(user_id, section_id)
	`)
	if err != nil {
		return fmt.Errorf("failed to create questions index: %v", err)
	}

	return nil
}
