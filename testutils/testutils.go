package testutils

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"eztestbot/db"
)

// TestSchema is the database schema integration tests run against
const TestSchema = "eztestbot_test"

// SetupTestDB opens a connection to the test database. Tests should skip
// when this fails so the pure-Go suites still run without Postgres.
func SetupTestDB() (*sqlx.DB, error) {
	// Try to load environment variables from various possible locations
	_ = godotenv.Load("../../.env.test") // From services/<name>/ directories
	_ = godotenv.Load(".env.test")       // From root directory
	_ = godotenv.Load()                  // Default .env file

	databaseURL := os.Getenv("DB_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DB_URL is not set")
	}

	return db.NewConnection(databaseURL)
}

// UniqueChannelID returns a channel identifier that will not collide across
// test runs sharing one database
func UniqueChannelID() string {
	return "chan-" + uuid.New().String()
}

// UniqueProjectID returns a project identifier unique to this test run
func UniqueProjectID() string {
	return "proj-" + uuid.New().String()
}
