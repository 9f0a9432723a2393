package testutil

import (
	"testing"

	"git.solsynth.dev/hypernet/collab/pkg/internal/database"
	"git.solsynth.dev/hypernet/collab/pkg/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestAPIKey        = "devkey"
	TestAPISecret     = "devsecret-devsecret-devsecret-devsecret"
	TestEndpoint      = "wss://livekit.test"
	TestSessionSecret = "test-session-secret"
)

// NewDatabase points database.C at a fresh in-memory SQLite database for the
// duration of the test. Tests using it must not run in parallel.
func NewDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	raw, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access test database: %v", err)
	}
	// Every pooled connection to ":memory:" would otherwise see its own database.
	raw.SetMaxOpenConns(1)

	if err := database.RunMigration(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	previous := database.C
	database.C = db
	t.Cleanup(func() {
		database.C = previous
		_ = raw.Close()
	})

	return db
}

// UseSettings installs LiveKit and session settings, restoring viper afterwards.
func UseSettings(t *testing.T) {
	t.Helper()

	viper.Set("calling.endpoint", TestEndpoint)
	viper.Set("calling.api_key", TestAPIKey)
	viper.Set("calling.api_secret", TestAPISecret)
	viper.Set("security.session_secret", TestSessionSecret)
	viper.Set("security.session_ttl", "1h")
	t.Cleanup(viper.Reset)
}

// WithoutMediaCredentials blanks the LiveKit key pair.
func WithoutMediaCredentials(t *testing.T) {
	t.Helper()

	viper.Set("calling.api_key", "")
	viper.Set("calling.api_secret", "")
}

func CountRows(t *testing.T, model any) int64 {
	t.Helper()

	var count int64
	if err := database.C.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}

func CreateAccount(t *testing.T, name, email string) models.Account {
	t.Helper()

	account := models.Account{Name: name, Email: email}
	if err := database.C.Create(&account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}
