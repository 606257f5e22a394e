package infra

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"subgate/internal/config"
	"subgate/internal/models/db_models"
)

func InitPostgresql(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.PostgresURL), &gorm.Config{
		// Unique violations surface as gorm.ErrDuplicatedKey so the
		// one-active-subscription constraint can be mapped to a conflict
		// error instead of a generic failure.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	return db
}

// Migrate creates the schema plus the partial unique index that enforces at
// most one active subscription per user. The index is the arbiter under
// concurrent activations, so it is created explicitly rather than trusted to
// tag parsing alone.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&db_models.User{},
		&db_models.Plan{},
		&db_models.Subscription{},
		&db_models.Notification{},
		&db_models.UserNotification{},
	); err != nil {
		return err
	}

	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_subscriptions_one_active
		 ON subscriptions (user_id) WHERE is_active`,
	).Error
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	}
}
