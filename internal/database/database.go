package database

import (
	"log"
	"os"
	"socialink/backend/internal/models"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// allModels is the migration set, leaves after their owners so foreign
// keys resolve.
var allModels = []interface{}{
	&models.User{},
	&models.FriendRequest{},
	&models.Friendship{},
	&models.Block{},
	&models.Post{},
	&models.Like{},
	&models.SavedPost{},
	&models.Comment{},
	&models.Reel{},
	&models.ReelLike{},
	&models.ReelComment{},
	&models.Message{},
	&models.Notification{},
}

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) {
	var err error

	// Configure GORM logger
	customLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold:             200 * time.Millisecond, // Slow SQL threshold
			LogLevel:                  logger.Warn,            // Log level
			IgnoreRecordNotFoundError: true,                   // Ignore ErrRecordNotFound error for logger
			Colorful:                  true,                   // Enable color
		},
	)

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: customLogger,
		// Unique violations must surface as gorm.ErrDuplicatedKey; the
		// toggle relations use them to resolve concurrent double-submits.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established.")

	if err := DB.AutoMigrate(allModels...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	log.Println("Database migrated successfully.")
}

// OpenTest opens a private in-memory sqlite database with the full schema
// migrated. Each call returns an isolated database. The pool is pinned to
// a single connection: an in-memory sqlite database lives and dies with
// its connection, so a second pooled connection would see empty tables.
func OpenTest() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.AutoMigrate(allModels...); err != nil {
		return nil, err
	}
	return db, nil
}
