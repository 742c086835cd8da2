package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string, logLevel logger.LogLevel) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return nil
}

// AutoMigrate runs database migrations
func AutoMigrate() error {
	log.Println("Running database migrations...")

	err := DB.AutoMigrate(
		&User{},
		&Staff{},
		&Issue{},
		&MergeRecord{},
		&LostFoundItem{},
		&Feedback{},
		&Announcement{},
		&Thread{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// InitializeDefaults creates default records if they don't exist
func InitializeDefaults(adminEmail, adminName, adminPasswordHash string) error {
	if adminEmail == "" || adminPasswordHash == "" {
		return nil
	}

	var count int64
	DB.Model(&User{}).Where("role = ?", UserRoleAdmin).Count(&count)
	if count == 0 {
		admin := &User{
			Name:         adminName,
			Email:        adminEmail,
			PasswordHash: adminPasswordHash,
			Role:         UserRoleAdmin,
		}
		if err := DB.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create default admin user: %w", err)
		}
		log.Printf("Created default admin user: %s", adminEmail)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// Close closes the database connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// FindIssueByUUID looks up a single issue by its public id.
// Accepts a db parameter (rather than using the global DB) to support
// dependency injection, transaction contexts, and easier testing.
func FindIssueByUUID(db *gorm.DB, id string) (*Issue, error) {
	var issue Issue
	if err := db.Where("uuid = ?", id).First(&issue).Error; err != nil {
		return nil, err
	}
	return &issue, nil
}

// FindIssuesByUUIDs loads all issues matching the given public ids.
func FindIssuesByUUIDs(db *gorm.DB, ids []string) ([]Issue, error) {
	var issues []Issue
	if err := db.Where("uuid IN ?", ids).Find(&issues).Error; err != nil {
		return nil, err
	}
	return issues, nil
}

// FindOpenUnmergedIssues returns the pool of issues eligible as duplicate
// candidates: open (reported, assigned or in-progress) and not already
// folded into another issue.
func FindOpenUnmergedIssues(db *gorm.DB) ([]Issue, error) {
	var issues []Issue
	err := db.Where("status IN ?", OpenIssueStatuses).
		Where("merged_into IS NULL OR merged_into = ''").
		Order("created_at ASC").
		Find(&issues).Error
	return issues, err
}

// FindUserByEmail looks up a user by email.
func FindUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindUserByUUID looks up a user by its public id.
func FindUserByUUID(db *gorm.DB, id string) (*User, error) {
	var user User
	if err := db.Where("uuid = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// IsRecordNotFound reports whether err is the store's not-found error.
func IsRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
