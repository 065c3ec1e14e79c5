package database

import (
	"errors"
	"fmt"
	"os"

	"storefront-backend/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=storefront port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// gen_random_uuid() comes from pgcrypto on older Postgres versions.
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
			return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
		}
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductAttribute{},
		&models.ProductSKU{},
		&models.Cart{},
		&models.CartItem{},
	); err != nil {
		return err
	}

	return nil
}

// IsUniqueViolation reports whether err is a unique-constraint failure, either as a raw
// Postgres error (SQLSTATE 23505) or as gorm's translated ErrDuplicatedKey.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
