package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

var DB *sql.DB

func GetDB() *sql.DB {
	return DB
}

// Connect opens the MySQL pool. The DSN needs parseTime=true for the users table.
func Connect(dsn string) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return err
	}

	DB = db
	logrus.Info("MySQL connected")
	return nil
}

// gooseUp is swapped in tests.
var gooseUp = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the goose migrations of migrationsDir.
// A missing directory is not an error.
func RunMigrations(migrationsDir string) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	return applyMigrations(ctx, DB, migrationsDir)
}

func applyMigrations(ctx context.Context, db *sql.DB, migrationsDir string) error {
	if _, err := os.Stat(migrationsDir); errors.Is(err, fs.ErrNotExist) {
		logrus.WithField("dir", migrationsDir).Warn("migrations directory not found, skipping")
		return nil
	}

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUp(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("migrations in %s failed: %w", migrationsDir, err)
	}
	logrus.WithField("dir", migrationsDir).Info("migrations applied")
	return nil
}
