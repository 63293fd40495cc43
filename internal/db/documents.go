package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/folio/internal/errors"
)

// MainSlot is the row key of the single CV document.
const MainSlot = "main"

// GetCV returns the raw JSON of the CV stored in slot.
func GetCV(ctx context.Context, db *sql.DB, slot string) ([]byte, error) {
	var doc string
	err := db.QueryRowContext(ctx, `SELECT doc_json FROM cv WHERE slot = ?`, slot).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("cv", slot)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return []byte(doc), nil
}

// PutCV replaces (or creates) the CV stored in slot.
func PutCV(ctx context.Context, db *sql.DB, slot string, doc []byte) error {
	query := `
		INSERT INTO cv (slot, doc_json, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET doc_json = excluded.doc_json, updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, slot, string(doc), time.Now().Unix()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// UpsertAdmin stores an admin account with an already hashed password.
func UpsertAdmin(ctx context.Context, db *sql.DB, username, passwordHash string) error {
	query := `
		INSERT INTO admins (username, password_hash, created_at) VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET password_hash = excluded.password_hash
	`
	if _, err := db.ExecContext(ctx, query, username, passwordHash, time.Now().Unix()); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// AdminPasswordHash returns the stored hash for username.
func AdminPasswordHash(ctx context.Context, db *sql.DB, username string) (string, error) {
	var hash string
	err := db.QueryRowContext(ctx, `SELECT password_hash FROM admins WHERE username = ?`, username).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", errors.NewNotFound("admin", username)
	}
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return hash, nil
}
