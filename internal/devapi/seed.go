package devapi

import (
	"context"
	"crypto/rand"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/hpungsan/folio/internal/blog"
	"github.com/hpungsan/folio/internal/db"
	"github.com/hpungsan/folio/internal/errors"
)

//go:embed seed/posts.json
var seedPosts []byte

//go:embed seed/cv.json
var seedCV []byte

// newID returns a fresh ULID string.
func newID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Seed installs the admin account (always, so password changes in config
// apply) and, on an empty database, the sample posts and CV.
func Seed(ctx context.Context, conn *sql.DB, username, password string) error {
	if username == "" || password == "" {
		return errors.NewInvalidRequest("devapi admin username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := db.UpsertAdmin(ctx, conn, username, string(hash)); err != nil {
		return err
	}

	n, err := db.CountPosts(ctx, conn)
	if err != nil {
		return err
	}
	if n == 0 {
		var posts []blog.Post
		if err := json.Unmarshal(seedPosts, &posts); err != nil {
			return fmt.Errorf("decode seed posts: %w", err)
		}
		for i := range posts {
			if posts[i].ID, err = newID(); err != nil {
				return err
			}
			if err := db.InsertPost(ctx, conn, &posts[i]); err != nil {
				return err
			}
		}
	}

	if _, err := db.GetCV(ctx, conn, db.MainSlot); errors.Is(err, errors.ErrNotFound) {
		if err := db.PutCV(ctx, conn, db.MainSlot, seedCV); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	return nil
}

// Open initializes the database under baseDir, seeds it, and returns a ready
// Server. The caller closes the returned *sql.DB.
func Open(ctx context.Context, baseDir, username, password string, opts Options) (*Server, *sql.DB, error) {
	conn, err := db.Init(baseDir)
	if err != nil {
		return nil, nil, err
	}
	if err := Seed(ctx, conn, username, password); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return New(conn, opts), conn, nil
}
