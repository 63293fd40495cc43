package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/hpungsan/folio/internal/blog"
	"github.com/hpungsan/folio/internal/errors"
)

const postColumns = `id, title, summary, content, category, tags_json, author, date, is_visible`

// InsertPost stores a new post. p.ID must already be assigned.
func InsertPost(ctx context.Context, db *sql.DB, p *blog.Post) error {
	tagsJSON, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}
	now := time.Now().UnixNano()

	query := `
		INSERT INTO posts (
			id, title, summary, content, category, tags_json,
			author, date, is_visible, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.ExecContext(ctx, query,
		p.ID, p.Title, p.Summary, p.Content, string(p.Category), tagsJSON,
		p.Author, p.Date, boolToInt(p.Visible()), now, now,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// GetPost retrieves a post by id. Hidden posts are excluded unless includeHidden.
func GetPost(ctx context.Context, db *sql.DB, id string, includeHidden bool) (*blog.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	if !includeHidden {
		query += " AND is_visible = 1"
	}

	p, err := scanPost(db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("post", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return p, nil
}

// ListPosts returns posts in creation order. Hidden posts are excluded unless
// includeHidden.
func ListPosts(ctx context.Context, db *sql.DB, includeHidden bool) ([]blog.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts`
	if !includeHidden {
		query += " WHERE is_visible = 1"
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	posts := []blog.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}
	return posts, nil
}

// CountPosts returns the number of stored posts, hidden ones included.
func CountPosts(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, errors.NewInternal(err)
	}
	return n, nil
}

// UpdatePost replaces every field of the post stored under p.ID.
// A nil IsVisible keeps the stored visibility.
func UpdatePost(ctx context.Context, db *sql.DB, p *blog.Post) error {
	tagsJSON, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE posts
		SET title = ?, summary = ?, content = ?, category = ?, tags_json = ?,
			author = ?, date = ?, is_visible = COALESCE(?, is_visible), updated_at = ?
		WHERE id = ?
	`
	var visible sql.NullInt64
	if p.IsVisible != nil {
		visible = sql.NullInt64{Int64: int64(boolToInt(*p.IsVisible)), Valid: true}
	}

	result, err := db.ExecContext(ctx, query,
		p.Title, p.Summary, p.Content, string(p.Category), tagsJSON,
		p.Author, p.Date, visible, time.Now().UnixNano(),
		p.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}
	return requireRow(result, p.ID)
}

// DeletePost permanently removes a post.
func DeletePost(ctx context.Context, db *sql.DB, id string) error {
	result, err := db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return errors.NewInternal(err)
	}
	return requireRow(result, id)
}

// ToggleVisibility flips a post's visibility and returns the updated post.
func ToggleVisibility(ctx context.Context, db *sql.DB, id string) (*blog.Post, error) {
	query := `UPDATE posts SET is_visible = 1 - is_visible, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, time.Now().UnixNano(), id)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := requireRow(result, id); err != nil {
		return nil, err
	}
	return GetPost(ctx, db, id, true)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*blog.Post, error) {
	var (
		p        blog.Post
		category string
		tagsJSON sql.NullString
		visible  int
	)
	err := row.Scan(&p.ID, &p.Title, &p.Summary, &p.Content, &category, &tagsJSON,
		&p.Author, &p.Date, &visible)
	if err != nil {
		return nil, err
	}
	p.Category = blog.Category(category)
	p.IsVisible = blog.BoolPtr(visible == 1)

	p.Tags = []string{}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &p.Tags); err != nil {
			return nil, err
		}
	}
	return &p, nil
}

func encodeTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, errors.NewInternal(err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func requireRow(result sql.Result, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if n == 0 {
		return errors.NewNotFound("post", id)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
