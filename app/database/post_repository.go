package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SQLPostRepository handles database operations for posts
type SQLPostRepository struct {
	db *DB
}

func NewPostRepository(db *DB) *SQLPostRepository {
	return &SQLPostRepository{db: db}
}

// ListDrafts returns draft-status posts of the given types authored by
// authorID, ordered by creation time ascending.
func (r *SQLPostRepository) ListDrafts(authorID string, types []string, limit int) ([]Post, error) {
	if len(types) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(types))
	placeholders = placeholders[:len(placeholders)-2]

	args := make([]interface{}, 0, len(types)+2)
	args = append(args, authorID)
	for _, t := range types {
		args = append(args, t)
	}
	args = append(args, limit)

	rows, err := r.db.Query(fmt.Sprintf(`
		SELECT id, author_id, post_type, status, title, content, created_at, updated_at
		FROM posts
		WHERE author_id = ?
		  AND status = 'draft'
		  AND post_type IN (%s)
		ORDER BY created_at ASC
		LIMIT ?
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var post Post
		err := rows.Scan(
			&post.ID, &post.AuthorID, &post.Type, &post.Status,
			&post.Title, &post.Content, &post.CreatedAt, &post.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}

	return posts, nil
}

// CreatePost inserts a post and returns its ID. A zero CreatedAt defaults to
// now; a zero UpdatedAt defaults to CreatedAt.
func (r *SQLPostRepository) CreatePost(post Post) (string, error) {
	id := post.ID
	if id == "" {
		id = uuid.NewString()
	}

	createdAt := post.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	updatedAt := post.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	postType := post.Type
	if postType == "" {
		postType = "post"
	}
	status := post.Status
	if status == "" {
		status = "draft"
	}

	_, err := r.db.Exec(`
		INSERT INTO posts (id, author_id, post_type, status, title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, id, post.AuthorID, postType, status, post.Title, post.Content, createdAt, updatedAt)

	if err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}

	return id, nil
}

func (r *SQLPostRepository) GetPost(id string) (*Post, error) {
	var post Post
	err := r.db.QueryRow(`
		SELECT id, author_id, post_type, status, title, content, created_at, updated_at
		FROM posts
		WHERE id = ?
	`, id).Scan(
		&post.ID, &post.AuthorID, &post.Type, &post.Status,
		&post.Title, &post.Content, &post.CreatedAt, &post.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

func (r *SQLPostRepository) GetPostCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get post count: %w", err)
	}
	return count, nil
}
