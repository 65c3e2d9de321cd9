package database

import (
	"fmt"

	"github.com/google/uuid"
)

// SQLUserRepository handles database operations for users
type SQLUserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

// ListUsers returns all users in a stable order (oldest first).
func (r *SQLUserRepository) ListUsers() ([]User, error) {
	rows, err := r.db.Query(`
		SELECT id, email, name, created_at
		FROM users
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

func (r *SQLUserRepository) CreateUser(email, name string) (string, error) {
	id := uuid.NewString()

	_, err := r.db.Exec(`
		INSERT INTO users (id, email, name)
		VALUES (?, ?, ?)
	`, id, email, name)

	if err != nil {
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	return id, nil
}

func (r *SQLUserRepository) GetUserCount() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get user count: %w", err)
	}
	return count, nil
}
