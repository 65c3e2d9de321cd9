package database

import (
	"database/sql"
	"fmt"
)

// SQLSettingsRepository handles database operations for settings
type SQLSettingsRepository struct {
	db *DB
}

func NewSettingsRepository(db *DB) *SQLSettingsRepository {
	return &SQLSettingsRepository{db: db}
}

// Get returns the value for a key. The second return value reports whether
// the key is present; an absent key is not an error.
func (r *SQLSettingsRepository) Get(key string) (string, bool, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %q: %w", key, err)
	}

	return value, true, nil
}

func (r *SQLSettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)

	if err != nil {
		return fmt.Errorf("failed to set setting %q: %w", key, err)
	}

	return nil
}

func (r *SQLSettingsRepository) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting %q: %w", key, err)
	}

	return nil
}

// DeleteAll removes every stored setting. Used by the uninstall path.
func (r *SQLSettingsRepository) DeleteAll() error {
	_, err := r.db.Exec(`DELETE FROM settings`)
	if err != nil {
		return fmt.Errorf("failed to delete settings: %w", err)
	}

	return nil
}
