package database

// SettingsRepository is the persistent key/value store backing the
// runtime-mutable reminder configuration.
type SettingsRepository interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	DeleteAll() error
}

// PostRepository provides access to the content records the reminder scans.
type PostRepository interface {
	ListDrafts(authorID string, types []string, limit int) ([]Post, error)
	CreatePost(post Post) (string, error)
	GetPost(id string) (*Post, error)
	GetPostCount() (int, error)
}

// UserRepository lists the recipients of reminder emails.
type UserRepository interface {
	ListUsers() ([]User, error)
	CreateUser(email, name string) (string, error)
	GetUserCount() (int, error)
}

var _ SettingsRepository = (*SQLSettingsRepository)(nil)
var _ PostRepository = (*SQLPostRepository)(nil)
var _ UserRepository = (*SQLUserRepository)(nil)
