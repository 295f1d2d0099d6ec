package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/soyeahso/tasknest/internal/domain"
)

// ErrEmailTaken is returned when registering with an email that already exists.
var ErrEmailTaken = errors.New("email already registered")

// UserStore persists user accounts.
type UserStore struct {
	db *DB
}

// NewUserStore creates a user store using the given database.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// Create registers a new user. The password must already be hashed.
func (s *UserStore) Create(email, passwordHash, name string) (*domain.User, error) {
	user := domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		CreatedAt:    time.Now().UTC(),
	}

	_, err := s.db.sql.Exec(
		`INSERT INTO users (id, email, password_hash, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.CreatedAt.Format(time.DateTime),
	)
	if err != nil {
		// The unique index on email is the authority on duplicates. Re-check
		// after a failed insert so concurrent signups both resolve to
		// ErrEmailTaken instead of a driver error.
		var exists int
		if s.db.sql.QueryRow(`SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&exists) == nil && exists > 0 {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	return &user, nil
}

// GetByEmail returns the user with the given email, or ErrNotFound.
func (s *UserStore) GetByEmail(email string) (*domain.User, error) {
	return s.scanUser(s.db.sql.QueryRow(
		`SELECT id, email, password_hash, name, created_at FROM users WHERE email = ?`, email,
	))
}

// GetByID returns the user with the given id, or ErrNotFound.
func (s *UserStore) GetByID(id string) (*domain.User, error) {
	return s.scanUser(s.db.sql.QueryRow(
		`SELECT id, email, password_hash, name, created_at FROM users WHERE id = ?`, id,
	))
}

func (s *UserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var createdAt string

	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	user.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	return &user, nil
}
