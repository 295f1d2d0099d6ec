package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/soyeahso/tasknest/internal/domain"
)

// ConversationStore persists conversations and their messages.
type ConversationStore struct {
	db *DB
}

// NewConversationStore creates a conversation store using the given database.
func NewConversationStore(db *DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// GetOrCreate resolves an existing conversation or creates a new one.
// When id is nil a fresh conversation is created for the owner. When id is
// set, the conversation must exist and belong to the owner; a mismatch is
// reported as ErrNotFound so callers never learn about other owners'
// conversations. Resolving an existing conversation bumps updated_at.
func (s *ConversationStore) GetOrCreate(ownerID string, id *int64) (*domain.Conversation, error) {
	if id == nil {
		return s.create(ownerID)
	}

	var conv domain.Conversation
	var createdAt, updatedAt string
	err := s.db.sql.QueryRow(
		`SELECT id, owner_id, created_at, updated_at FROM conversations WHERE id = ?`, *id,
	).Scan(&conv.ID, &conv.OwnerID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}
	if conv.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	conv.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	conv.UpdatedAt = time.Now().UTC()

	_, err = s.db.sql.Exec(
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		conv.UpdatedAt.Format(time.DateTime), conv.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("touching conversation: %w", err)
	}
	return &conv, nil
}

func (s *ConversationStore) create(ownerID string) (*domain.Conversation, error) {
	now := time.Now().UTC()

	res, err := s.db.sql.Exec(
		`INSERT INTO conversations (owner_id, created_at, updated_at) VALUES (?, ?, ?)`,
		ownerID, now.Format(time.DateTime), now.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting conversation: %w", err)
	}

	convID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading conversation id: %w", err)
	}

	return &domain.Conversation{
		ID:        convID,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// AppendMessage stores a message in a conversation and bumps the
// conversation's updated_at timestamp.
func (s *ConversationStore) AppendMessage(convID int64, ownerID, role, content string) (*domain.Message, error) {
	now := time.Now().UTC()

	res, err := s.db.sql.Exec(
		`INSERT INTO messages (conversation_id, owner_id, role, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		convID, ownerID, role, content, now.Format(time.DateTime),
	)
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}

	msgID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading message id: %w", err)
	}

	_, err = s.db.sql.Exec(
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		now.Format(time.DateTime), convID,
	)
	if err != nil {
		return nil, fmt.Errorf("touching conversation: %w", err)
	}

	return &domain.Message{
		ID:             msgID,
		ConversationID: convID,
		OwnerID:        ownerID,
		Role:           role,
		Content:        content,
		CreatedAt:      now,
	}, nil
}

// Messages returns all messages of a conversation in chronological order.
func (s *ConversationStore) Messages(convID int64) ([]domain.Message, error) {
	rows, err := s.db.sql.Query(
		`SELECT id, conversation_id, owner_id, role, content, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY id`, convID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// Window returns the last n messages of a conversation in chronological order.
func (s *ConversationStore) Window(convID int64, n int) ([]domain.Message, error) {
	rows, err := s.db.sql.Query(
		`SELECT id, conversation_id, owner_id, role, content, created_at
		 FROM (SELECT * FROM messages WHERE conversation_id = ? ORDER BY id DESC LIMIT ?)
		 ORDER BY id`, convID, n,
	)
	if err != nil {
		return nil, fmt.Errorf("loading message window: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListByOwner returns the owner's conversations, most recently updated first.
func (s *ConversationStore) ListByOwner(ownerID string) ([]domain.Conversation, error) {
	rows, err := s.db.sql.Query(
		`SELECT id, owner_id, created_at, updated_at
		 FROM conversations WHERE owner_id = ? ORDER BY updated_at DESC, id DESC`, ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		var createdAt, updatedAt string
		if err := rows.Scan(&conv.ID, &conv.OwnerID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		conv.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		conv.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// Get returns a conversation by id scoped to the owner, or ErrNotFound.
func (s *ConversationStore) Get(ownerID string, id int64) (*domain.Conversation, error) {
	var conv domain.Conversation
	var createdAt, updatedAt string
	err := s.db.sql.QueryRow(
		`SELECT id, owner_id, created_at, updated_at FROM conversations WHERE id = ?`, id,
	).Scan(&conv.ID, &conv.OwnerID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning conversation: %w", err)
	}
	if conv.OwnerID != ownerID {
		return nil, ErrNotFound
	}

	conv.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
	conv.UpdatedAt, _ = time.Parse(time.DateTime, updatedAt)
	return &conv, nil
}

func scanMessages(rows *sql.Rows) ([]domain.Message, error) {
	var msgs []domain.Message
	for rows.Next() {
		var msg domain.Message
		var createdAt string
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.OwnerID,
			&msg.Role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		msg.CreatedAt, _ = time.Parse(time.DateTime, createdAt)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
