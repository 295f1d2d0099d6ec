package domain

import "time"

// Task limits enforced on create and update.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 1000
)

// Task is a single todo item owned by exactly one user.
type Task struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"ownerId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
