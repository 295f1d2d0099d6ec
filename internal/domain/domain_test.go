package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserJSON_HidesPasswordHash(t *testing.T) {
	u := User{
		ID:           "u-1",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secret",
		Name:         "Alice",
		CreatedAt:    time.Now().UTC(),
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	raw := string(data)
	assert.NotContains(t, raw, "secret")
	assert.NotContains(t, raw, "passwordHash")
	assert.Contains(t, raw, "alice@example.com")
}

func TestTaskJSON_OmitsEmptyDescription(t *testing.T) {
	task := Task{ID: 1, OwnerID: "u-1", Title: "Buy groceries"}

	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "description")

	task.Description = "milk, eggs"
	data, err = json.Marshal(task)
	require.NoError(t, err)
	assert.Contains(t, string(data), "milk, eggs")
}

func TestMessageJSON(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	msg := Message{
		ID:             7,
		ConversationID: 3,
		OwnerID:        "u-1",
		Role:           RoleAssistant,
		Content:        "Done!",
		CreatedAt:      now,
	}

	data, err := json.Marshal(msg)
	require.NoError(t, err)

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, msg, decoded)
}

func TestToolInvocationJSON(t *testing.T) {
	inv := ToolInvocation{
		Tool:       "add_task",
		Parameters: map[string]any{"title": "Call mom", "user_id": "u-1"},
		Result:     map[string]any{"status": "created", "task_id": float64(5)},
	}

	data, err := json.Marshal(inv)
	require.NoError(t, err)

	var decoded ToolInvocation
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, inv, decoded)
}
