package store

import (
	"fmt"
	"testing"

	"github.com/soyeahso/tasknest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationStore_GetOrCreate_New(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice@example.com")
	cs := NewConversationStore(db)

	conv, err := cs.GetOrCreate(user.ID, nil)
	require.NoError(t, err)
	assert.NotZero(t, conv.ID)
	assert.Equal(t, user.ID, conv.OwnerID)
}

func TestConversationStore_GetOrCreate_Existing(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice@example.com")
	cs := NewConversationStore(db)

	created, err := cs.GetOrCreate(user.ID, nil)
	require.NoError(t, err)

	resolved, err := cs.GetOrCreate(user.ID, &created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, resolved.ID)
}

func TestConversationStore_GetOrCreate_OtherOwnerIsNotFound(t *testing.T) {
	db := testDB(t)
	alice := testUser(t, db, "alice@example.com")
	bob := testUser(t, db, "bob@example.com")
	cs := NewConversationStore(db)

	conv, err := cs.GetOrCreate(alice.ID, nil)
	require.NoError(t, err)

	_, err = cs.GetOrCreate(bob.ID, &conv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConversationStore_GetOrCreate_MissingID(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice@example.com")
	cs := NewConversationStore(db)

	missing := int64(999)
	_, err := cs.GetOrCreate(user.ID, &missing)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConversationStore_AppendAndList(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice@example.com")
	cs := NewConversationStore(db)

	conv, err := cs.GetOrCreate(user.ID, nil)
	require.NoError(t, err)

	_, err = cs.AppendMessage(conv.ID, user.ID, domain.RoleUser, "hello")
	require.NoError(t, err)
	_, err = cs.AppendMessage(conv.ID, user.ID, domain.RoleAssistant, "hi there")
	require.NoError(t, err)

	msgs, err := cs.Messages(conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, domain.RoleUser, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, domain.RoleAssistant, msgs[1].Role)
}

func TestConversationStore_Window(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice@example.com")
	cs := NewConversationStore(db)

	conv, err := cs.GetOrCreate(user.ID, nil)
	require.NoError(t, err)

	for i := 1; i <= 11; i++ {
		_, err := cs.AppendMessage(conv.ID, user.ID, domain.RoleUser, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	window, err := cs.Window(conv.ID, 10)
	require.NoError(t, err)
	require.Len(t, window, 10)
	// Message #1 falls out of the window; #2–#11 remain in order.
	assert.Equal(t, "message 2", window[0].Content)
	assert.Equal(t, "message 11", window[9].Content)
}

func TestConversationStore_Window_ShorterThanLimit(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice@example.com")
	cs := NewConversationStore(db)

	conv, err := cs.GetOrCreate(user.ID, nil)
	require.NoError(t, err)

	_, err = cs.AppendMessage(conv.ID, user.ID, domain.RoleUser, "only one")
	require.NoError(t, err)

	window, err := cs.Window(conv.ID, 10)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "only one", window[0].Content)
}

func TestConversationStore_ListByOwner_Scoped(t *testing.T) {
	db := testDB(t)
	alice := testUser(t, db, "alice@example.com")
	bob := testUser(t, db, "bob@example.com")
	cs := NewConversationStore(db)

	_, err := cs.GetOrCreate(alice.ID, nil)
	require.NoError(t, err)
	_, err = cs.GetOrCreate(alice.ID, nil)
	require.NoError(t, err)

	convs, err := cs.ListByOwner(alice.ID)
	require.NoError(t, err)
	assert.Len(t, convs, 2)

	convs, err = cs.ListByOwner(bob.ID)
	require.NoError(t, err)
	assert.Empty(t, convs)
}

func TestConversationStore_Get_OwnershipAsNotFound(t *testing.T) {
	db := testDB(t)
	alice := testUser(t, db, "alice@example.com")
	bob := testUser(t, db, "bob@example.com")
	cs := NewConversationStore(db)

	conv, err := cs.GetOrCreate(alice.ID, nil)
	require.NoError(t, err)

	got, err := cs.Get(alice.ID, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, got.ID)

	_, err = cs.Get(bob.ID, conv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
