package store

import (
	"testing"

	"github.com/soyeahso/tasknest/internal/domain"
	"github.com/soyeahso/tasknest/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	log := logging.New(nil, "silent")
	db, err := Open(":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testUser(t *testing.T, db *DB, email string) *domain.User {
	t.Helper()
	user, err := NewUserStore(db).Create(email, "hash", "")
	require.NoError(t, err)
	return user
}

// --- DB/Migration tests ---

func TestOpen_InMemory(t *testing.T) {
	db := testDB(t)
	assert.NotNil(t, db)
	assert.NotNil(t, db.SQL())
}

func TestMigrations_Applied(t *testing.T) {
	db := testDB(t)

	var count int
	err := db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestMigrations_Idempotent(t *testing.T) {
	db := testDB(t)

	// Running migrate again should be a no-op
	err := db.migrate()
	require.NoError(t, err)

	var count int
	err = db.sql.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, len(migrations), count)
}

func TestSchema_TablesExist(t *testing.T) {
	db := testDB(t)

	tables := []string{"users", "tasks", "conversations", "messages"}
	for _, table := range tables {
		var name string
		err := db.sql.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

// --- User store tests ---

func TestUserStore_CreateAndGet(t *testing.T) {
	db := testDB(t)
	us := NewUserStore(db)

	created, err := us.Create("alice@example.com", "hashed-pw", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	byEmail, err := us.GetByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byEmail.ID)
	assert.Equal(t, "hashed-pw", byEmail.PasswordHash)
	assert.Equal(t, "Alice", byEmail.Name)

	byID, err := us.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
}

func TestUserStore_DuplicateEmail(t *testing.T) {
	db := testDB(t)
	us := NewUserStore(db)

	_, err := us.Create("alice@example.com", "h1", "")
	require.NoError(t, err)

	_, err = us.Create("alice@example.com", "h2", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserStore_NotFound(t *testing.T) {
	db := testDB(t)
	us := NewUserStore(db)

	_, err := us.GetByEmail("nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = us.GetByID("nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
}

// --- Task store tests ---

func TestTaskStore_CreateAndGet(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice@example.com")
	ts := NewTaskStore(db)

	created, err := ts.Create(user.ID, "Buy groceries", "milk, eggs")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.False(t, created.Completed)

	got, err := ts.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Buy groceries", got.Title)
	assert.Equal(t, "milk, eggs", got.Description)
	assert.Equal(t, user.ID, got.OwnerID)
}

func TestTaskStore_Get_NotFound(t *testing.T) {
	db := testDB(t)
	ts := NewTaskStore(db)

	_, err := ts.Get(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskStore_ListByOwner_NewestFirst(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice@example.com")
	ts := NewTaskStore(db)

	first, err := ts.Create(user.ID, "first", "")
	require.NoError(t, err)
	second, err := ts.Create(user.ID, "second", "")
	require.NoError(t, err)

	tasks, err := ts.ListByOwner(user.ID, nil)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, second.ID, tasks[0].ID)
	assert.Equal(t, first.ID, tasks[1].ID)
}

func TestTaskStore_ListByOwner_Filtered(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice@example.com")
	ts := NewTaskStore(db)

	open, err := ts.Create(user.ID, "open", "")
	require.NoError(t, err)
	done, err := ts.Create(user.ID, "done", "")
	require.NoError(t, err)
	done.Completed = true
	require.NoError(t, ts.Save(done))

	completed := true
	tasks, err := ts.ListByOwner(user.ID, &completed)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, done.ID, tasks[0].ID)

	pending := false
	tasks, err = ts.ListByOwner(user.ID, &pending)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, open.ID, tasks[0].ID)
}

func TestTaskStore_ListByOwner_Scoped(t *testing.T) {
	db := testDB(t)
	alice := testUser(t, db, "alice@example.com")
	bob := testUser(t, db, "bob@example.com")
	ts := NewTaskStore(db)

	_, err := ts.Create(alice.ID, "alice task", "")
	require.NoError(t, err)

	tasks, err := ts.ListByOwner(bob.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskStore_Save(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice@example.com")
	ts := NewTaskStore(db)

	task, err := ts.Create(user.ID, "before", "")
	require.NoError(t, err)

	task.Title = "after"
	task.Completed = true
	require.NoError(t, ts.Save(task))

	got, err := ts.Get(task.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.True(t, got.Completed)
}

func TestTaskStore_Delete(t *testing.T) {
	db := testDB(t)
	user := testUser(t, db, "alice@example.com")
	ts := NewTaskStore(db)

	task, err := ts.Create(user.ID, "gone soon", "")
	require.NoError(t, err)

	require.NoError(t, ts.Delete(task.ID))
	_, err = ts.Get(task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, ts.Delete(task.ID), ErrNotFound)
}
