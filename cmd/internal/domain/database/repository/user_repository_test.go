package repository

import (
	"context"
	"testing"

	"coursenotes/cmd/internal/domain/database/databasetest"
	"coursenotes/cmd/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_EmailIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	db := databasetest.Open(t)
	repo := NewUserRepository(db)

	user := &entity.User{
		ID:           "u1",
		Email:        "Alice@Example.COM",
		PasswordHash: "hash",
		FirstName:    "Alice",
		LastName:     "Smith",
		CreatedAt:    1,
		UpdatedAt:    1,
	}
	require.NoError(t, repo.Save(ctx, user))
	assert.Equal(t, "alice@example.com", user.Email)

	found, err := repo.FindByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "u1", found.ID)

	exists, err := repo.ExistsByEmail(ctx, "alice@EXAMPLE.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	missing, err := repo.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestUserRepository_DeleteWithNotes(t *testing.T) {
	ctx := context.Background()
	db := databasetest.Open(t)
	alice := databasetest.CreateUser(t, db, "u1", "alice@example.com")
	bob := databasetest.CreateUser(t, db, "u2", "bob@example.com")
	users := NewUserRepository(db)
	notes := NewNoteRepository(db)
	conns := NewConnectionRepository(db)

	archivedAt := int64(10)
	a1 := newNote(alice.ID, "Art", "Renaissance painters and works", 100)
	a2 := newNote(alice.ID, "Music", "Baroque composers and forms", 200)
	a2.DeletedAt = &archivedAt
	b1 := newNote(bob.ID, "Law", "Contracts and obligations intro", 300)
	seedNotes(t, db, notes, a1, a2, b1)
	require.NoError(t, conns.Save(ctx, &entity.Connection{ConnectionID: "c1", UserID: alice.ID, ExpiresAt: 1, LastHeartbeatAt: 1, CreatedAt: 1}))

	require.NoError(t, users.DeleteWithNotes(ctx, alice))

	found, err := users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	remaining, err := notes.FindAllByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	connIDs, err := conns.FindByUserID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, connIDs)

	bobNotes, err := notes.FindAllByUserID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobNotes, 1)
}
