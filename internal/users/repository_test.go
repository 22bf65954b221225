package users

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/storeapi/internal/db/jsonfile"
	"github.com/patric-chuzhbe/storeapi/internal/db/memstore"
	"github.com/patric-chuzhbe/storeapi/internal/logger"
	"github.com/patric-chuzhbe/storeapi/internal/passhash"
)

var errSaveFailed = errors.New("save failed")

type brokenPersister struct{}

func (p *brokenPersister) Load(dest interface{}) error { return errors.New("load failed") }

func (p *brokenPersister) Save(data interface{}) error { return errSaveFailed }

func newTestRepository(t *testing.T) *Repository {
	err := logger.Init("debug")
	require.NoError(t, err)

	return New(memstore.New())
}

func TestCreateAndFind(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	_, found, err := repo.FindOne(ctx, "nonexistent")
	require.NoError(t, err)
	assert.False(t, found)

	usr, err := repo.Create(ctx, "bob", "bob@x.com", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.Equal(t, "bob", usr.Username)
	assert.Equal(t, "bob@x.com", usr.Email)
	assert.NotEqual(t, "secret", usr.Password, "the stored password should be a digest")

	matched, err := passhash.Verify("secret", usr.Password)
	require.NoError(t, err)
	assert.True(t, matched)

	got, found, err := repo.FindOne(ctx, usr.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, usr, got)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindByEmail(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	usr, err := repo.Create(ctx, "bob", "bob@x.com", "secret")
	require.NoError(t, err)

	got, found, err := repo.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, usr, got)

	_, found, err = repo.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestUpdateIsPartialMerge(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	usr, err := repo.Create(ctx, "bob", "bob@x.com", "secret")
	require.NoError(t, err)

	updated, found, err := repo.Update(ctx, usr.ID, Update{Username: "bobby"})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "bobby", updated.Username)
	assert.Equal(t, usr.Email, updated.Email, "an omitted email should keep the stored value")
	assert.Equal(t, usr.Password, updated.Password, "an omitted password should keep the stored digest")

	updated, found, err = repo.Update(ctx, usr.ID, Update{Password: "changed"})
	require.NoError(t, err)
	require.True(t, found)
	assert.NotEqual(t, usr.Password, updated.Password, "a new password should change the stored digest")

	matched, err := passhash.Verify("changed", updated.Password)
	require.NoError(t, err)
	assert.True(t, matched, "the new plaintext should verify against the re-hashed digest")

	_, found, err = repo.Update(ctx, "nonexistent", Update{Username: "nobody"})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemove(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	usr, err := repo.Create(ctx, "bob", "bob@x.com", "secret")
	require.NoError(t, err)

	found, err := repo.Remove(ctx, usr.ID)
	require.NoError(t, err)
	assert.True(t, found)

	_, found, err = repo.FindOne(ctx, usr.ID)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = repo.Remove(ctx, usr.ID)
	require.NoError(t, err)
	assert.False(t, found, "removing an absent ID should report absent")

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "removing an absent ID should not mutate the collection")
}

func TestComparePassword(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	usr, err := repo.Create(ctx, "bob", "bob@x.com", "secret")
	require.NoError(t, err)

	got, matched, err := repo.ComparePassword(ctx, "bob@x.com", "secret")
	require.NoError(t, err)
	require.True(t, matched)
	assert.Equal(t, usr, got)

	_, matched, err = repo.ComparePassword(ctx, "bob@x.com", "wrong")
	require.NoError(t, err)
	assert.False(t, matched)

	_, matched, err = repo.ComparePassword(ctx, "alice@x.com", "secret")
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestSaveFailurePropagation(t *testing.T) {
	err := logger.Init("debug")
	require.NoError(t, err)

	repo := New(&brokenPersister{})
	ctx := context.Background()

	_, err = repo.Create(ctx, "bob", "bob@x.com", "secret")
	assert.ErrorIs(t, err, errSaveFailed, "a persistence failure should surface from Create")
}

func TestCollectionSurvivesRestart(t *testing.T) {
	err := logger.Init("debug")
	require.NoError(t, err)

	fileName := filepath.Join(t.TempDir(), "users_test.json")
	ctx := context.Background()

	repo := New(jsonfile.New(fileName))
	usr, err := repo.Create(ctx, "bob", "bob@x.com", "secret")
	require.NoError(t, err)

	reloaded := New(jsonfile.New(fileName))
	got, found, err := reloaded.FindOne(ctx, usr.ID)
	require.NoError(t, err)
	require.True(t, found, "a record should survive a repository restart")
	assert.Equal(t, usr, got)
}
