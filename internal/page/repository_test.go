package page_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bramble/internal/database"
	"bramble/internal/models"
	"bramble/internal/page"
)

func newTestRepo(t *testing.T) *page.Repository {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return page.NewRepository(db)
}

func createPage(t *testing.T, repo *page.Repository, title, content string) *models.Page {
	t.Helper()
	pg := &models.Page{Title: title, Content: content, Text: content}
	require.NoError(t, repo.Create(context.Background(), pg))
	return pg
}

func TestFindByTitleAbsent(t *testing.T) {
	repo := newTestRepo(t)

	pg, err := repo.FindByTitle("nope")
	require.NoError(t, err)
	assert.Nil(t, pg)
}

func TestCreateAndFind(t *testing.T) {
	repo := newTestRepo(t)
	created := createPage(t, repo, "Home", "Hello")

	assert.NotZero(t, created.ID)

	found, err := repo.FindByTitle("Home")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Hello", found.Content)
	assert.Nil(t, found.LockToken)
	assert.Nil(t, found.LockExpiry)

	byID, err := repo.FindByID(created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "Home", byID.Title)
}

func TestCreateDuplicateTitleFails(t *testing.T) {
	repo := newTestRepo(t)
	createPage(t, repo, "Home", "a")

	err := repo.Create(context.Background(), &models.Page{Title: "Home"})
	assert.Error(t, err)
}

func TestTryLockIsConditional(t *testing.T) {
	repo := newTestRepo(t)
	pg := createPage(t, repo, "Home", "Hello")
	ctx := context.Background()

	expiryA := time.Now().Add(time.Minute)
	require.NoError(t, repo.TryLock(ctx, pg.ID, "token-a", expiryA))

	lockedA, err := repo.FindLocked("Home", "token-a", expiryA)
	require.NoError(t, err)
	require.NotNil(t, lockedA)

	// A second writer's swap is a no-op while the token is set; its
	// confirming read comes back empty.
	expiryB := time.Now().Add(time.Minute)
	require.NoError(t, repo.TryLock(ctx, pg.ID, "token-b", expiryB))

	lockedB, err := repo.FindLocked("Home", "token-b", expiryB)
	require.NoError(t, err)
	assert.Nil(t, lockedB)

	stillA, err := repo.FindLocked("Home", "token-a", expiryA)
	require.NoError(t, err)
	assert.NotNil(t, stillA)
}

func TestUnlockClearsBothFields(t *testing.T) {
	repo := newTestRepo(t)
	pg := createPage(t, repo, "Home", "Hello")
	ctx := context.Background()

	expiry := time.Now().Add(time.Minute)
	require.NoError(t, repo.TryLock(ctx, pg.ID, "token", expiry))
	require.NoError(t, repo.Unlock(ctx, pg.ID))

	found, err := repo.FindByTitle("Home")
	require.NoError(t, err)
	assert.Nil(t, found.LockToken)
	assert.Nil(t, found.LockExpiry)

	// The lock is available again.
	require.NoError(t, repo.TryLock(ctx, pg.ID, "token-2", expiry))
	locked, err := repo.FindLocked("Home", "token-2", expiry)
	require.NoError(t, err)
	assert.NotNil(t, locked)
}

func TestUpdatePersistsAllFields(t *testing.T) {
	repo := newTestRepo(t)
	pg := createPage(t, repo, "Home", "Hello")

	pg.Title = "Homepage"
	pg.Content = "Hello world"
	pg.Refresh = time.Now()
	require.NoError(t, repo.Update(context.Background(), pg))

	found, err := repo.FindByTitle("Homepage")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Hello world", found.Content)

	old, err := repo.FindByTitle("Home")
	require.NoError(t, err)
	assert.Nil(t, old)
}

func TestCountAndOffset(t *testing.T) {
	repo := newTestRepo(t)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)

	createPage(t, repo, "A", "")
	createPage(t, repo, "B", "")
	createPage(t, repo, "C", "")

	count, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	second, err := repo.FindByOffset(1)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "B", second.Title)

	missing, err := repo.FindByOffset(99)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSearch(t *testing.T) {
	repo := newTestRepo(t)
	createPage(t, repo, "Mango", "a small sweet fruit")
	createPage(t, repo, "Apple", "a fruit that keeps doctors away")
	createPage(t, repo, "Stone", "not edible")

	byTitle, err := repo.Search("Mango")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Mango", byTitle[0].Title)

	byText, err := repo.Search("fruit")
	require.NoError(t, err)
	assert.Len(t, byText, 2)

	none, err := repo.Search("zebra")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestScanNullLockFields(t *testing.T) {
	repo := newTestRepo(t)
	pg := createPage(t, repo, "Home", "Hello")

	found, err := repo.FindByID(pg.ID)
	require.NoError(t, err)
	assert.False(t, found.Locked(time.Now()))

	var token sql.NullString
	require.NoError(t, repo.DB.QueryRow("SELECT lock_token FROM pages WHERE id = ?", pg.ID).Scan(&token))
	assert.False(t, token.Valid)
}
