package revision_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bramble/internal/database"
	"bramble/internal/models"
	"bramble/internal/page"
	"bramble/internal/revision"
)

func newTestRepos(t *testing.T) (*page.Repository, *revision.Repository) {
	t.Helper()
	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return page.NewRepository(db), revision.NewRepository(db)
}

func TestAppendAssignsSequentialEvents(t *testing.T) {
	pages, revisions := newTestRepos(t)
	ctx := context.Background()

	pg := &models.Page{Title: "Home"}
	require.NoError(t, pages.Create(ctx, pg))

	first, err := revisions.Append(ctx, pg.ID, "tp1", "cp1", "create")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Event)
	assert.False(t, first.WrittenAt.IsZero())

	second, err := revisions.Append(ctx, pg.ID, "tp2", "cp2", "edit")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Event)

	third, err := revisions.Append(ctx, pg.ID, "tp3", "cp3", "edit")
	require.NoError(t, err)
	assert.Equal(t, 3, third.Event)
}

func TestEventsAreIndependentPerPage(t *testing.T) {
	pages, revisions := newTestRepos(t)
	ctx := context.Background()

	a := &models.Page{Title: "A"}
	b := &models.Page{Title: "B"}
	require.NoError(t, pages.Create(ctx, a))
	require.NoError(t, pages.Create(ctx, b))

	_, err := revisions.Append(ctx, a.ID, "", "", "create")
	require.NoError(t, err)
	_, err = revisions.Append(ctx, a.ID, "", "", "edit")
	require.NoError(t, err)

	firstB, err := revisions.Append(ctx, b.ID, "", "", "create")
	require.NoError(t, err)
	assert.Equal(t, 1, firstB.Event)
}

func TestListByPageOrder(t *testing.T) {
	pages, revisions := newTestRepos(t)
	ctx := context.Background()

	pg := &models.Page{Title: "Home"}
	require.NoError(t, pages.Create(ctx, pg))
	for i := 0; i < 3; i++ {
		_, err := revisions.Append(ctx, pg.ID, "", "", "edit")
		require.NoError(t, err)
	}

	asc, err := revisions.ListByPage(pg.ID, false)
	require.NoError(t, err)
	require.Len(t, asc, 3)
	for i, rev := range asc {
		assert.Equal(t, i+1, rev.Event)
	}

	desc, err := revisions.ListByPage(pg.ID, true)
	require.NoError(t, err)
	require.Len(t, desc, 3)
	for i, rev := range desc {
		assert.Equal(t, 3-i, rev.Event)
	}
}

func TestFindByPageAndEvent(t *testing.T) {
	pages, revisions := newTestRepos(t)
	ctx := context.Background()

	pg := &models.Page{Title: "Home"}
	require.NoError(t, pages.Create(ctx, pg))
	_, err := revisions.Append(ctx, pg.ID, "tp", "cp", "create")
	require.NoError(t, err)

	found, err := revisions.FindByPageAndEvent(pg.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "tp", found.TitlePatch)
	assert.Equal(t, "cp", found.ContentPatch)
	assert.Equal(t, "create", found.Summary)

	absent, err := revisions.FindByPageAndEvent(pg.ID, 2)
	require.NoError(t, err)
	assert.Nil(t, absent)
}
