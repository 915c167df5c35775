package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bramble/internal/render"
)

func TestRenderHeadline(t *testing.T) {
	rendered, err := render.Render("* Welcome\n\nSome text.")
	require.NoError(t, err)
	assert.Contains(t, rendered.HTML, "Welcome")
	assert.Contains(t, rendered.Text, "Welcome")
	assert.Contains(t, rendered.Text, "Some text.")
	assert.NotContains(t, rendered.Text, "<")
}

func TestRenderWikiLink(t *testing.T) {
	rendered, err := render.Render("See [[Other Page]] for more.")
	require.NoError(t, err)
	assert.Contains(t, rendered.HTML, "/wiki/Other%20Page")
	assert.Contains(t, rendered.HTML, ">Other Page</a>")
}

func TestRenderEmpty(t *testing.T) {
	rendered, err := render.Render("")
	require.NoError(t, err)
	assert.Empty(t, rendered.Text)
}
