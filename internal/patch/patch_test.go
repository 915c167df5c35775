package patch_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bramble/internal/patch"
)

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		old  string
		new  string
	}{
		{"creation", "", "Hello"},
		{"deletion", "Hello", ""},
		{"both empty", "", ""},
		{"insert", "Hello", "Hello world"},
		{"replace", "Hello world", "Goodbye world"},
		{"multiline", "line one\nline two\n", "line one\nline 2\nline three\n"},
		{"unicode", "héllo wörld", "héllo wörld ✓"},
		{"unchanged", "same", "same"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			encoded := patch.Compute(tc.old, tc.new)
			applied, err := patch.Apply(tc.old, encoded)
			require.NoError(t, err)
			assert.Equal(t, tc.new, applied)
		})
	}
}

func TestComputeIsPure(t *testing.T) {
	a := patch.Compute("one", "two")
	b := patch.Compute("one", "two")
	assert.Equal(t, a, b)
}

func TestApplyRejectsGarbage(t *testing.T) {
	_, err := patch.Apply("base", "not a patch")
	assert.Error(t, err)
}

func TestUnchangedTextProducesEmptyPatch(t *testing.T) {
	encoded := patch.Compute("same", "same")
	assert.Empty(t, encoded)

	applied, err := patch.Apply("same", encoded)
	require.NoError(t, err)
	assert.Equal(t, "same", applied)
}
