// Package patch encodes the difference between two texts as a reversible
// textual patch. The encoding is opaque to callers: it is stored verbatim on
// revisions and only ever re-interpreted by Apply.
package patch

import (
	"fmt"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Compute returns a patch transforming oldText into newText. Either side may
// be empty (page creation patches against "").
func Compute(oldText, newText string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	diffs = dmp.DiffCleanupSemantic(diffs)
	patches := dmp.PatchMake(oldText, diffs)
	return dmp.PatchToText(patches)
}

// Apply transforms base with a patch previously produced by Compute.
func Apply(base, encoded string) (string, error) {
	dmp := diffmatchpatch.New()
	patches, err := dmp.PatchFromText(encoded)
	if err != nil {
		return "", fmt.Errorf("error decoding patch: %w", err)
	}
	applied, _ := dmp.PatchApply(patches, base)
	return applied, nil
}
