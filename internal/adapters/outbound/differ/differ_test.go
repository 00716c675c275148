package differ_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dashlint/dashlint/internal/adapters/outbound/differ"
)

func TestDiff_UnifiedFormat(t *testing.T) {
	before := "node_modules\ndist\n"
	after := "node_modules\ndist\n.env\n*.log\n"

	out, err := differ.New().Diff(".gitignore", before, after)
	require.NoError(t, err)

	assert.Contains(t, out, "--- a/.gitignore\n")
	assert.Contains(t, out, "+++ b/.gitignore\n")
	assert.Contains(t, out, "@@ -1,2 +1,4 @@")
	assert.Contains(t, out, "+.env\n")
	assert.Contains(t, out, "+*.log\n")
	assert.Contains(t, out, " dist\n")
}

func TestDiff_NoChange(t *testing.T) {
	out, err := differ.New().Diff("a.js", "same\n", "same\n")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestDiff_ContextWindow(t *testing.T) {
	before := "1\n2\n3\n4\n5\n6\n7\n8\n9\n"
	after := "1\n2\n3\n4\nfive\n6\n7\n8\n9\n"

	d := &differ.UnifiedDiffer{Context: 1}
	out, err := d.Diff("n.txt", before, after)
	require.NoError(t, err)
	assert.Contains(t, out, "@@ -4,3 +4,3 @@")
	assert.NotContains(t, out, " 2\n")
}
