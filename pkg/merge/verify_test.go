package merge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyOutput_MatchesMergeResult(t *testing.T) {
	dir := t.TempDir()
	a := writeDump(t, dir, "a.img", join(bad(), bad(), sector("y")))
	b := writeDump(t, dir, "b.img", join(sector("x"), bad(), sector("y")))
	out := filepath.Join(dir, "out.img")
	opts := testOptions()

	res, err := MergeFiles(NewLocalSystem(), a, b, out, opts, nil)
	require.NoError(t, err)

	v, err := VerifyOutput(out, opts, res)
	require.NoError(t, err)
	assert.Equal(t, Verification{Sectors: 3, Bytes: 3 * testSectorSize, Marked: 1}, v)
}

func TestVerifyOutput_DetectsTamperedImage(t *testing.T) {
	dir := t.TempDir()
	out := writeDump(t, dir, "out.img", join(sector("x"), sector("y")))
	opts := testOptions()
	res := Result{Sectors: 2, Bytes: 2 * testSectorSize}

	_, err := VerifyOutput(out, opts, res)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(out, join(sector("x"), bad()), 0o644))
	_, err = VerifyOutput(out, opts, res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unreadable sectors")

	require.NoError(t, os.WriteFile(out, sector("x"), 0o644))
	_, err = VerifyOutput(out, opts, res)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "holds 64 bytes")
}
