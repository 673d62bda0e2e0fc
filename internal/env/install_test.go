package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAtomicInstallFreshTarget(t *testing.T) {
	root := t.TempDir()
	scratch := filepath.Join(root, "scratch")
	src := filepath.Join(root, "src.txt")
	writeFile(t, src, "payload")

	target := filepath.Join(root, "out", "file.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))

	require.NoError(t, AtomicInstall(scratch, []Move{{Src: src, Target: target}}))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	_, err = os.Lstat(src)
	assert.True(t, os.IsNotExist(err), "source should have been moved away")
}

func TestAtomicInstallReplacesExistingTarget(t *testing.T) {
	root := t.TempDir()
	scratch := filepath.Join(root, "scratch")
	src := filepath.Join(root, "src.txt")
	writeFile(t, src, "new")

	target := filepath.Join(root, "file.txt")
	writeFile(t, target, "old")

	require.NoError(t, AtomicInstall(scratch, []Move{{Src: src, Target: target}}))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestAtomicInstallMultipleOpsAllOrNothing(t *testing.T) {
	root := t.TempDir()
	scratch := filepath.Join(root, "scratch")

	src1 := filepath.Join(root, "a.txt")
	src2 := filepath.Join(root, "b.txt")
	writeFile(t, src1, "a")
	writeFile(t, src2, "b")

	target1 := filepath.Join(root, "out1.txt")
	target2 := filepath.Join(root, "out2.txt")

	require.NoError(t, AtomicInstall(scratch, []Move{
		{Src: src1, Target: target1},
		{Src: src2, Target: target2},
	}))

	data1, err := os.ReadFile(target1)
	require.NoError(t, err)
	assert.Equal(t, "a", string(data1))

	data2, err := os.ReadFile(target2)
	require.NoError(t, err)
	assert.Equal(t, "b", string(data2))
}

func TestAtomicInstallMissingSourceRollsBackEarlierStashes(t *testing.T) {
	root := t.TempDir()
	scratch := filepath.Join(root, "scratch")

	src1 := filepath.Join(root, "a.txt")
	writeFile(t, src1, "a")
	missingSrc := filepath.Join(root, "does-not-exist.txt")

	target1 := filepath.Join(root, "out1.txt")
	target2 := filepath.Join(root, "out2.txt")

	err := AtomicInstall(scratch, []Move{
		{Src: src1, Target: target1},
		{Src: missingSrc, Target: target2},
	})
	require.Error(t, err)

	// The first op's source must be restored to its original location,
	// and neither target should have been written.
	data, rerr := os.ReadFile(src1)
	require.NoError(t, rerr)
	assert.Equal(t, "a", string(data))

	_, terr := os.Lstat(target1)
	assert.True(t, os.IsNotExist(terr))
	_, terr = os.Lstat(target2)
	assert.True(t, os.IsNotExist(terr))
}
