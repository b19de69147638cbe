package treasuremaps

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/colorfulnotion/treasure/gameerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadBuiltinMaps(t *testing.T) {
	assert.Equal(t, []string{"demo", "loop"}, Names())

	demo, err := ReadMap("demo")
	require.NoError(t, err)
	assert.Equal(t, map[uint64]uint64{1: 20, 2: 15, 3: 5}, demo.Treasure)
	assert.Equal(t, uint64(40), demo.Total())

	loop, err := ReadMap("loop")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), loop.Treasure[51])

	cfg, err := loop.Config()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Depth)

	demoRoot, err := demo.Root()
	require.NoError(t, err)
	loopRoot, err := loop.Root()
	require.NoError(t, err)
	assert.False(t, demoRoot.Equal(&loopRoot))
}

func TestReadMapFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"grid_size": 4, "treasure": {"5": 7, "15": 1}}`), 0o644))

	m, err := ReadMap(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.ID)
	cfg, err := m.Config()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Depth)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"grid_size": 4, "treasure": {"16": 1}}`), 0o644))
	_, err = ReadMap(bad)
	assert.True(t, errors.Is(err, gameerrors.ErrKeyOutOfRange))

	_, err = ReadMap(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
