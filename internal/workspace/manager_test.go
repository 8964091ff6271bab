package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidfileconvert/convertbot/internal/observability"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(t.TempDir(), observability.Nop())
}

func TestCreate_UniqueDirectories(t *testing.T) {
	mgr := testManager(t)

	first, err := mgr.Create()
	require.NoError(t, err)
	second, err := mgr.Create()
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Root, second.Root)
	assert.DirExists(t, first.Root)
	assert.DirExists(t, second.Root)
}

func TestJoin(t *testing.T) {
	mgr := testManager(t)
	ws, err := mgr.Create()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(ws.Root, "out.pdf"), ws.Join("out.pdf"))
}

func TestDestroy_RemovesContents(t *testing.T) {
	mgr := testManager(t)
	ws, err := mgr.Create()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(ws.Join("upload.pdf"), []byte("%PDF-1.4"), 0o644))

	mgr.Destroy(ws)
	assert.NoDirExists(t, ws.Root)
}

func TestDestroy_Idempotent(t *testing.T) {
	mgr := testManager(t)

	var destroyed []string
	mgr.onDestroy = func(id string) { destroyed = append(destroyed, id) }

	ws, err := mgr.Create()
	require.NoError(t, err)

	mgr.Destroy(ws)
	mgr.Destroy(ws)
	mgr.Destroy(nil)

	assert.Equal(t, []string{ws.ID, ws.ID}, destroyed)
	assert.NoDirExists(t, ws.Root)
}

func TestNewManager_EmptyRootFallsBack(t *testing.T) {
	mgr := NewManager("", observability.Nop())
	assert.Equal(t, os.TempDir(), mgr.root)
}
