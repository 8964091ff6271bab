// Package workspace manages scoped temporary storage arenas. Each workspace
// is a uniquely named directory owned by exactly one in-flight operation;
// the component that created it is responsible for destroying it on every
// exit path.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rapidfileconvert/convertbot/internal/observability"
)

// Workspace is a scoped filesystem arena for one operation.
type Workspace struct {
	ID        string
	Root      string
	CreatedAt time.Time
}

// Join builds a path for a file inside the workspace.
func (w *Workspace) Join(name string) string {
	return filepath.Join(w.Root, name)
}

// Manager creates and destroys workspaces under a configured root directory.
type Manager struct {
	root   string
	logger *observability.Logger

	// onDestroy, when set, is called after every Destroy. Tests use it to
	// verify that every created workspace is destroyed exactly once.
	onDestroy func(id string)
}

// NewManager creates a workspace manager rooted at dir. An empty dir falls
// back to the system temp directory.
func NewManager(dir string, logger *observability.Logger) *Manager {
	if dir == "" {
		dir = os.TempDir()
	}
	return &Manager{
		root:   dir,
		logger: logger.WithComponent("workspace"),
	}
}

// Create allocates a fresh, empty, uniquely named workspace directory.
func (m *Manager) Create() (*Workspace, error) {
	id := uuid.New().String()
	dir := filepath.Join(m.root, "convertbot_"+id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace %s: %w", id, err)
	}
	return &Workspace{
		ID:        id,
		Root:      dir,
		CreatedAt: time.Now(),
	}, nil
}

// Destroy recursively removes the workspace directory. It is idempotent and
// never fails: a removal error is logged and swallowed so that cleanup can
// never mask the primary result of an operation.
func (m *Manager) Destroy(ws *Workspace) {
	if ws == nil {
		return
	}
	if err := os.RemoveAll(ws.Root); err != nil {
		m.logger.Warn().
			Str("workspace_id", ws.ID).
			Str("dir", ws.Root).
			Err(err).
			Msg("Workspace removal failed, continuing")
	}
	if m.onDestroy != nil {
		m.onDestroy(ws.ID)
	}
}
