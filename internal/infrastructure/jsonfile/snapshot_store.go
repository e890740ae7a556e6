package jsonfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/stock-allocator/internal/domain/repository"
)

var _ repository.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore escribe la foto de cada ejecución en <dir>/<runID>.json.
// La escritura pasa por un archivo temporal y un rename para no dejar fotos a medias.
type SnapshotStore struct {
	dir string
}

// NewSnapshotStore crea el directorio si no existe.
func NewSnapshotStore(dir string) (*SnapshotStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de fotos: %w", err)
	}
	return &SnapshotStore{dir: dir}, nil
}

// Save guarda payload y devuelve la URI file:// del archivo.
func (s *SnapshotStore) Save(_ context.Context, runID string, payload []byte) (string, error) {
	if runID == "" || filepath.Base(runID) != runID {
		return "", fmt.Errorf("id de ejecución inválido: %q", runID)
	}
	final := filepath.Join(s.dir, runID+".json")

	tmp, err := os.CreateTemp(s.dir, runID+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("crear foto: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return "", fmt.Errorf("escribir foto: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("cerrar foto: %w", err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		return "", fmt.Errorf("publicar foto: %w", err)
	}

	abs, err := filepath.Abs(final)
	if err != nil {
		abs = final
	}
	return "file://" + filepath.ToSlash(abs), nil
}
