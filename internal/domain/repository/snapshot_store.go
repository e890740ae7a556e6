package repository

import "context"

// SnapshotStore publica la foto final de una ejecución (JSON de envíos) y devuelve su URI.
type SnapshotStore interface {
	Save(ctx context.Context, runID string, payload []byte) (string, error)
}
