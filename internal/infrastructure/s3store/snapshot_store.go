// Package s3store publica la foto de cada ejecución en un bucket S3 o compatible (MinIO).
package s3store

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/jhoicas/stock-allocator/internal/domain/repository"
)

var _ repository.SnapshotStore = (*SnapshotStore)(nil)

// Config parámetros del bucket. Las credenciales salen de la cadena por defecto de AWS
// (AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY, perfil, rol).
type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // opcional; MinIO u otro endpoint compatible
	PathStyle bool
	Prefix    string // prefijo de las claves, por defecto "snapshots"
}

// SnapshotStore guarda cada foto como <prefix>/<runID>.json.
type SnapshotStore struct {
	client *s3.Client
	bucket string
	prefix string
}

// New construye el cliente S3 desde Config.
func New(ctx context.Context, cfg Config, optFns ...func(*s3.Options)) (*SnapshotStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket obligatorio")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3: cargar configuración AWS: %w", err)
	}
	opts := append([]func(*s3.Options){func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}}, optFns...)
	return NewWithClient(s3.NewFromConfig(awsCfg, opts...), cfg.Bucket, cfg.Prefix), nil
}

// NewWithClient usa un cliente ya construido.
func NewWithClient(client *s3.Client, bucket, prefix string) *SnapshotStore {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "snapshots"
	}
	return &SnapshotStore{client: client, bucket: bucket, prefix: prefix}
}

// Save sube payload y devuelve la URI s3://bucket/key.
func (s *SnapshotStore) Save(ctx context.Context, runID string, payload []byte) (string, error) {
	if runID == "" || strings.ContainsAny(runID, "/\\") {
		return "", fmt.Errorf("s3: id de ejecución inválido: %q", runID)
	}
	key := path.Join(s.prefix, runID+".json")
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(payload),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(payload))),
		Metadata:      map[string]string{"run-id": runID},
	})
	if err != nil {
		return "", fmt.Errorf("s3: subir %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}
