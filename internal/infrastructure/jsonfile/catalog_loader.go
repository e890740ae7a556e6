// Package jsonfile lee el catálogo desde los tres archivos JSON de entrada y publica la
// foto de cada ejecución en disco.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-allocator/internal/domain/catalog"
	"github.com/jhoicas/stock-allocator/internal/domain/repository"
)

const (
	WarehousesFile = "warehouses.json"
	StoresFile     = "stores.json"
	ProductsFile   = "products.json"
)

var _ repository.CatalogSource = (*CatalogLoader)(nil)

// CatalogLoader lee warehouses.json, stores.json y products.json de un directorio.
type CatalogLoader struct {
	dir    string
	latin1 bool
}

// Option ajusta el lector.
type Option func(*CatalogLoader)

// WithCharset declara la codificación de los archivos. "iso-8859-1" / "latin1" se
// transcodifican a UTF-8 al leer; cualquier otro valor se lee tal cual.
func WithCharset(charset string) Option {
	return func(l *CatalogLoader) {
		switch strings.ToLower(charset) {
		case "iso-8859-1", "iso8859-1", "latin1":
			l.latin1 = true
		}
	}
}

// NewCatalogLoader construye el lector sobre dir.
func NewCatalogLoader(dir string, opts ...Option) *CatalogLoader {
	l := &CatalogLoader{dir: dir}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load lee y decodifica los tres archivos. No valida: eso lo hace catalog.Normalize.
func (l *CatalogLoader) Load(ctx context.Context) (*catalog.Raw, error) {
	raw := &catalog.Raw{}
	files := []struct {
		name string
		dst  any
	}{
		{WarehousesFile, &raw.Warehouses},
		{StoresFile, &raw.Stores},
		{ProductsFile, &raw.Products},
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := l.readJSON(filepath.Join(l.dir, f.name), f.dst); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

func (l *CatalogLoader) readJSON(path string, dst any) error {
	fh, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("abrir %s: %w", path, err)
	}
	defer fh.Close()

	var r io.Reader = fh
	if l.latin1 {
		r = transform.NewReader(fh, charmap.ISO8859_1.NewDecoder())
	}
	if err := json.NewDecoder(r).Decode(dst); err != nil {
		return fmt.Errorf("decodificar %s: %w", path, err)
	}
	return nil
}
