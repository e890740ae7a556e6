package jsonfile_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-allocator/internal/domain"
	"github.com/jhoicas/stock-allocator/internal/domain/catalog"
	"github.com/jhoicas/stock-allocator/internal/infrastructure/jsonfile"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func writeCatalog(t *testing.T, dir, warehouses string) {
	t.Helper()
	writeFile(t, dir, jsonfile.WarehousesFile, warehouses)
	writeFile(t, dir, jsonfile.StoresFile, `[
		{"id":"S1","latitude":40.41,"longitude":-3.70,"demand":[{"productId":"P1","size":"M","quantity":2}]},
		{"id":"S2","country":"FR","latitude":48.85,"longitude":2.35}
	]`)
	writeFile(t, dir, jsonfile.ProductsFile, `[{"id":"P1","brandId":"B1"}]`)
}

// ──────────────────────────────────────────────────────────────────────────────
// CatalogLoader
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalogLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, `[
		{"id":"W1","country":"ES","latitude":39.86,"longitude":-4.02,"stock":[
			{"productId":"P1","size":"M","quantity":3},
			{"productId":"P1","size":"M","quantity":1.5}
		]}
	]`)

	raw, err := jsonfile.NewCatalogLoader(dir).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, raw.Warehouses, 1)
	require.Len(t, raw.Stores, 2)
	assert.Equal(t, "B1", raw.Products[0].BrandID)
	assert.Nil(t, raw.Stores[1].Demand)

	norm, err := catalog.Normalize(*raw)
	require.NoError(t, err)
	require.Len(t, norm.Stock, 2)
	assert.Equal(t, "1.5", norm.Stock[1].Quantity.String())
	assert.Empty(t, norm.Stores[0].Country)
}

func TestCatalogLoader_LineaIncompleta(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, `[{"id":"W1","country":"ES","latitude":0,"longitude":0,"stock":[{"productId":"P1","quantity":3}]}]`)

	raw, err := jsonfile.NewCatalogLoader(dir).Load(context.Background())
	require.NoError(t, err)
	_, err = catalog.Normalize(*raw)
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestCatalogLoader_Latin1(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "[]")
	// "Logroño" en ISO-8859-1: la ñ es el byte 0xF1.
	latin1 := []byte("[{\"id\":\"S1\",\"country\":\"Logro\xf1o\",\"latitude\":42.46,\"longitude\":-2.44}]")
	require.NoError(t, os.WriteFile(filepath.Join(dir, jsonfile.StoresFile), latin1, 0o644))

	raw, err := jsonfile.NewCatalogLoader(dir, jsonfile.WithCharset("ISO-8859-1")).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, raw.Stores, 1)
	assert.Equal(t, "Logroño", raw.Stores[0].Country)
}

func TestCatalogLoader_ArchivoFaltante(t *testing.T) {
	_, err := jsonfile.NewCatalogLoader(t.TempDir()).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), jsonfile.WarehousesFile)
}

func TestCatalogLoader_JSONInvalido(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, `{"no":"es una lista"`)
	_, err := jsonfile.NewCatalogLoader(dir).Load(context.Background())
	assert.ErrorContains(t, err, "decodificar")
}

// ──────────────────────────────────────────────────────────────────────────────
// SnapshotStore
// ──────────────────────────────────────────────────────────────────────────────

func TestSnapshotStore_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	store, err := jsonfile.NewSnapshotStore(dir)
	require.NoError(t, err)

	uri, err := store.Save(context.Background(), "run-1", []byte(`{"warehouses":[]}`))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "file://"))
	assert.True(t, strings.HasSuffix(uri, "/run-1.json"))

	got, err := os.ReadFile(filepath.Join(dir, "run-1.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"warehouses":[]}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no quedan temporales")
}

func TestSnapshotStore_IDInvalido(t *testing.T) {
	store, err := jsonfile.NewSnapshotStore(t.TempDir())
	require.NoError(t, err)

	for _, id := range []string{"", "../fuera", "a/b"} {
		_, err := store.Save(context.Background(), id, []byte("{}"))
		assert.Error(t, err, id)
	}
}
