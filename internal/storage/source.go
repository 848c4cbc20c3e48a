// Package storage loads catalog rows from data files or a SQLite mirror and
// writes catalogs back to SQLite. It is the only package that touches disk.
package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/garyellow/casmate/internal/catalog"
)

// Source produces the raw rows for one catalog build.
type Source interface {
	Load(ctx context.Context) (catalog.Data, error)
	Name() string
}

// FileSource reads table files from a data directory.
//
// Aliases come from AliasesPath when set, then from an aliases.yaml inside
// Dir, then from the embedded defaults.
type FileSource struct {
	Dir         string
	AliasesPath string
}

// Name implements Source.
func (s FileSource) Name() string { return "files:" + s.Dir }

// Load implements Source.
func (s FileSource) Load(ctx context.Context) (catalog.Data, error) {
	d, err := LoadDir(ctx, s.Dir)
	if err != nil {
		return catalog.Data{}, fmt.Errorf("load %s: %w", s.Dir, err)
	}

	path := s.AliasesPath
	if path == "" {
		if p := filepath.Join(s.Dir, "aliases.yaml"); fileExists(p) {
			path = p
		}
	}
	if d.Aliases, err = LoadAliases(path); err != nil {
		return catalog.Data{}, err
	}
	return d, nil
}

// SQLiteSource reads a catalog previously written by DB.SaveData.
type SQLiteSource struct {
	Path string
}

// Name implements Source.
func (s SQLiteSource) Name() string { return "sqlite:" + s.Path }

// Load implements Source.
func (s SQLiteSource) Load(ctx context.Context) (catalog.Data, error) {
	if !fileExists(s.Path) {
		return catalog.Data{}, fmt.Errorf("sqlite catalog %s does not exist", s.Path)
	}
	db, err := Open(ctx, s.Path)
	if err != nil {
		return catalog.Data{}, err
	}
	defer func() { _ = db.Close() }()
	return db.LoadData(ctx)
}

// Export writes a built catalog into a SQLite file at path.
func Export(ctx context.Context, c *catalog.Catalog, path string) error {
	db, err := Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	return db.SaveData(ctx, c.Data())
}
