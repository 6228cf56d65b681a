// Package migrations embeds the SQL schema for every supported database dialect.
//
// Files are named {version}_{description}.up.sql / .down.sql and live in one
// folder per dialect. Versions are applied in lexical order.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Dialect names a folder of migrations.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// File is a single migration step.
type File struct {
	Name string // e.g. 000001_users
	SQL  string
}

// Up returns the up migrations for a dialect, ordered by version.
func Up(d Dialect) ([]File, error) {
	return load(d, ".up.sql")
}

// Down returns the down migrations for a dialect, in reverse version order.
func Down(d Dialect) ([]File, error) {
	out, err := load(d, ".down.sql")
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func load(d Dialect, suffix string) ([]File, error) {
	entries, err := fs.ReadDir(files, string(d))
	if err != nil {
		return nil, fmt.Errorf("read %s migrations: %w", d, err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]File, 0, len(names))
	for _, name := range names {
		content, err := fs.ReadFile(files, path.Join(string(d), name))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		out = append(out, File{
			Name: strings.TrimSuffix(name, suffix),
			SQL:  string(content),
		})
	}
	return out, nil
}
