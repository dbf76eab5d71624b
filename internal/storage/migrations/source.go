// Package migrations applies the product list schema to PostgreSQL and the
// channel and sales warehouse tables to ClickHouse.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed postgres/*.sql
var postgresFS embed.FS

//go:embed clickhouse/*.sql
var clickhouseFS embed.FS

// Source is a directory of .sql files applied in lexical order.
type Source struct {
	FS  fs.FS
	Dir string
}

// PostgresSource returns the embedded product list schema.
func PostgresSource() Source {
	return Source{FS: postgresFS, Dir: "postgres"}
}

// ClickhouseSource returns the embedded channel and sales tables.
func ClickhouseSource() Source {
	return Source{FS: clickhouseFS, Dir: "clickhouse"}
}

// Files returns the .sql file names in apply order.
func (s Source) Files() ([]string, error) {
	entries, err := fs.ReadDir(s.FS, s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir %s: %w", s.Dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

func (s Source) read(name string) (string, error) {
	data, err := fs.ReadFile(s.FS, path.Join(s.Dir, name))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
