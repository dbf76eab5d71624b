package migrations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hublishing/fnsretail-sub001/internal/observability"
)

// Migration outcomes recorded per file.
const (
	statusApplied = "applied"
	statusSkipped = "skipped"
	statusFailed  = "failed"
)

// ExecFunc runs one SQL statement against the target database.
type ExecFunc func(ctx context.Context, stmt string) error

// Runner applies a Source to one database.
type Runner struct {
	Database string // label for logs and metrics
	Source   Source
	Split    bool // run each statement separately; ClickHouse Exec takes one at a time
	Logger   *zap.Logger
}

// Apply executes every file of the source in order and returns the names
// of the files it applied. Files holding only comments are skipped. On
// failure the files applied before the failing one are returned with the
// error.
func (r Runner) Apply(ctx context.Context, exec ExecFunc) ([]string, error) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("database", r.Database))

	files, err := r.Source.Files()
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(files))
	for _, file := range files {
		stmts, err := r.statements(file)
		if err != nil {
			observability.RecordMigration(r.Database, statusFailed)
			log.Error("migration rejected", zap.String("file", file), zap.Error(err))
			return applied, err
		}
		if len(stmts) == 0 {
			observability.RecordMigration(r.Database, statusSkipped)
			log.Debug("migration empty, skipped", zap.String("file", file))
			continue
		}

		start := time.Now()
		for _, stmt := range stmts {
			if err := exec(ctx, stmt); err != nil {
				observability.RecordMigration(r.Database, statusFailed)
				log.Error("migration failed", zap.String("file", file), zap.Error(err))
				return applied, fmt.Errorf("apply migration %s: %w", file, err)
			}
		}

		observability.RecordMigration(r.Database, statusApplied)
		log.Info("migration applied",
			zap.String("file", file),
			zap.Int("statements", len(stmts)),
			zap.Duration("took", time.Since(start)))
		applied = append(applied, file)
	}

	return applied, nil
}

func (r Runner) statements(file string) ([]string, error) {
	sql, err := r.Source.read(file)
	if err != nil {
		return nil, fmt.Errorf("read migration %s: %w", file, err)
	}
	if !r.Split {
		if len(splitStatements(sql)) == 0 {
			return nil, nil
		}
		return []string{sql}, nil
	}
	if err := validateNoSemicolonInStrings(sql); err != nil {
		return nil, fmt.Errorf("validate migration %s: %w", file, err)
	}
	return splitStatements(sql), nil
}

// splitStatements drops "--" comment lines and splits the rest on ";".
// Migration files must keep semicolons out of string literals and block
// comments; validateNoSemicolonInStrings enforces the first rule.
func splitStatements(input string) []string {
	var kept []string
	for _, line := range strings.Split(input, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		kept = append(kept, line)
	}

	var stmts []string
	for _, part := range strings.Split(strings.Join(kept, "\n"), ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

var errSemicolonInString = errors.New("semicolon inside string literal")

// validateNoSemicolonInStrings rejects SQL with a ';' inside a single-quoted
// literal. Doubled quotes are treated as escapes.
func validateNoSemicolonInStrings(sql string) error {
	inString := false
	for i := 0; i < len(sql); i++ {
		switch sql[i] {
		case '\'':
			if inString && i+1 < len(sql) && sql[i+1] == '\'' {
				i++
				continue
			}
			inString = !inString
		case ';':
			if inString {
				return fmt.Errorf("%w at offset %d", errSemicolonInString, i)
			}
		}
	}
	return nil
}
