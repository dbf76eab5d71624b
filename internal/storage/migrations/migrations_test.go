package migrations

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hublishing/fnsretail-sub001/internal/observability"
)

func migrationCount(database, status string) float64 {
	return testutil.ToFloat64(observability.DefaultMetrics.Migrations.WithLabelValues(database, status))
}

func testSource() Source {
	return Source{
		Dir: "sql",
		FS: fstest.MapFS{
			"sql/002_sales.sql":    {Data: []byte("CREATE TABLE sales (x UInt8) ENGINE = Memory;\n")},
			"sql/001_channels.sql": {Data: []byte("-- channels\nCREATE TABLE a (x UInt8) ENGINE = Memory;\nCREATE TABLE b (y String) ENGINE = Memory;\n")},
			"sql/003_notes.sql":    {Data: []byte("-- nothing to run yet\n")},
			"sql/README.md":        {Data: []byte("not sql")},
		},
	}
}

func TestRunner_AppliesFilesInOrder(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := Runner{Database: "runner-order", Source: testSource(), Split: true, Logger: zap.New(core)}

	var stmts []string
	applied, err := r.Apply(context.Background(), func(_ context.Context, stmt string) error {
		stmts = append(stmts, stmt)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"001_channels.sql", "002_sales.sql"}, applied)
	assert.Equal(t, []string{
		"CREATE TABLE a (x UInt8) ENGINE = Memory",
		"CREATE TABLE b (y String) ENGINE = Memory",
		"CREATE TABLE sales (x UInt8) ENGINE = Memory",
	}, stmts)

	entries := logs.FilterMessage("migration applied").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "001_channels.sql", entries[0].ContextMap()["file"])
	assert.Equal(t, int64(2), entries[0].ContextMap()["statements"])
	assert.Equal(t, "runner-order", entries[0].ContextMap()["database"])

	assert.Equal(t, 2.0, migrationCount("runner-order", statusApplied))
	assert.Equal(t, 1.0, migrationCount("runner-order", statusSkipped))
	assert.Zero(t, migrationCount("runner-order", statusFailed))
}

func TestRunner_StopsAtFailingFile(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := Runner{Database: "runner-fail", Source: testSource(), Split: true, Logger: zap.New(core)}

	applied, err := r.Apply(context.Background(), func(_ context.Context, stmt string) error {
		if strings.Contains(stmt, "sales") {
			return errors.New("table exists")
		}
		return nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "002_sales.sql")
	assert.Equal(t, []string{"001_channels.sql"}, applied)

	assert.Equal(t, 1, logs.FilterMessage("migration failed").Len())
	assert.Equal(t, 1.0, migrationCount("runner-fail", statusApplied))
	assert.Equal(t, 1.0, migrationCount("runner-fail", statusFailed))
}

func TestRunner_WholeFileWithoutSplit(t *testing.T) {
	r := Runner{Database: "runner-whole", Source: testSource()}

	var stmts []string
	applied, err := r.Apply(context.Background(), func(_ context.Context, stmt string) error {
		stmts = append(stmts, stmt)
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, applied, 2)
	require.Len(t, stmts, 2)
	assert.Contains(t, stmts[0], "CREATE TABLE b")
}

func TestRunner_RejectsSemicolonInString(t *testing.T) {
	r := Runner{
		Database: "runner-reject",
		Split:    true,
		Source: Source{Dir: "sql", FS: fstest.MapFS{
			"sql/001_bad.sql": {Data: []byte("INSERT INTO t VALUES ('a;b');\n")},
		}},
	}

	called := false
	applied, err := r.Apply(context.Background(), func(context.Context, string) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, errSemicolonInString)
	assert.Empty(t, applied)
	assert.False(t, called)
	assert.Equal(t, 1.0, migrationCount("runner-reject", statusFailed))
}

func TestRunner_MissingDir(t *testing.T) {
	r := Runner{Database: "runner-missing", Source: Source{Dir: "none", FS: fstest.MapFS{}}}
	_, err := r.Apply(context.Background(), func(context.Context, string) error { return nil })
	assert.Error(t, err)
}

func TestSplitStatements(t *testing.T) {
	input := `-- header comment
CREATE TABLE a (x UInt8) ENGINE = Memory;

-- second
CREATE TABLE b (y String) ENGINE = Memory;
`
	stmts := splitStatements(input)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (x UInt8) ENGINE = Memory", stmts[0])
	assert.Equal(t, "CREATE TABLE b (y String) ENGINE = Memory", stmts[1])

	assert.Empty(t, splitStatements("-- only a comment\n\n"))
}

func TestValidateNoSemicolonInStrings(t *testing.T) {
	assert.NoError(t, validateNoSemicolonInStrings("SELECT 'it''s'; SELECT 1;"))
	assert.NoError(t, validateNoSemicolonInStrings("SELECT ''; SELECT 1;"))
	assert.ErrorIs(t, validateNoSemicolonInStrings("SELECT 'a;b'"), errSemicolonInString)
}

func TestDatabaseFromDSN(t *testing.T) {
	db, err := databaseFromDSN("clickhouse://user:pw@localhost:9000/retail")
	require.NoError(t, err)
	assert.Equal(t, "retail", db)

	_, err = databaseFromDSN("clickhouse://localhost:9000")
	assert.Error(t, err)
}

func TestEmbeddedSources(t *testing.T) {
	pg, err := PostgresSource().Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_product_lists.sql"}, pg)

	ch, err := ClickhouseSource().Files()
	require.NoError(t, err)
	assert.Equal(t, []string{"001_channel_configs.sql", "002_sales_daily.sql"}, ch)

	src := ClickhouseSource()
	for _, file := range ch {
		sql, err := src.read(file)
		require.NoError(t, err)
		assert.NoError(t, validateNoSemicolonInStrings(sql), file)
		assert.Len(t, splitStatements(sql), 1, file)
	}
}
