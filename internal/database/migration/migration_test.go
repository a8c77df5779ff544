package migration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leavedocs/internal/logging"
)

func TestEmbeddedMigrations(t *testing.T) {
	names, err := fs.Glob(migrations, "sql/*.sql")
	require.NoError(t, err)
	require.Len(t, names, 2)

	for _, name := range names {
		b, err := migrations.ReadFile(name)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(b), "-- +goose Up"), name)
		assert.Contains(t, string(b), "-- +goose Down", name)
	}

	docs, err := migrations.ReadFile("sql/00002_create_leave_request_documents.sql")
	require.NoError(t, err)
	assert.Contains(t, string(docs), "external_media_id  TEXT        NOT NULL UNIQUE")
}

func TestEnsureMigrated(t *testing.T) {
	orig := gooseUp
	defer func() { gooseUp = orig }()

	t.Run("success", func(t *testing.T) {
		var gotDir string
		gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
			gotDir = dir
			return nil
		}
		var buf bytes.Buffer

		err := EnsureMigrated(context.Background(), nil, logging.New(&buf, time.UTC), "db.local")

		require.NoError(t, err)
		assert.Equal(t, "sql", gotDir)
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		var last map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[1]), &last))
		assert.Equal(t, "db_migration_success", last["event"])
		assert.Equal(t, "db.local", last["db_host"])
	})

	t.Run("failure", func(t *testing.T) {
		gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
			return errors.New("relation already exists")
		}
		var buf bytes.Buffer

		err := EnsureMigrated(context.Background(), nil, logging.New(&buf, time.UTC), "db.local")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "apply migrations: relation already exists")
		assert.Contains(t, buf.String(), `"level":"error"`)
	})
}
