package main

import (
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestExtractMigrationPart(t *testing.T) {
	content := `
-- +migrate Up
CREATE TABLE items (id text);
ALTER TABLE items ADD COLUMN kind text;

-- +migrate Down
DROP TABLE items;
`
	t.Run("Extract Up", func(t *testing.T) {
		up := extractMigrationPart(content, "Up")
		assert.Contains(t, up, "CREATE TABLE items")
		assert.Contains(t, up, "ALTER TABLE items")
		assert.NotContains(t, up, "DROP TABLE items")
		assert.NotContains(t, up, "-- +migrate Up")
	})

	t.Run("Extract Down", func(t *testing.T) {
		down := extractMigrationPart(content, "Down")
		assert.Contains(t, down, "DROP TABLE items")
		assert.NotContains(t, down, "CREATE TABLE items")
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	content, err := fs.ReadFile(migrations, files[0])
	require.NoError(t, err)
	up := extractMigrationPart(string(content), "Up")
	assert.Contains(t, up, "CREATE TABLE IF NOT EXISTS items")
	assert.Contains(t, up, "UNIQUE (kind, id)")
}

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"migrations/0002_b.sql": {Data: []byte("-- +migrate Up\nCREATE INDEX b ON t (x);\n-- +migrate Down\nDROP INDEX b;")},
		"migrations/0001_a.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE t (x int);\n-- +migrate Down\nDROP TABLE t;")},
	}
}

func TestRunUp(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0001_a.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT EXISTS.*schema_migrations").
		WithArgs("0002_b.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec("CREATE INDEX b").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("0002_b.sql").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, run(db, "up", testFS(), zaptest.NewLogger(t)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunDown(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow("0002_b.sql"))
	mock.ExpectExec("DROP INDEX b").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM schema_migrations").
		WithArgs("0002_b.sql").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, run(db, "down", testFS(), zaptest.NewLogger(t)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunDown_NothingApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").
		WillReturnRows(sqlmock.NewRows([]string{"version"}))

	require.NoError(t, run(db, "down", testFS(), zaptest.NewLogger(t)))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunUnknownMode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = run(db, "sideways", testFS(), zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "unknown mode")
}
