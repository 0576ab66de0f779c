// Package dbtest opens throwaway databases for tests.
package dbtest

import (
	"fmt"
	"io"
	"testing"

	"meddata/internal/config"
	"meddata/internal/database"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// DSN returns a private shared-cache in-memory sqlite DSN.
func DSN() string {
	return fmt.Sprintf("sqlite://file:%s?mode=memory&cache=shared", uuid.NewString())
}

// Open returns a migrated in-memory sqlite database that is closed when the
// test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := database.Open(config.DBConfig{DSN: DSN()}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))
	return db
}
