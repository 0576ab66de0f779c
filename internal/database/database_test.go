package database_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"meddata/internal/config"
	"meddata/internal/database"
	"meddata/internal/database/dbtest"
	"meddata/internal/models"
	"meddata/internal/repositories"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSeed_Idempotent(t *testing.T) {
	db := dbtest.Open(t)

	log := logrus.New()
	log.SetOutput(io.Discard)
	repo := repositories.NewGORMReferenceRepository(db)
	ctx := context.Background()

	require.NoError(t, database.Seed(ctx, repo, log))
	require.NoError(t, database.Seed(ctx, repo, log))

	allergies, err := repo.ListAllergies(ctx)
	require.NoError(t, err)
	assert.Len(t, allergies, len(database.DefaultAllergies))

	diseases, err := repo.ListChronicDiseases(ctx)
	require.NoError(t, err)
	require.Len(t, diseases, len(database.DefaultChronicDiseases))
	for _, d := range diseases {
		require.NotNil(t, d.ICD10Code, d.Name)
	}
}

func TestOpen_LogsThroughLogger(t *testing.T) {
	var out bytes.Buffer
	log := logrus.New()
	log.SetOutput(&out)
	log.SetLevel(logrus.WarnLevel)

	db, err := database.Open(config.DBConfig{DSN: dbtest.DSN()}, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))
	out.Reset()

	var user models.User
	err = db.First(&user, "email = ?", "missing@example.com").Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, out.String())

	err = db.Exec("SELECT * FROM no_such_table").Error
	require.Error(t, err)
	assert.Contains(t, out.String(), "no_such_table")
}
