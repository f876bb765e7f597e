package testutil

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/study-tracker-api/internal/database"
	"github.com/yukikurage/study-tracker-api/internal/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB opens a migrated in-memory SQLite database that lives until the
// test ends. Every query shares one connection, so code running inside a
// transaction must only use the transaction handle.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(":memory:")), database.Options(logger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.Migrate(db, zap.NewNop()))
	return db
}

// NewMockDB returns a postgres-flavoured gorm handle backed by sqlmock
func NewMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), database.Options(logger.Silent))
	require.NoError(t, err)

	return db, mock
}

// CreateStudy inserts a study with a zero-point focus and the given password
func CreateStudy(t *testing.T, db *gorm.DB, name, password string) *models.Study {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	study := &models.Study{
		Name:         name,
		Nickname:     name + " owner",
		Intro:        "Studying " + name,
		PasswordHash: string(hash),
	}
	require.NoError(t, db.Create(study).Error)
	require.NoError(t, db.Create(&models.Focus{StudyID: study.ID}).Error)

	return study
}
