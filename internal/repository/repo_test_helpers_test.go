package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/learnhub-io/learnhub-api/internal/models"
)

var testDBCounter int

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDBCounter++
	dsn := fmt.Sprintf("file:repo%d?mode=memory&cache=shared", testDBCounter)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.Subject{},
		&models.Review{},
		&models.Student{},
		&models.StudentProfile{},
		&models.Blog{},
		&models.BlogComment{},
		&models.UploadRecord{},
	))
	return db
}
