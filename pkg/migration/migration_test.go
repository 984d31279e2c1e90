package migration

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type widget struct {
	ID   uint
	Name string
}

type createWidgets struct{}

func (createWidgets) Up(tx *gorm.DB) error   { return tx.AutoMigrate(&widget{}) }
func (createWidgets) Down(tx *gorm.DB) error { return tx.Migrator().DropTable(&widget{}) }

type broken struct{}

func (broken) Up(*gorm.DB) error   { return errors.New("boom") }
func (broken) Down(*gorm.DB) error { return nil }

func init() {
	Register("test", "20260101000000_create_widgets", createWidgets{})
	Register("other", "20260101000001_other_group", broken{})
	Register("broken", "20260101000002_broken", broken{})
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:mig%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func TestRunStatusRollback(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	r := New(db, "test")

	applied, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260101000000_create_widgets"}, applied)
	assert.True(t, db.Migrator().HasTable(&widget{}))

	again, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)

	st, err := r.Status(ctx)
	require.NoError(t, err)
	require.Len(t, st, 1)
	assert.True(t, st[0].Ran)
	assert.Equal(t, 1, st[0].Batch)

	reverted, err := r.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"20260101000000_create_widgets"}, reverted)
	assert.False(t, db.Migrator().HasTable(&widget{}))

	reverted, err = r.Rollback(ctx)
	require.NoError(t, err)
	assert.Empty(t, reverted)
}

func TestFailedMigrationIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	r := New(openDB(t), "broken")

	_, err := r.Run(ctx)
	require.Error(t, err)

	st, err := r.Status(ctx)
	require.NoError(t, err)
	require.Len(t, st, 1)
	assert.False(t, st[0].Ran)
}
