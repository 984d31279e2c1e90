package migrations

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/galeria/app/repositories"
	"github.com/shashiranjanraj/galeria/pkg/database"
	"github.com/shashiranjanraj/galeria/pkg/migration"
)

func TestMigrationsCreateEveryStoreTable(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, "sqlite", fmt.Sprintf("file:schema%d?mode=memory&cache=shared", time.Now().UnixNano()))
	require.NoError(t, err)

	applied, err := migration.New(db, migration.GroupStore, migration.GroupQueue).Run(ctx)
	require.NoError(t, err)
	assert.Len(t, applied, 4)

	for _, m := range repositories.SQLModels() {
		assert.True(t, db.Migrator().HasTable(m), "%T", m)
	}
	assert.True(t, db.Migrator().HasTable("failed_jobs"))
}

func TestQueueGroupOnly(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, "sqlite", fmt.Sprintf("file:queueonly%d?mode=memory&cache=shared", time.Now().UnixNano()))
	require.NoError(t, err)

	_, err = migration.New(db, migration.GroupQueue).Run(ctx)
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable("failed_jobs"))
	assert.False(t, db.Migrator().HasTable("orders"))
}
