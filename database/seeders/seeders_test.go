package seeders

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/galeria/app/models"
	"github.com/shashiranjanraj/galeria/app/repositories"
	"github.com/shashiranjanraj/galeria/pkg/database"
)

func TestSeedersAreIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, "sqlite", fmt.Sprintf("file:seed%d?mode=memory&cache=shared", time.Now().UnixNano()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(repositories.SQLModels()...))
	store := repositories.NewSQLStore(db)

	var out bytes.Buffer
	require.NoError(t, RunAll(ctx, store, &out))
	require.NoError(t, RunAll(ctx, store, &out))
	assert.Contains(t, out.String(), "Running seeder: admin")

	_, total, err := store.Paintings.List(ctx, models.PaintingFilter{Page: models.Page{Number: 1, PerPage: 10}})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	c, err := store.Coupons.FindByCode(ctx, "BIENVENIDA10")
	require.NoError(t, err)
	assert.True(t, c.IsActive)

	users, total, err := store.Users.List(ctx, models.Page{Number: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "admin", users[0].Role)
}

func TestNamesFollowRegistrationOrder(t *testing.T) {
	assert.Equal(t, []string{"admin", "paintings", "coupons"}, Names())
}
