package kernel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/galeria/config"
	_ "github.com/shashiranjanraj/galeria/database/migrations"
	"github.com/shashiranjanraj/galeria/pkg/database"
	"github.com/shashiranjanraj/galeria/pkg/migration"
	"github.com/shashiranjanraj/galeria/pkg/storage"
)

func bootSQL(t *testing.T) *Kernel {
	t.Helper()
	config.Set("STORE_DRIVER", "sql")
	config.Set("SQL_DRIVER", "sqlite")
	config.Set("DATABASE_DSN", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	config.Set("REDIS_ADDR", "127.0.0.1:1")
	config.Set("STORAGE_DISK", "local")
	config.Set("STORAGE_LOCAL_ROOT", t.TempDir())
	config.Set("KAFKA_BROKERS", "")

	ctx := context.Background()
	k, err := Boot(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = k.Close(context.Background()) })

	_, err = migration.New(database.DB, migration.GroupStore, migration.GroupQueue).Run(ctx)
	require.NoError(t, err)
	return k
}

func TestBootOnSQLWithoutRedis(t *testing.T) {
	k := bootSQL(t)

	assert.NoError(t, k.Ping(context.Background()))
	assert.IsType(t, &storage.LocalDisk{}, k.Disk)

	h, err := k.Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/paintings", nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusOK, env.Status)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestSchedulerHasMaintenanceTasks(t *testing.T) {
	k := bootSQL(t)

	s, err := k.Scheduler()
	require.NoError(t, err)
	var names []string
	for _, e := range s.List() {
		names = append(names, e.Name)
	}
	assert.ElementsMatch(t, []string{"coupons:expired", "orders:pending-digest"}, names)
}

func TestAllowedOrigin(t *testing.T) {
	check := allowedOrigin([]string{"https://galeria.cl"})

	r := httptest.NewRequest(http.MethodGet, "/ws/admin/orders", nil)
	assert.True(t, check(r))

	r.Header.Set("Origin", "https://galeria.cl")
	assert.True(t, check(r))

	r.Header.Set("Origin", "https://evil.example")
	assert.False(t, check(r))
}
