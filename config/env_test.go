package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFilesMergesJSONAndDotEnv(t *testing.T) {
	require.NoError(t, Load())

	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"shipping_cost": 7000, "currency": "CLP", "store_driver": "sql"}`), 0o644))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nexport ADMIN_EMAIL=\"taller@galeria.cl\"\nSTORE_DRIVER=mongo\n"), 0o644))

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	t.Cleanup(func() { _ = loadFromFiles("missing.json", "missing.env") })

	assert.Equal(t, int64(7000), ShippingCost())
	assert.Equal(t, "taller@galeria.cl", AdminEmail())
	// .env is merged after app.json.
	assert.Equal(t, "mongo", StoreDriver())
}

func TestShippingCostFallsBackOnGarbage(t *testing.T) {
	Set("SHIPPING_COST", "abc")
	t.Cleanup(func() { Set("SHIPPING_COST", "5000") })

	assert.Equal(t, int64(defaultShippingCost), ShippingCost())
}

func TestKafkaBrokersSplitsList(t *testing.T) {
	Set("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Cleanup(func() { Set("KAFKA_BROKERS", "") })

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, KafkaBrokers())
}

func TestDatabaseDSNDefaultsPerDriver(t *testing.T) {
	Set("SQL_DRIVER", "postgres")
	t.Cleanup(func() { Set("SQL_DRIVER", "sqlite") })

	assert.Equal(t, defaultPostgresDSN, DatabaseDSN())
}
