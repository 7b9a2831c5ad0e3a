package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 5000, cfg.Counts.Customers)
	assert.Equal(t, 2000, cfg.Counts.Products)
	assert.Equal(t, 30000, cfg.Counts.Orders)
	assert.Equal(t, 1000, cfg.Batches.Orders)
	assert.Equal(t, 4000, cfg.Batches.Events)
	assert.Len(t, cfg.Catalogs.Cities, 5)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
counts:
  customers: 10
  products: 5
  orders: 20
batches:
  orders: 5
  events: 5
seed: 42
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Counts.Customers)
	assert.Equal(t, 5, cfg.Batches.Events)
	assert.Equal(t, int64(42), cfg.Seed)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, "ecommerce", cfg.Mongo.Database)
	assert.NotEmpty(t, cfg.Catalogs.Brands)
}

func TestLoadEnvOverridesURI(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db.internal:27017")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mongodb://db.internal:27017", cfg.Mongo.URI)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"zero customers":   func(c *Config) { c.Counts.Customers = 0 },
		"negative orders":  func(c *Config) { c.Counts.Orders = -1 },
		"zero order batch": func(c *Config) { c.Batches.Orders = 0 },
		"no categories":    func(c *Config) { c.Catalogs.Categories = nil },
		"no database":      func(c *Config) { c.Mongo.Database = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
