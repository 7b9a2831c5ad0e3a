package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Mongo    Mongo    `yaml:"mongo"`
	Counts   Counts   `yaml:"counts"`
	Batches  Batches  `yaml:"batches"`
	Seed     int64    `yaml:"seed"`
	Catalogs Catalogs `yaml:"catalogs"`
}

type Mongo struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type Counts struct {
	Customers int `yaml:"customers"`
	Products  int `yaml:"products"`
	Orders    int `yaml:"orders"`
}

type Batches struct {
	Orders int `yaml:"orders"`
	Events int `yaml:"events"`
}

type Catalogs struct {
	Categories []string `yaml:"categories"`
	Brands     []string `yaml:"brands"`
	Cities     []City   `yaml:"cities"`
}

type City struct {
	Name string `yaml:"name"`
	// Longitude then latitude, GeoJSON coordinate order.
	Loc [2]float64 `yaml:"loc"`
}

// Default mirrors the dataset the course material was built around:
// 5000 customers, 2000 products, 30000 orders.
func Default() *Config {
	return &Config{
		Mongo: Mongo{
			URI:      "mongodb://localhost:27017",
			Database: "ecommerce",
		},
		Counts: Counts{
			Customers: 5000,
			Products:  2000,
			Orders:    30000,
		},
		Batches: Batches{
			Orders: 1000,
			Events: 4000,
		},
		Catalogs: Catalogs{
			Categories: []string{"Electrónica", "Hogar", "Moda", "Deportes", "Juguetes", "Salud", "Libros", "Herramientas"},
			Brands:     []string{"Acme", "Globex", "Umbrella", "Wayne", "Stark", "Soylent", "Wonka"},
			Cities: []City{
				{Name: "Guatemala City", Loc: [2]float64{-90.5133, 14.6349}},
				{Name: "Quetzaltenango", Loc: [2]float64{-91.518, 14.8347}},
				{Name: "Antigua", Loc: [2]float64{-90.7344, 14.5586}},
				{Name: "Escuintla", Loc: [2]float64{-90.785, 14.305}},
				{Name: "Cobán", Loc: [2]float64{-90.3708, 15.4691}},
			},
		},
	}
}

// Load reads a YAML config file on top of the defaults. An empty path
// returns the defaults unchanged. MONGO_URI overrides the file value.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		file, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, err
		}
	}

	if uri := os.Getenv("MONGO_URI"); uri != "" {
		cfg.Mongo.URI = uri
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("config: mongo.uri is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("config: mongo.database is required")
	}
	if c.Counts.Customers <= 0 || c.Counts.Products <= 0 || c.Counts.Orders <= 0 {
		return fmt.Errorf("config: entity counts must be positive")
	}
	if c.Batches.Orders <= 0 || c.Batches.Events <= 0 {
		return fmt.Errorf("config: batch sizes must be positive")
	}
	if len(c.Catalogs.Categories) == 0 || len(c.Catalogs.Brands) == 0 || len(c.Catalogs.Cities) == 0 {
		return fmt.Errorf("config: catalogs must not be empty")
	}
	return nil
}
