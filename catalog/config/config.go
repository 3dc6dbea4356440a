package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/Astemirdum/bookstore-catalog/pkg/logger"
	"github.com/Astemirdum/bookstore-catalog/pkg/postgres"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type HTTPServer struct {
	Host         string        `envconfig:"CATALOG_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `envconfig:"CATALOG_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `envconfig:"HTTP_WRITE"`
}

type Config struct {
	Server   HTTPServer
	Database postgres.DB
	Log      logger.Log
	Storage  string `envconfig:"STORAGE"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment. Options set defaults that the
// environment may override.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		config := Config{Storage: StoragePostgres}
		for _, op := range ops {
			op(&config)
		}
		if err := envconfig.Process("", &config); err != nil {
			log.Fatal("NewConfig ", err)
		}
		if err := config.validate(); err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func (c *Config) validate() error {
	switch c.Storage {
	case StoragePostgres, StorageMemory:
		return nil
	default:
		return fmt.Errorf("unknown STORAGE %q, want %s or %s", c.Storage, StoragePostgres, StorageMemory)
	}
}

func printConfig(cfg *Config) {
	jscfg, _ := json.MarshalIndent(cfg, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
