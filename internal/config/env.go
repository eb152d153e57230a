package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads variables from a dotenv file. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("cannot load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides file values with CLUSTER_ID, TICK_INTERVAL, ADMIN_ADDR,
// REDIS_ADDR and REDIS_PASSWORD when they are set.
func (c *Config) ApplyEnv() error {
	c.ClusterID = getEnv("CLUSTER_ID", c.ClusterID)
	c.AdminAddr = getEnv("ADMIN_ADDR", c.AdminAddr)
	if v := os.Getenv("TICK_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TICK_INTERVAL %q: %w", v, err)
		}
		c.TickInterval = d
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		if c.Redis == nil {
			c.Redis = &RedisConfig{}
		}
		c.Redis.Addr = addr
	}
	if c.Redis != nil {
		c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	}
	return c.Validate()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
