// Package config loads process settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/simaogato/wealthflow-risk/internal/domain"
)

// Config holds the application settings
type Config struct {
	GRPCAddr    string
	MetricsAddr string
	APIToken    string

	DBEnabled bool
	DBConnStr string

	// ScenariosFile is an optional YAML catalog extension.
	ScenariosFile string

	LogLevel  string
	LogFormat string

	// SimulationSeed pins the seed of runs that carry none. Nil draws a fresh seed per run.
	SimulationSeed     *uint64
	DefaultSimulations int
}

// Load reads .env files when present, then the environment.
// Missing .env files are not an error; malformed numeric values are.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		logrus.Debug(".env file not found, using environment only")
	}

	cfg := &Config{
		GRPCAddr:      getEnv("GRPC_ADDR", ":8080"),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9090"),
		APIToken:      getEnv("API_TOKEN", "dev-token"),
		DBConnStr:     dbConnStr(),
		ScenariosFile: os.Getenv("SCENARIOS_FILE"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
	}

	enabled, err := strconv.ParseBool(getEnv("DB_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_ENABLED: %w", err)
	}
	cfg.DBEnabled = enabled

	sims, err := strconv.Atoi(getEnv("DEFAULT_SIMULATIONS", strconv.Itoa(domain.DefaultNumberOfSimulations)))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_SIMULATIONS: %w", err)
	}
	if sims < 1 || sims > domain.MaxNumberOfSimulations {
		return nil, fmt.Errorf("invalid DEFAULT_SIMULATIONS: %d out of range", sims)
	}
	cfg.DefaultSimulations = sims

	if raw := strings.TrimSpace(os.Getenv("SIMULATION_SEED")); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid SIMULATION_SEED: %w", err)
		}
		cfg.SimulationSeed = &seed
	}

	return cfg, nil
}

// SimulationDefaults returns the simulation config defaults adjusted by the process settings
func (c *Config) SimulationDefaults() domain.SimulationConfig {
	sim := domain.DefaultSimulationConfig()
	sim.NumberOfSimulations = c.DefaultSimulations
	return sim
}

// dbConnStr prefers DB_CONN_STR and otherwise builds a DSN from the individual DB_* vars
func dbConnStr() string {
	if conn := os.Getenv("DB_CONN_STR"); conn != "" {
		return conn
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "wealthflow_risk"),
	)
}

// getEnv returns the environment variable or the default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
