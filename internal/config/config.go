package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`
}

// EngineConfig points at the remote Monte Carlo engine.
type EngineConfig struct {
	Endpoint       string `yaml:"endpoint"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ChartsConfig controls where the CLI writes the rendered histogram pages.
type ChartsConfig struct {
	OutputDir string `yaml:"output_dir"`
}

type Config struct {
	// Server settings
	Port string

	// Default scenario file for the CLI
	DefaultScenario string

	// Remote engine settings
	Engine EngineConfig `yaml:"engine"`
	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
	// Chart output settings
	Charts ChartsConfig `yaml:"charts"`
}

type YAMLConfig struct {
	Port            string        `yaml:"port"`
	DefaultScenario string        `yaml:"default_scenario"`
	Engine          EngineConfig  `yaml:"engine"`
	Logging         LoggingConfig `yaml:"logging"`
	Charts          ChartsConfig  `yaml:"charts"`
}

// Load builds configuration from defaults, environment variables, and an
// optional config.yaml. YAML values win over environment values so a
// checked-in config file fully describes a deployment.
func Load() *Config {
	// Pick up a local .env if present; the environment reads below see it.
	_ = godotenv.Load()

	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		DefaultScenario: getEnv("DEALCAST_SCENARIO", "scenario.yaml"),
		Engine: EngineConfig{
			Endpoint:       getEnv("DEALCAST_ENGINE_ENDPOINT", "http://localhost:5000/run_simulation"),
			TimeoutSeconds: getEnvInt("DEALCAST_ENGINE_TIMEOUT_SECONDS", 300),
		},
		Logging: LoggingConfig{
			LogLevel: getEnv("LOG_LEVEL", "info"),
			LogFile:  getEnv("LOG_FILE", "dealcast.log"),
		},
		Charts: ChartsConfig{
			OutputDir: getEnv("DEALCAST_CHART_DIR", "."),
		},
	}

	if yamlCfg := loadYAMLConfig(); yamlCfg != nil {
		if yamlCfg.Port != "" {
			cfg.Port = yamlCfg.Port
		}
		if yamlCfg.DefaultScenario != "" {
			cfg.DefaultScenario = yamlCfg.DefaultScenario
		}
		if yamlCfg.Engine.Endpoint != "" {
			cfg.Engine.Endpoint = yamlCfg.Engine.Endpoint
		}
		if yamlCfg.Engine.TimeoutSeconds > 0 {
			cfg.Engine.TimeoutSeconds = yamlCfg.Engine.TimeoutSeconds
		}
		if yamlCfg.Logging.LogLevel != "" {
			cfg.Logging.LogLevel = yamlCfg.Logging.LogLevel
		}
		if yamlCfg.Logging.LogFile != "" {
			cfg.Logging.LogFile = yamlCfg.Logging.LogFile
		}
		if yamlCfg.Charts.OutputDir != "" {
			cfg.Charts.OutputDir = yamlCfg.Charts.OutputDir
		}
	}

	return cfg
}

// EngineTimeout returns the configured engine request timeout.
func (c *Config) EngineTimeout() time.Duration {
	return time.Duration(c.Engine.TimeoutSeconds) * time.Second
}

func loadYAMLConfig() *YAMLConfig {
	data, err := os.ReadFile("config.yaml")
	if err != nil {
		// Could not read config.yaml - silently return nil
		return nil
	}

	var yamlCfg YAMLConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		// Could not parse config.yaml - silently return nil
		return nil
	}

	return &yamlCfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
