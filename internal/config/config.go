package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Schedule ScheduleConfig
	Workflow WorkflowConfig
	Rate     RateConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port" envconfig:"SERVER_PORT"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds" envconfig:"SERVER_TIMEOUT_SECONDS"`
}

type BackendConfig struct {
	BaseURL        string `mapstructure:"baseUrl" envconfig:"BACKEND_BASE_URL"`
	OrgID          string `mapstructure:"orgId" envconfig:"BACKEND_ORG_ID"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds" envconfig:"BACKEND_TIMEOUT_SECONDS"`
}

type ScheduleConfig struct {
	CacheTTLSeconds        int `mapstructure:"cacheTtlSeconds" envconfig:"SCHEDULE_CACHE_TTL_SECONDS"`
	RefreshIntervalSeconds int `mapstructure:"refreshIntervalSeconds" envconfig:"REFRESH_INTERVAL_SECONDS"`
}

type WorkflowConfig struct {
	// Policy selects the transition policy: "unrestricted" (default) or
	// "graph" for terminal completed/cancelled statuses.
	Policy string `mapstructure:"policy" envconfig:"WORKFLOW_POLICY"`
}

type RateConfig struct {
	RPS   float64 `mapstructure:"rps" envconfig:"RATE_RPS"`
	Burst int     `mapstructure:"burst" envconfig:"RATE_BURST"`
}

// LoadConfig reads the config file and overlays environment variables.
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	var config Config
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	applyDefaults(&config)
	return &config, nil
}

func applyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.TimeoutSeconds == 0 {
		c.Server.TimeoutSeconds = 30
	}
	if c.Backend.TimeoutSeconds == 0 {
		c.Backend.TimeoutSeconds = 10
	}
	if c.Schedule.CacheTTLSeconds == 0 {
		c.Schedule.CacheTTLSeconds = 30
	}
	if c.Schedule.RefreshIntervalSeconds == 0 {
		c.Schedule.RefreshIntervalSeconds = 60
	}
	if c.Workflow.Policy == "" {
		c.Workflow.Policy = "unrestricted"
	}
}
