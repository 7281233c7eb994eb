package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"reportfilter/internal/constants"
)

func LoadConfig(configFile string) (*Config, error) {
	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configFile)

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configFile, err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout_seconds", 15)
	viper.SetDefault("server.write_timeout_seconds", 15)
	viper.SetDefault("server.rate_limit.rps", 10.0)
	viper.SetDefault("server.rate_limit.burst", 20)
	viper.SetDefault("server.rate_limit.cleanup_interval", 300)
	viper.SetDefault("server.rate_limit.max_age", 600)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("options.source", constants.SourceTypePostgreSQL)
	viper.SetDefault("options.default_limit", constants.DefaultOptionLimit)

	viper.SetDefault("sessions.store", constants.StoreTypeMemory)
	viper.SetDefault("sessions.ttl_seconds", constants.DefaultSessionTTLSeconds)

	viper.SetDefault("database.mongodb.database", constants.DefaultMongoDBName)

	viper.SetDefault("broker.kafka.session_events_topic", constants.DefaultSessionEventsTopic)
	viper.SetDefault("broker.kafka.publish_timeout", constants.PublishTimeout)
	viper.SetDefault("broker.kafka.retry.max_attempts", 3)
	viper.SetDefault("broker.kafka.retry.multiplier", 2.0)
}

// envKeys are bound explicitly so they override the file even when the key
// is absent from it. DATABASE_POSTGRES_HOST maps to database.postgres.host.
var envKeys = []string{
	"broker.type",
	"broker.kafka.brokers",
	"broker.kafka.session_events_topic",

	"database.postgres.host",
	"database.postgres.port",
	"database.postgres.user",
	"database.postgres.password",
	"database.postgres.dbname",
	"database.postgres.sslmode",
	"database.run_migrations",

	"database.redis.host",
	"database.redis.port",
	"database.redis.password",
	"database.redis.db",

	"database.mongodb.uri",
	"database.mongodb.database",

	"server.port",
	"server.read_timeout_seconds",
	"server.write_timeout_seconds",
	"server.rate_limit.enabled",

	"options.source",
	"options.default_limit",
	"options.fixtures_file",
	"sessions.store",
	"sessions.ttl_seconds",

	"circuit_breaker.enabled",

	"logging.level",
	"logging.format",

	"tracing.enabled",
	"tracing.service_name",
	"tracing.otlp.endpoint",
	"tracing.otlp.insecure",
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func bindEnvVariables() {
	for _, key := range envKeys {
		viper.BindEnv(key, envName(key))
	}
}

func applyEnvOverrides(cfg *Config) error {
	if brokersEnv := viper.GetString("BROKER_KAFKA_BROKERS"); brokersEnv != "" {
		brokers := strings.Split(brokersEnv, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		if len(brokers) > 0 && brokers[0] != "" {
			cfg.Broker.Kafka.Brokers = brokers
		}
	}

	if otlpEndpoint := viper.GetString("TRACING_OTLP_ENDPOINT"); otlpEndpoint != "" {
		cfg.Tracing.OTLP.Endpoint = otlpEndpoint
	}

	return nil
}
