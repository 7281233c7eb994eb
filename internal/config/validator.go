package config

import (
	"errors"
	"fmt"
	"strings"

	"reportfilter/internal/constants"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// validator collects every problem instead of stopping at the first one.
type validator struct {
	errs []error
}

func (v *validator) fail(field, format string, args ...interface{}) {
	v.errs = append(v.errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) check(ok bool, field, format string, args ...interface{}) {
	if !ok {
		v.fail(field, format, args...)
	}
}

func (v *validator) port(field string, port int) {
	v.check(port >= 1 && port <= 65535, field, "port must be between 1 and 65535, got %d", port)
}

func (v *validator) oneOf(field, value string, allowed ...string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	v.fail(field, "unsupported value %q (valid: %s)", value, strings.Join(allowed, ", "))
	return false
}

func ValidateStatic(cfg *Config) error {
	v := &validator{}

	v.server(cfg.Server)
	v.broker(cfg.Broker)
	v.database(cfg.Database)
	v.options(cfg.Options, cfg.Database)
	v.sessions(cfg.Sessions, cfg.Database)
	v.logging(cfg.Logging)
	v.circuitBreaker(cfg.CircuitBreaker)
	v.tracing(cfg.Tracing)

	if len(v.errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(v.errs...))
	}
	return nil
}

func (v *validator) server(cfg ServerConfig) {
	v.port("server.port", cfg.Port)
	v.check(cfg.ReadTimeoutSeconds > 0, "server.read_timeout_seconds", "read timeout must be positive")
	v.check(cfg.WriteTimeoutSeconds > 0, "server.write_timeout_seconds", "write timeout must be positive")

	if rl := cfg.RateLimit; rl.Enabled {
		v.check(rl.RPS > 0, "server.rate_limit.rps", "rps must be positive when rate limiting is enabled")
		v.check(rl.Burst > 0, "server.rate_limit.burst", "burst must be positive when rate limiting is enabled")
	}
}

func (v *validator) broker(cfg BrokerConfig) {
	if cfg.Type == "" {
		return
	}
	if !v.oneOf("broker.type", cfg.Type, "kafka") {
		return
	}

	k := cfg.Kafka
	v.check(len(k.Brokers) > 0, "broker.kafka.brokers", "at least one Kafka broker is required")
	for i, addr := range k.Brokers {
		v.check(addr != "", fmt.Sprintf("broker.kafka.brokers[%d]", i), "broker address cannot be empty")
	}
	v.check(k.SessionEventsTopic != "", "broker.kafka.session_events_topic", "session events topic is required")
	v.check(k.PublishTimeout >= 0, "broker.kafka.publish_timeout", "publish_timeout must be non-negative")

	r := k.Retry
	v.check(r.MaxAttempts >= 0, "broker.kafka.retry.max_attempts", "max_attempts must be non-negative")
	v.check(r.Multiplier > 0, "broker.kafka.retry.multiplier", "multiplier must be positive")
	if r.MaxInterval > 0 && r.InitialInterval > 0 {
		v.check(r.MaxInterval >= r.InitialInterval, "broker.kafka.retry.max_interval",
			"max_interval must be greater than or equal to initial_interval")
	}
}

// database checks only the stores that are at least partly configured.
func (v *validator) database(cfg DatabaseConfig) {
	if pg := cfg.Postgres; pg.Host != "" || pg.Port > 0 {
		v.check(pg.Host != "", "database.postgres.host", "PostgreSQL host is required")
		v.port("database.postgres.port", pg.Port)
		v.check(pg.User != "", "database.postgres.user", "PostgreSQL user is required")
		v.check(pg.DBName != "", "database.postgres.dbname", "PostgreSQL database name is required")
		if pg.SSLMode != "" {
			v.oneOf("database.postgres.sslmode", strings.ToLower(pg.SSLMode),
				"disable", "allow", "prefer", "require", "verify-ca", "verify-full")
		}
	}

	if r := cfg.Redis; r.Host != "" || r.Port > 0 {
		v.check(r.Host != "", "database.redis.host", "Redis host is required")
		v.port("database.redis.port", r.Port)
	}

	if m := cfg.MongoDB; m.URI != "" {
		v.check(strings.HasPrefix(m.URI, "mongodb://") || strings.HasPrefix(m.URI, "mongodb+srv://"),
			"database.mongodb.uri", "MongoDB URI must start with mongodb:// or mongodb+srv://")
	}
}

func (v *validator) options(cfg OptionsConfig, db DatabaseConfig) {
	if v.oneOf("options.source", cfg.Source,
		constants.SourceTypePostgreSQL, constants.SourceTypeMongoDB, constants.SourceTypeMemory) {
		switch cfg.Source {
		case constants.SourceTypePostgreSQL:
			v.check(db.Postgres.Host != "", "options.source", "postgresql option source requires database.postgres")
		case constants.SourceTypeMongoDB:
			v.check(db.MongoDB.URI != "", "options.source", "mongodb option source requires database.mongodb.uri")
		}
	}

	v.check(cfg.DefaultLimit >= 1 && cfg.DefaultLimit <= constants.MaxLimit, "options.default_limit",
		"default limit must be between 1 and %d, got %d", constants.MaxLimit, cfg.DefaultLimit)

	if cfg.FixturesFile != "" {
		v.check(cfg.Source == constants.SourceTypeMemory, "options.fixtures_file",
			"fixtures only seed the memory option source")
	}
}

func (v *validator) sessions(cfg SessionsConfig, db DatabaseConfig) {
	if v.oneOf("sessions.store", cfg.Store, constants.StoreTypeRedis, constants.StoreTypeMemory) &&
		cfg.Store == constants.StoreTypeRedis {
		v.check(db.Redis.Host != "", "sessions.store", "redis session store requires database.redis")
	}
	v.check(cfg.TTLSeconds > 0, "sessions.ttl_seconds", "session TTL must be positive")
}

func (v *validator) logging(cfg LoggingConfig) {
	if cfg.Format != "" {
		v.oneOf("logging.format", strings.ToLower(cfg.Format), "json", "console")
	}
	if cfg.Level != "" {
		v.oneOf("logging.level", strings.ToLower(cfg.Level), "debug", "info", "warn", "error")
	}
}

func (v *validator) circuitBreaker(cfg CircuitBreakerConfig) {
	if !cfg.Enabled {
		return
	}
	v.check(cfg.FailureRatio >= 0 && cfg.FailureRatio <= 1, "circuit_breaker.failure_ratio",
		"failure ratio must be between 0 and 1, got %v", cfg.FailureRatio)
}

func (v *validator) tracing(cfg TracingConfig) {
	if !cfg.Enabled {
		return
	}
	v.check(cfg.OTLP.Endpoint != "", "tracing.otlp.endpoint", "OTLP endpoint is required when tracing is enabled")
	if cfg.Sampler.Type != "" {
		v.oneOf("tracing.sampler.type", cfg.Sampler.Type, "always_on", "always_off", "traceidratio", "parentbased_always_on", "parentbased_traceidratio")
	}
}
