package constants

import "time"

const ServiceName = "filter-service"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
	// PublishTimeout bounds a session event publish inside a request.
	PublishTimeout = 2 * time.Second
)

const (
	CacheKeyPrefixSession = "session:"
)

const (
	DefaultSessionEventsTopic = "report_session_events"
	DefaultSessionTTLSeconds  = 3600
)

const (
	DefaultMongoDBName = "reportfilter"
)

const (
	ShutdownTimeout = 5 * time.Second
	ConnectTimeout  = 30 * time.Second
	PingTimeout     = 5 * time.Second
)

const (
	DefaultOptionLimit = 20
	MaxLimit           = 1000
)

const (
	SourceTypePostgreSQL = "postgresql"
	SourceTypeMongoDB    = "mongodb"
	SourceTypeMemory     = "memory"
)

const (
	StoreTypeRedis  = "redis"
	StoreTypeMemory = "memory"
)
