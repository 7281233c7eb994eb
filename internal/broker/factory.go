package broker

import (
	"fmt"

	"reportfilter/internal/config"
	"reportfilter/internal/logger"
)

func NewPublisher(cfg config.BrokerConfig, log logger.Logger) (Publisher, error) {
	switch cfg.Type {
	case "":
		return NoopPublisher{}, nil
	case "kafka":
		return NewKafkaProducer(cfg.Kafka, log), nil
	default:
		return nil, fmt.Errorf("unknown broker type: %s", cfg.Type)
	}
}
