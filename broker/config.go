package broker

import (
	"time"

	"code.ballastprotocol.io/ballast/config/encoding"
	"code.ballastprotocol.io/ballast/logging"
)

const namedLogger = "broker"

// Config represents the configuration of the broker.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	// SendEventTimeout caps how long a slow subscriber can hold up an
	// overflowing best-effort send before the batch is dropped.
	SendEventTimeout encoding.Duration `long:"send-event-timeout" description:"Maximum time to wait on a slow subscriber before dropping a batch"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:            encoding.LogLevel{Level: logging.InfoLevel},
		SendEventTimeout: encoding.Duration{Duration: time.Second},
	}
}
