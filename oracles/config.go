package oracles

import (
	"time"

	"code.ballastprotocol.io/ballast/config/encoding"
	"code.ballastprotocol.io/ballast/logging"
)

const namedLogger = "oracles"

// defaultStaleTimeout is the maximum age of a feed observation before the
// adapter refuses to serve it.
const defaultStaleTimeout = 3 * time.Hour

// Config represents the configuration of the oracle adapter.
type Config struct {
	Level        encoding.LogLevel `long:"log-level"`
	StaleTimeout encoding.Duration `long:"stale-timeout" description:"maximum age of a price observation before it is considered stale"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:        encoding.LogLevel{Level: logging.InfoLevel},
		StaleTimeout: encoding.Duration{Duration: defaultStaleTimeout},
	}
}
