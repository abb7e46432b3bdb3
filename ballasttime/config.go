package ballasttime

import (
	"code.ballastprotocol.io/ballast/config/encoding"
	"code.ballastprotocol.io/ballast/logging"
)

const namedLogger = "time"

// Config represents the configuration of the time service.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
