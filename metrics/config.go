package metrics

import (
	"code.ballastprotocol.io/ballast/config/encoding"
)

// Config represents the configuration of the metric package.
type Config struct {
	Port    int           `long:"port" description:" "`
	Path    string        `long:"path" description:" "`
	Enabled encoding.Bool `long:"enabled" description:" "`
}

// NewDefaultConfig creates an instance of the package specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Port:    2112,
		Path:    "/metrics",
		Enabled: false,
	}
}
