package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"code.ballastprotocol.io/ballast/ballasttime"
	"code.ballastprotocol.io/ballast/broker"
	"code.ballastprotocol.io/ballast/collateral"
	"code.ballastprotocol.io/ballast/logging"
	"code.ballastprotocol.io/ballast/metrics"
	"code.ballastprotocol.io/ballast/oracles"

	"github.com/BurntSushi/toml"
)

const configFileName = "config.toml"

// Config ties together all other application configuration types.
type Config struct {
	Logging    logging.Config     `group:"Logging" namespace:"logging"`
	Oracles    oracles.Config     `group:"Oracles" namespace:"oracles"`
	Collateral collateral.Config  `group:"Collateral" namespace:"collateral"`
	Broker     broker.Config      `group:"Broker" namespace:"broker"`
	Time       ballasttime.Config `group:"Time" namespace:"time"`
	Metrics    metrics.Config     `group:"Metrics" namespace:"metrics"`
}

// NewDefaultConfig returns a set of default configs for all packages, as
// specified at the per package config level.
func NewDefaultConfig() Config {
	return Config{
		Logging:    logging.NewDefaultConfig(),
		Oracles:    oracles.NewDefaultConfig(),
		Collateral: collateral.NewDefaultConfig(),
		Broker:     broker.NewDefaultConfig(),
		Time:       ballasttime.NewDefaultConfig(),
		Metrics:    metrics.NewDefaultConfig(),
	}
}

// Read loads the configuration file found under the root path, layered over
// the defaults so a partial file is enough.
func Read(rootPath string) (*Config, error) {
	path := filepath.Join(rootPath, configFileName)
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewDefaultConfig()
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Write generates a configuration file under the root path. An existing file
// is only replaced when rewrite is set.
func Write(rootPath string, cfg Config, rewrite bool) error {
	path := filepath.Join(rootPath, configFileName)
	if _, err := os.Stat(path); err == nil {
		if !rewrite {
			return fmt.Errorf("configuration already exists at path: %v", path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("unable to remove configuration: %v", err)
		}
	}

	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString(buf.String()); err != nil {
		return err
	}
	return f.Chmod(0o600)
}
