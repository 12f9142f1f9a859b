// Package config loads the tunables this client needs outside of the
// per-call arguments to CreateAccount/LogIn: where the local content store
// lives, how often the transport is polled, how long a response is awaited,
// how expensive the password KDF is, and how verbosely the client logs.
package config

import (
	"io/ioutil"
	"time"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/nimbusnet/client/constants"
)

// Config holds the tunables of a Client. Zero-valued fields are filled in
// by ApplyDefaults with the constants package's reference values.
type Config struct {
	// StorePath is the boltdb file backing the local ContentStore that
	// stands in for the network.
	StorePath string

	// PollInterval is how often the TransportDriver calls Run.
	PollInterval time.Duration

	// RequestTimeout bounds how long CreateAccount and LogIn wait for each
	// response they await. Futures returned by Client.Put and Client.Get
	// wait until the deadline passed to their Wait.
	RequestTimeout time.Duration

	// KDFIterations is the PBKDF2 iteration count used for the password
	// KDF. Below constants.MinPBKDF2Iterations is rejected at load time.
	KDFIterations int

	// LogLevel names an op/go-logging level ("DEBUG", "INFO", "NOTICE",
	// "WARNING", "ERROR", "CRITICAL"). Empty defaults to "NOTICE".
	LogLevel string
}

// LoadFile parses a TOML config file at path and applies defaults to any
// field left unset.
func LoadFile(path string) (*Config, error) {
	fileData, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "config: read")
	}
	cfg := new(Config)
	if err := toml.Unmarshal(fileData, cfg); err != nil {
		return nil, errors.Wrap(err, "config: decode")
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills any zero-valued tunable with this client's reference
// default.
func (c *Config) ApplyDefaults() {
	if c.PollInterval == 0 {
		c.PollInterval = constants.DefaultPollInterval
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = constants.DefaultRequestTimeout
	}
	if c.KDFIterations == 0 {
		c.KDFIterations = constants.DefaultPBKDF2Iterations
	}
	if c.LogLevel == "" {
		c.LogLevel = "NOTICE"
	}
}

// Validate reports whether c's tunables are usable, beyond what
// ApplyDefaults can repair on its own.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return errors.New("config: StorePath is required")
	}
	if c.KDFIterations < constants.MinPBKDF2Iterations {
		return errors.Errorf("config: KDFIterations must be at least %d", constants.MinPBKDF2Iterations)
	}
	return nil
}
