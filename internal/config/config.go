package config

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Config carries everything the server needs to run. Values are bound
// from flags and TYPEWAR_* environment variables by the command in
// cmd/typewar.
type Config struct {
	Bind         string
	Port         int
	DatabaseURL  string        // empty means run without the persistence mirror
	RaceDuration time.Duration // fixed race length from the start timestamp
	PublicURL    string        // base URL encoded into room share QR codes
}

func Default() Config {
	return Config{
		Bind:         "0.0.0.0",
		Port:         8080,
		RaceDuration: 60 * time.Second,
		PublicURL:    "http://localhost:8080",
	}
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.RaceDuration <= 0 {
		return fmt.Errorf("race duration must be positive: %s", c.RaceDuration)
	}
	return nil
}

// Addr is the host:port the HTTP server listens on.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}
