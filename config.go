package main

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration
type Config struct {
	// BindAddress is the address the server listens on (e.g. "0.0.0.0:8080")
	BindAddress string
	// SerialPort is the path to the modem's serial port (e.g. "/dev/ttyUSB0")
	SerialPort string
	// BaudRate is the baud rate for serial communication with the modem (e.g. 115200)
	BaudRate int
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string
	// SimPIN is the SIM card PIN code
	SimPIN string
	// RemoteHost is the UDP echo peer address
	RemoteHost string
	// RemotePort is the UDP echo peer port
	RemotePort int
	// Payload is the data sent on each check
	Payload string
	// CheckInterval is the pause between periodic echo checks
	CheckInterval time.Duration
	// ScriptPath points to an optional TOML preamble command script
	ScriptPath string
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.BindAddress = "0.0.0.0:8080"
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.RemoteHost = "192.0.2.50"
		c.RemotePort = 10510
		c.Payload = "Hello"
		c.CheckInterval = 5 * time.Minute
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
			c.BindAddress = addr
		}

		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if simPIN := os.Getenv("SIM_PIN"); simPIN != "" {
			c.SimPIN = simPIN
		}

		if host := os.Getenv("REMOTE_HOST"); host != "" {
			c.RemoteHost = host
		}

		if port := os.Getenv("REMOTE_PORT"); port != "" {
			if p, err := strconv.Atoi(port); err == nil {
				c.RemotePort = p
			}
		}

		if payload := os.Getenv("PAYLOAD"); payload != "" {
			c.Payload = payload
		}

		if interval := os.Getenv("CHECK_INTERVAL"); interval != "" {
			if d, err := time.ParseDuration(interval); err == nil {
				c.CheckInterval = d
			}
		}

		if script := os.Getenv("SCRIPT_PATH"); script != "" {
			c.ScriptPath = script
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "bind-address":
				c.BindAddress = f.Value.String()
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case "log-level":
				c.LogLevel = f.Value.String()
			case "sim-pin":
				c.SimPIN = f.Value.String()
			case "remote-host":
				c.RemoteHost = f.Value.String()
			case "remote-port":
				if p, err := strconv.Atoi(f.Value.String()); err == nil {
					c.RemotePort = p
				}
			case "payload":
				c.Payload = f.Value.String()
			case "check-interval":
				if d, err := time.ParseDuration(f.Value.String()); err == nil {
					c.CheckInterval = d
				}
			case "script":
				c.ScriptPath = f.Value.String()
			}
		})
		return nil
	}
}
