package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Station kinds for WiFiConfig.Station.
const (
	StationNMCLI = "nmcli"
	StationNone  = "none"
)

// GPIO drivers for GPIOConfig.Driver.
const (
	DriverCdev = "cdev"
	DriverSim  = "sim"
)

// Config is the root configuration structure for feedbridge.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	WiFi      WiFiConfig      `yaml:"wifi"`
	Adafruit  AdafruitConfig  `yaml:"adafruit"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	GPIO      GPIOConfig      `yaml:"gpio"`
	Publisher PublisherConfig `yaml:"publisher"`
	History   HistoryConfig   `yaml:"history"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WiFiConfig contains network join settings.
type WiFiConfig struct {
	// Station selects how the network is joined: "nmcli" or "none".
	// "none" means the host network is managed outside feedbridge.
	Station  string `yaml:"station"`
	SSID     string `yaml:"ssid"`
	Password string `yaml:"password"`

	// MaxAttempts bounds the number of link checks before giving up.
	MaxAttempts int `yaml:"max_attempts"`

	// AttemptInterval is the pause between link checks (seconds).
	AttemptInterval int `yaml:"attempt_interval"`
}

// AdafruitConfig contains the Adafruit IO account and feed.
type AdafruitConfig struct {
	Username string `yaml:"username"`
	Key      string `yaml:"key"`
	Feed     string `yaml:"feed"`

	// CredentialsFile optionally points to a device-style JSON credentials
	// file (SSID, SSID_PASSWORD, ADAFRUIT_USERNAME, ADAFRUIT_IO_KEY,
	// ADAFRUIT_IO_FEEDNAME). Relative paths resolve against the config file.
	CredentialsFile string `yaml:"credentials_file"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker MQTTBrokerConfig `yaml:"broker"`
	Auth   MQTTAuthConfig   `yaml:"auth"`
	QoS    int              `yaml:"qos"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	TLS  bool   `yaml:"tls"`

	// ClientID is generated at connect time when empty.
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
// Filled from the Adafruit section when left empty.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// GPIOConfig contains pin assignments.
type GPIOConfig struct {
	Driver      string `yaml:"driver"`
	Chip        string `yaml:"chip"`
	LeftButton  int    `yaml:"left_button"`
	RightButton int    `yaml:"right_button"`
	LeftLED     int    `yaml:"left_led"`
	RightLED    int    `yaml:"right_led"`
}

// PublisherConfig contains publisher loop timing.
type PublisherConfig struct {
	PollIntervalMS int `yaml:"poll_interval_ms"`
	SettleDelayMS  int `yaml:"settle_delay_ms"`
}

// HistoryConfig contains SQLite state journal settings.
type HistoryConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// InfluxDBConfig contains InfluxDB connection settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// envOverrides holds FEEDBRIDGE_* variables. Empty values leave the
// file configuration untouched.
type envOverrides struct {
	WiFiSSID         string `env:"FEEDBRIDGE_WIFI_SSID"`
	WiFiPassword     string `env:"FEEDBRIDGE_WIFI_PASSWORD"`
	AdafruitUsername string `env:"FEEDBRIDGE_ADAFRUIT_USERNAME"`
	AdafruitKey      string `env:"FEEDBRIDGE_ADAFRUIT_KEY"`
	AdafruitFeed     string `env:"FEEDBRIDGE_ADAFRUIT_FEED"`
	MQTTHost         string `env:"FEEDBRIDGE_MQTT_HOST"`
	InfluxDBToken    string `env:"FEEDBRIDGE_INFLUXDB_TOKEN"`
}

// deviceCredentials mirrors the JSON credentials file flashed alongside
// the original device firmware.
type deviceCredentials struct {
	SSID         string `json:"SSID"`
	SSIDPassword string `json:"SSID_PASSWORD"`
	Username     string `json:"ADAFRUIT_USERNAME"`
	Key          string `json:"ADAFRUIT_IO_KEY"`
	Feed         string `json:"ADAFRUIT_IO_FEEDNAME"`
}

// Load reads configuration from a YAML file and applies overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Device credentials file, if adafruit.credentials_file is set
//  4. Environment variables, including a .env file in the working directory
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If a file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if cfg.Adafruit.CredentialsFile != "" {
		credPath := cfg.Adafruit.CredentialsFile
		if !filepath.IsAbs(credPath) {
			credPath = filepath.Join(filepath.Dir(path), credPath)
		}
		if err := applyCredentialsFile(cfg, credPath); err != nil {
			return nil, err
		}
	}

	// A missing .env file is normal outside development.
	_ = godotenv.Load() //nolint:errcheck // Optional file

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	cfg.resolveBrokerAuth()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with the device defaults.
func defaultConfig() *Config {
	return &Config{
		WiFi: WiFiConfig{
			Station:         StationNMCLI,
			MaxAttempts:     20,
			AttemptInterval: 1,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host: "io.adafruit.com",
				Port: 1883,
			},
			QoS: 0,
		},
		GPIO: GPIOConfig{
			Driver:      DriverCdev,
			Chip:        "gpiochip0",
			LeftButton:  14,
			RightButton: 2,
			LeftLED:     12,
			RightLED:    2,
		},
		Publisher: PublisherConfig{
			PollIntervalMS: 10,
			SettleDelayMS:  100,
		},
		History: HistoryConfig{
			Path:        "./data/feedbridge.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		InfluxDB: InfluxDBConfig{
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyCredentialsFile merges a device credentials file into cfg.
// Only non-empty values are applied.
func applyCredentialsFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading credentials file: %w", err)
	}

	var creds deviceCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return fmt.Errorf("parsing credentials file: %w", err)
	}

	setIfNotEmpty(&cfg.WiFi.SSID, creds.SSID)
	setIfNotEmpty(&cfg.WiFi.Password, creds.SSIDPassword)
	setIfNotEmpty(&cfg.Adafruit.Username, creds.Username)
	setIfNotEmpty(&cfg.Adafruit.Key, creds.Key)
	setIfNotEmpty(&cfg.Adafruit.Feed, creds.Feed)
	return nil
}

// applyEnvOverrides applies FEEDBRIDGE_* environment variables to cfg.
func applyEnvOverrides(cfg *Config) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return err
	}

	setIfNotEmpty(&cfg.WiFi.SSID, o.WiFiSSID)
	setIfNotEmpty(&cfg.WiFi.Password, o.WiFiPassword)
	setIfNotEmpty(&cfg.Adafruit.Username, o.AdafruitUsername)
	setIfNotEmpty(&cfg.Adafruit.Key, o.AdafruitKey)
	setIfNotEmpty(&cfg.Adafruit.Feed, o.AdafruitFeed)
	setIfNotEmpty(&cfg.MQTT.Broker.Host, o.MQTTHost)
	setIfNotEmpty(&cfg.InfluxDB.Token, o.InfluxDBToken)
	return nil
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// resolveBrokerAuth fills MQTT credentials from the Adafruit account.
// Adafruit IO authenticates with the account username and the IO key.
func (c *Config) resolveBrokerAuth() {
	if c.MQTT.Auth.Username == "" {
		c.MQTT.Auth.Username = c.Adafruit.Username
	}
	if c.MQTT.Auth.Password == "" {
		c.MQTT.Auth.Password = c.Adafruit.Key
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Adafruit IO account
	if c.Adafruit.Username == "" {
		errs = append(errs, "adafruit.username is required (set FEEDBRIDGE_ADAFRUIT_USERNAME)")
	}
	if c.Adafruit.Key == "" {
		errs = append(errs, "adafruit.key is required (set FEEDBRIDGE_ADAFRUIT_KEY)")
	}
	if c.Adafruit.Feed == "" {
		errs = append(errs, "adafruit.feed is required")
	}

	// WiFi
	switch c.WiFi.Station {
	case StationNMCLI:
		if c.WiFi.SSID == "" {
			errs = append(errs, "wifi.ssid is required when wifi.station is nmcli")
		}
	case StationNone:
	default:
		errs = append(errs, fmt.Sprintf("wifi.station %q must be nmcli or none", c.WiFi.Station))
	}
	if c.WiFi.MaxAttempts < 1 {
		errs = append(errs, "wifi.max_attempts must be at least 1")
	}

	// MQTT
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// GPIO
	if c.GPIO.Driver != DriverCdev && c.GPIO.Driver != DriverSim {
		errs = append(errs, fmt.Sprintf("gpio.driver %q must be cdev or sim", c.GPIO.Driver))
	}

	// History
	if c.History.Enabled && c.History.Path == "" {
		errs = append(errs, "history.path is required when history is enabled")
	}

	// InfluxDB
	if c.InfluxDB.Enabled && c.InfluxDB.URL == "" {
		errs = append(errs, "influxdb.url is required when influxdb is enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetAttemptInterval returns the WiFi attempt interval as a Duration.
func (c *Config) GetAttemptInterval() time.Duration {
	return time.Duration(c.WiFi.AttemptInterval) * time.Second
}

// GetPollInterval returns the publisher poll interval as a Duration.
func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.Publisher.PollIntervalMS) * time.Millisecond
}

// GetSettleDelay returns the pause after each publish as a Duration.
func (c *Config) GetSettleDelay() time.Duration {
	return time.Duration(c.Publisher.SettleDelayMS) * time.Millisecond
}
