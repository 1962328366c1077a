package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// validConfig returns a configuration that passes validation.
func validConfig() *Config {
	cfg := defaultConfig()
	cfg.WiFi.SSID = "workshop"
	cfg.Adafruit = AdafruitConfig{
		Username: "hari",
		Key:      "aio_key",
		Feed:     "buttons",
	}
	return cfg
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
wifi:
  station: nmcli
  ssid: "workshop"
  password: "hunter2"
adafruit:
  username: "hari"
  key: "aio_key"
  feed: "buttons"
mqtt:
  broker:
    host: "localhost"
    port: 1883
gpio:
  driver: sim
`
	configPath := writeFile(t, t.TempDir(), "config.yaml", content)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Adafruit.Feed != "buttons" {
		t.Errorf("Adafruit.Feed = %q, want %q", cfg.Adafruit.Feed, "buttons")
	}
	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}
	if cfg.GPIO.Driver != DriverSim {
		t.Errorf("GPIO.Driver = %q, want %q", cfg.GPIO.Driver, DriverSim)
	}

	// Broker credentials come from the Adafruit account
	if cfg.MQTT.Auth.Username != "hari" {
		t.Errorf("MQTT.Auth.Username = %q, want %q", cfg.MQTT.Auth.Username, "hari")
	}
	if cfg.MQTT.Auth.Password != "aio_key" {
		t.Errorf("MQTT.Auth.Password = %q, want %q", cfg.MQTT.Auth.Password, "aio_key")
	}

	// Defaults survive a partial file
	if cfg.WiFi.MaxAttempts != 20 {
		t.Errorf("WiFi.MaxAttempts = %d, want 20", cfg.WiFi.MaxAttempts)
	}
	if cfg.GPIO.LeftButton != 14 || cfg.GPIO.RightButton != 2 {
		t.Errorf("buttons = %d/%d, want 14/2", cfg.GPIO.LeftButton, cfg.GPIO.RightButton)
	}
}

func TestLoad_CredentialsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.json", `{
	"SSID": "workshop",
	"SSID_PASSWORD": "hunter2",
	"ADAFRUIT_USERNAME": "hari",
	"ADAFRUIT_IO_KEY": "aio_key",
	"ADAFRUIT_IO_FEEDNAME": "buttons"
}`)
	configPath := writeFile(t, dir, "config.yaml", `
adafruit:
  credentials_file: config.json
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WiFi.SSID != "workshop" || cfg.WiFi.Password != "hunter2" {
		t.Errorf("WiFi = %q/%q, want workshop/hunter2", cfg.WiFi.SSID, cfg.WiFi.Password)
	}
	if cfg.Adafruit.Username != "hari" || cfg.Adafruit.Key != "aio_key" || cfg.Adafruit.Feed != "buttons" {
		t.Errorf("Adafruit = %+v, want hari/aio_key/buttons", cfg.Adafruit)
	}
}

func TestLoad_CredentialsFileMissing(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "config.yaml", `
adafruit:
  credentials_file: nope.json
`)

	_, err := Load(configPath)
	if err == nil {
		t.Fatal("Load() expected error for missing credentials file, got nil")
	}
	if !strings.Contains(err.Error(), "credentials file") {
		t.Errorf("Load() error = %v, want credentials file error", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "config.yaml", "invalid: [yaml: content")

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "config.yaml", `
wifi:
  station: none
adafruit:
  username: "hari"
`)

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected validation error for missing key and feed, got nil")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			modify:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "missing username",
			modify:  func(c *Config) { c.Adafruit.Username = "" },
			wantErr: true,
		},
		{
			name:    "missing key",
			modify:  func(c *Config) { c.Adafruit.Key = "" },
			wantErr: true,
		},
		{
			name:    "missing feed",
			modify:  func(c *Config) { c.Adafruit.Feed = "" },
			wantErr: true,
		},
		{
			name:    "nmcli without ssid",
			modify:  func(c *Config) { c.WiFi.SSID = "" },
			wantErr: true,
		},
		{
			name: "no station without ssid",
			modify: func(c *Config) {
				c.WiFi.Station = StationNone
				c.WiFi.SSID = ""
			},
			wantErr: false,
		},
		{
			name:    "unknown station",
			modify:  func(c *Config) { c.WiFi.Station = "wpa" },
			wantErr: true,
		},
		{
			name:    "zero attempts",
			modify:  func(c *Config) { c.WiFi.MaxAttempts = 0 },
			wantErr: true,
		},
		{
			name:    "invalid QoS",
			modify:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "invalid port",
			modify:  func(c *Config) { c.MQTT.Broker.Port = 70000 },
			wantErr: true,
		},
		{
			name:    "unknown gpio driver",
			modify:  func(c *Config) { c.GPIO.Driver = "sysfs" },
			wantErr: true,
		},
		{
			name: "history without path",
			modify: func(c *Config) {
				c.History.Enabled = true
				c.History.Path = ""
			},
			wantErr: true,
		},
		{
			name:    "influxdb without url",
			modify:  func(c *Config) { c.InfluxDB.Enabled = true },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetDurations(t *testing.T) {
	cfg := defaultConfig()

	if got := cfg.GetAttemptInterval().Seconds(); got != 1 {
		t.Errorf("GetAttemptInterval() = %v, want 1s", got)
	}
	if got := cfg.GetPollInterval().Milliseconds(); got != 10 {
		t.Errorf("GetPollInterval() = %vms, want 10ms", got)
	}
	if got := cfg.GetSettleDelay().Milliseconds(); got != 100 {
		t.Errorf("GetSettleDelay() = %vms, want 100ms", got)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := defaultConfig()

	t.Setenv("FEEDBRIDGE_WIFI_SSID", "workshop")
	t.Setenv("FEEDBRIDGE_WIFI_PASSWORD", "hunter2")
	t.Setenv("FEEDBRIDGE_ADAFRUIT_USERNAME", "hari")
	t.Setenv("FEEDBRIDGE_ADAFRUIT_KEY", "aio_key")
	t.Setenv("FEEDBRIDGE_ADAFRUIT_FEED", "buttons")
	t.Setenv("FEEDBRIDGE_MQTT_HOST", "mqtt.example.com")
	t.Setenv("FEEDBRIDGE_INFLUXDB_TOKEN", "secret-token")

	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides() error = %v", err)
	}

	checks := map[string][2]string{
		"WiFi.SSID":         {cfg.WiFi.SSID, "workshop"},
		"WiFi.Password":     {cfg.WiFi.Password, "hunter2"},
		"Adafruit.Username": {cfg.Adafruit.Username, "hari"},
		"Adafruit.Key":      {cfg.Adafruit.Key, "aio_key"},
		"Adafruit.Feed":     {cfg.Adafruit.Feed, "buttons"},
		"MQTT.Broker.Host":  {cfg.MQTT.Broker.Host, "mqtt.example.com"},
		"InfluxDB.Token":    {cfg.InfluxDB.Token, "secret-token"},
	}
	for field, v := range checks {
		if v[0] != v[1] {
			t.Errorf("%s = %q, want %q", field, v[0], v[1])
		}
	}
}

func TestApplyEnvOverrides_EmptyKeepsFileValue(t *testing.T) {
	cfg := defaultConfig()
	cfg.MQTT.Broker.Host = "broker.local"

	t.Setenv("FEEDBRIDGE_MQTT_HOST", "")

	if err := applyEnvOverrides(cfg); err != nil {
		t.Fatalf("applyEnvOverrides() error = %v", err)
	}
	if cfg.MQTT.Broker.Host != "broker.local" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "broker.local")
	}
}

func TestResolveBrokerAuth_ExplicitWins(t *testing.T) {
	cfg := validConfig()
	cfg.MQTT.Auth = MQTTAuthConfig{Username: "other", Password: "secret"}

	cfg.resolveBrokerAuth()

	if cfg.MQTT.Auth.Username != "other" || cfg.MQTT.Auth.Password != "secret" {
		t.Errorf("MQTT.Auth = %+v, want explicit credentials kept", cfg.MQTT.Auth)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	if cfg.MQTT.Broker.Host != "io.adafruit.com" {
		t.Errorf("defaultConfig MQTT.Broker.Host = %q, want io.adafruit.com", cfg.MQTT.Broker.Host)
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("defaultConfig MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.MQTT.QoS != 0 {
		t.Errorf("defaultConfig MQTT.QoS = %d, want 0", cfg.MQTT.QoS)
	}
	if cfg.WiFi.Station != StationNMCLI {
		t.Errorf("defaultConfig WiFi.Station = %q, want %q", cfg.WiFi.Station, StationNMCLI)
	}
}
