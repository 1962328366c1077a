// Package config handles loading and validating feedbridge configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Merging a device JSON credentials file (optional)
//   - Overriding with environment variables and a .env file
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - The Adafruit IO key and WiFi password should be set via environment
//     variables or a credentials file with restricted permissions (0600)
//   - The broker connection is plain TCP unless mqtt.broker.tls is set
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Adafruit.Feed)
package config
