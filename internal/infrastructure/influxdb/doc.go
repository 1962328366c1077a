// Package influxdb writes feed telemetry to InfluxDB v2.
//
// Every published or received feed state becomes one feed_state point,
// tagged by feed and direction, with integer fields left, right and code.
// This gives a time series of button activity per device without querying
// Adafruit IO.
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	recorder := influxdb.Recorder{Client: client}
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
//
// # Error Handling
//
// Write failures are delivered asynchronously to the SetOnError callback.
// Connection and health check errors are returned directly.
package influxdb
