// Package mqtt provides the broker connection for feedbridge.
//
// This package manages:
//   - A single connection to Adafruit IO (or any MQTT 3.1.1 broker)
//   - Message publishing with QoS validation
//   - Topic subscriptions with ordered delivery
//   - Panic recovery and error logging around message handlers
//
// # Reconnection
//
// There is none. Auto-reconnect and connect-retry are disabled; when the
// connection drops, the disconnect callback fires and later operations
// return ErrNotConnected. The binaries treat that as terminal.
//
// To observe a drop that happens as soon as the session opens, build the
// client with NewClient, call SetOnDisconnect, then call Connect.
//
// # Security Considerations
//
//   - Adafruit IO authenticates with the account username and IO key
//   - Port 1883 is plaintext; set mqtt.broker.tls and port 8883 for TLS
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	topic := feed.Topic{Username: "hari", Feed: "buttons"}
//	err = client.Subscribe(topic.String(), 0,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	client.Publish(topic.String(), []byte(`{"left":1,"right":0}`), 0, false)
package mqtt
