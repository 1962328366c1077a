package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/nerrad567/feedbridge/internal/feed"
	"github.com/nerrad567/feedbridge/internal/history"
	"github.com/nerrad567/feedbridge/internal/infrastructure/config"
	"github.com/nerrad567/feedbridge/internal/infrastructure/database"
	"github.com/nerrad567/feedbridge/internal/infrastructure/influxdb"
	"github.com/nerrad567/feedbridge/internal/infrastructure/logging"
	"github.com/nerrad567/feedbridge/internal/infrastructure/mqtt"
	"github.com/nerrad567/feedbridge/internal/wifi"
	"github.com/nerrad567/feedbridge/migrations"
)

// DefaultConfigPath is used when FEEDBRIDGE_CONFIG is unset.
const DefaultConfigPath = "configs/config.yaml"

// ConfigEnv names the variable holding the config file path.
const ConfigEnv = "FEEDBRIDGE_CONFIG"

// BuildInfo is set at build time via ldflags in each binary.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Options configures Start. Zero-value hooks use the real implementations;
// tests replace them.
type Options struct {
	// Name identifies the binary in log lines, e.g. "feedpub".
	Name  string
	Build BuildInfo

	// ConfigPath overrides ConfigPath().
	ConfigPath string

	NewStation func(cfg config.WiFiConfig) (wifi.Station, error)
	Sleep      func(ctx context.Context, d time.Duration) error

	// ConnectMQTT must install onDisconnect before the connection is up.
	ConnectMQTT func(cfg config.MQTTConfig, onDisconnect func(error)) (*mqtt.Client, error)
}

// Runtime is the started infrastructure handed to a loop.
type Runtime struct {
	Config   *config.Config
	Log      *logging.Logger
	MQTT     *mqtt.Client
	Topic    feed.Topic
	Recorder feed.Recorder

	ctx    context.Context
	cancel context.CancelCauseFunc

	// disconnect runs before closers so no message arrives after the
	// devices and sinks are released.
	disconnect func()
	closers    []func()
}

// ConfigPath returns $FEEDBRIDGE_CONFIG or DefaultConfigPath.
func ConfigPath() string {
	if path := os.Getenv(ConfigEnv); path != "" {
		return path
	}
	return DefaultConfigPath
}

// Start runs the shared startup sequence. On error everything opened so far
// has already been closed.
func Start(ctx context.Context, opts Options) (_ *Runtime, err error) {
	log := logging.Default()
	log.Info("starting "+opts.Name,
		"version", opts.Build.Version,
		"commit", opts.Build.Commit,
		"build_date", opts.Build.Date,
	)

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = ConfigPath()
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, opts.Build.Version).With("component", opts.Name)

	runCtx, cancel := context.WithCancelCause(ctx)
	rt := &Runtime{
		Config: cfg,
		Log:    log,
		Topic:  feed.Topic{Username: cfg.Adafruit.Username, Feed: cfg.Adafruit.Feed},
		ctx:    runCtx,
		cancel: cancel,
	}
	defer func() {
		if err != nil {
			rt.Close()
		}
	}()

	if err := joinNetwork(runCtx, cfg, opts, log); err != nil {
		return nil, err
	}

	connect := opts.ConnectMQTT
	if connect == nil {
		connect = connectMQTT
	}
	mqttClient, err := connect(cfg.MQTT, func(err error) {
		log.Error("MQTT connection lost", "error", err)
		cancel(fmt.Errorf("%w: %w", ErrConnectionLost, err))
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	rt.MQTT = mqttClient
	rt.disconnect = func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}
	mqttClient.SetLogger(log)
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", mqttClient.ClientID(),
		"topic", rt.Topic.String(),
	)

	recorder, err := rt.openRecorders(runCtx)
	if err != nil {
		return nil, err
	}
	rt.Recorder = recorder

	return rt, nil
}

// Context is cancelled on interrupt or when the broker connection drops.
func (rt *Runtime) Context() context.Context {
	return rt.ctx
}

// Err reports why the runtime stopped: ErrConnectionLost (wrapped) after a
// drop, nil after a normal interrupt or while still running.
func (rt *Runtime) Err() error {
	cause := context.Cause(rt.ctx)
	if errors.Is(cause, ErrConnectionLost) {
		return cause
	}
	return nil
}

// Close disconnects from the broker, then releases everything else Start
// and AddCloser opened, newest first.
func (rt *Runtime) Close() {
	if rt.disconnect != nil {
		rt.disconnect()
		rt.disconnect = nil
	}
	for i := len(rt.closers) - 1; i >= 0; i-- {
		rt.closers[i]()
	}
	rt.closers = nil
	rt.cancel(nil)
}

// AddCloser registers cleanup to run on Close, e.g. releasing GPIO lines.
func (rt *Runtime) AddCloser(fn func()) {
	rt.addCloser(fn)
}

func (rt *Runtime) addCloser(fn func()) {
	rt.closers = append(rt.closers, fn)
}

// connectMQTT is the default Options.ConnectMQTT.
func connectMQTT(cfg config.MQTTConfig, onDisconnect func(error)) (*mqtt.Client, error) {
	c := mqtt.NewClient(cfg)
	c.SetOnDisconnect(onDisconnect)
	if err := c.Connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func joinNetwork(ctx context.Context, cfg *config.Config, opts Options, log *logging.Logger) error {
	newStation := opts.NewStation
	if newStation == nil {
		newStation = wifi.NewStation
	}
	station, err := newStation(cfg.WiFi)
	if err != nil {
		return fmt.Errorf("creating wifi station: %w", err)
	}

	log.Info("joining network", "station", cfg.WiFi.Station, "ssid", cfg.WiFi.SSID)
	attempts, err := wifi.Join(ctx, station, wifi.JoinOptions{
		MaxAttempts: cfg.WiFi.MaxAttempts,
		Interval:    cfg.GetAttemptInterval(),
		Sleep:       opts.Sleep,
	}, log)
	if err != nil {
		return fmt.Errorf("joining wifi: %w", err)
	}
	log.Info("network connected", "attempts", attempts)
	return nil
}

// openRecorders opens the journal and InfluxDB sinks that are enabled.
func (rt *Runtime) openRecorders(ctx context.Context) (feed.Recorder, error) {
	cfg, log := rt.Config, rt.Log
	var recorders feed.MultiRecorder

	if cfg.History.Enabled {
		db, err := database.Open(cfg.History)
		if err != nil {
			return nil, fmt.Errorf("opening history database: %w", err)
		}
		rt.addCloser(func() {
			log.Info("closing history database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing history database", "error", closeErr)
			}
		})
		if err := db.Migrate(ctx, migrations.FS); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}
		journal := history.NewJournal(db.DB)
		if last, err := journal.Last(ctx, feed.DirectionPublished); err == nil {
			log.Info("history opened", "path", db.Path(), "last_published", last.State.String(), "at", last.At)
		} else {
			log.Info("history opened", "path", db.Path())
		}
		recorders = append(recorders, journal)
	}

	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		rt.addCloser(func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		})
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		recorders = append(recorders, influxdb.Recorder{Client: influxClient})
	}

	switch len(recorders) {
	case 0:
		return feed.NopRecorder{}, nil
	case 1:
		return recorders[0], nil
	default:
		return recorders, nil
	}
}
