package session

import (
	"time"

	"github.com/olapdb/chconn/compress"
	"github.com/olapdb/chconn/internal/options"
	"github.com/olapdb/chconn/proto"
)

// Config enumerates every Session configuration knob named in spec §4.7.
type Config struct {
	Host     string
	Port     int
	Database string
	User     string
	Password string

	Compression compress.Method
	TLS         bool

	ConnectTimeout time.Duration
	SendTimeout    time.Duration
	RecvTimeout    time.Duration // 0 = infinite

	ClientName    string
	ClientVersion [2]uint64 // major, minor

	// Logger sinks connection lifecycle events and server Log packets
	// (spec §6's Logger collaborator). Defaults to a thin adapter over
	// log.Default() when unset.
	Logger proto.Logger
}

// DefaultConfig returns the baseline configuration: localhost:9000, user
// default, no password, no compression, TLS off, 5s connect timeout,
// infinite send/recv timeouts — matching §8's Testable Property 1 scenario.
func DefaultConfig() Config {
	return Config{
		Host:           "localhost",
		Port:           9000,
		Database:       "default",
		User:           "default",
		Compression:    compress.MethodNone,
		ConnectTimeout: 5 * time.Second,
		ClientName:     "chconn",
		ClientVersion:  [2]uint64{1, 0},
		Logger:         proto.DefaultLogger(),
	}
}

// Opt is a functional option over Config, following the teacher's generic
// options.Option[T] pattern.
type Opt = options.Option[*Config]

func WithHostPort(host string, port int) Opt {
	return options.NoError(func(c *Config) {
		c.Host = host
		c.Port = port
	})
}

func WithDatabase(db string) Opt {
	return options.NoError(func(c *Config) { c.Database = db })
}

func WithCredentials(user, password string) Opt {
	return options.NoError(func(c *Config) {
		c.User = user
		c.Password = password
	})
}

func WithCompression(method compress.Method) Opt {
	return options.NoError(func(c *Config) { c.Compression = method })
}

func WithTLS(enabled bool) Opt {
	return options.NoError(func(c *Config) { c.TLS = enabled })
}

func WithLogger(logger proto.Logger) Opt {
	return options.NoError(func(c *Config) { c.Logger = logger })
}

func WithTimeouts(connect, send, recv time.Duration) Opt {
	return options.NoError(func(c *Config) {
		c.ConnectTimeout = connect
		c.SendTimeout = send
		c.RecvTimeout = recv
	})
}

func WithClientInfo(name string, versionMajor, versionMinor uint64) Opt {
	return options.NoError(func(c *Config) {
		c.ClientName = name
		c.ClientVersion = [2]uint64{versionMajor, versionMinor}
	})
}

// NewConfig builds a Config from DefaultConfig with opts applied.
func NewConfig(opts ...Opt) (Config, error) {
	cfg := DefaultConfig()
	if err := options.Apply(&cfg, opts...); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
