// Package config loads zfsearch settings from YAML. Command-line flags are
// applied on top by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rfielding/zfsearch/internal/logging"
	"github.com/rfielding/zfsearch/internal/telemetry"
	"github.com/rfielding/zfsearch/search"
)

type Config struct {
	Search     Search         `yaml:"search"`
	Checkpoint Checkpoint     `yaml:"checkpoint"`
	Log        logging.Config `yaml:"log"`
	Metrics    Metrics        `yaml:"metrics"`
	Server     Server         `yaml:"server"`
	Trace      Trace          `yaml:"trace"`
}

type Search struct {
	Start            string        `yaml:"start" validate:"required,number"`
	Limit            uint64        `yaml:"limit"`
	Resume           bool          `yaml:"resume"`
	CheckpointEvery  uint64        `yaml:"checkpoint_every"`
	ProgressInterval time.Duration `yaml:"progress_interval" validate:"gte=0"`
}

// Checkpoint is disabled when Dir is empty.
type Checkpoint struct {
	Dir string `yaml:"dir"`
}

// Metrics serves /metrics next to a search when Addr is set.
type Metrics struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

type Server struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`
}

// Trace exports spans to stdout when enabled.
type Trace struct {
	Enabled bool `yaml:"enabled"`
	Pretty  bool `yaml:"pretty"` // indent each exported span
}

func Default() Config {
	sc := search.DefaultConfig()
	return Config{
		Search: Search{
			Start:            "0",
			CheckpointEvery:  sc.CheckpointEvery,
			ProgressInterval: sc.ProgressInterval,
		},
		Log:    logging.Config{Level: "info", Service: "zfsearch"},
		Server: Server{Addr: "127.0.0.1:8080"},
	}
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads path over the defaults. Unknown keys are an error.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SearchConfig converts the search section for search.New.
func (c Config) SearchConfig() (search.Config, error) {
	start, ok := new(big.Int).SetString(c.Search.Start, 10)
	if !ok || start.Sign() < 0 {
		return search.Config{}, fmt.Errorf("invalid start index %q", c.Search.Start)
	}
	return search.Config{
		Start:            start,
		Limit:            c.Search.Limit,
		Resume:           c.Search.Resume,
		CheckpointEvery:  c.Search.CheckpointEvery,
		ProgressInterval: c.Search.ProgressInterval,
	}, nil
}

// TelemetryConfig converts the trace section for telemetry.Setup. Spans go
// to out.
func (c Config) TelemetryConfig(version string, out io.Writer) telemetry.Config {
	return telemetry.Config{
		Enabled:     c.Trace.Enabled,
		ServiceName: c.Log.Service,
		Version:     version,
		Output:      out,
		Pretty:      c.Trace.Pretty,
	}
}
