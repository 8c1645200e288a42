// Package config provides the agentflow configuration
package config

import (
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/agentflow/pkg/llmfactory"
	"github.com/effective-security/agentflow/store"
	"github.com/effective-security/agentflow/tools/toolset"
	"github.com/effective-security/x/configloader"
	"github.com/effective-security/xlog"
	"github.com/go-playground/validator/v10"
)

// EnvConfigFile specifies the environment variable with the config file location
const EnvConfigFile = "AGENTFLOW_CONFIG"

// Configuration of the application
type Configuration struct {
	Server ServerConfig       `json:"server" yaml:"server"`
	Logs   LogsConfig         `json:"logs" yaml:"logs"`
	LLM    *llmfactory.Config `json:"llm,omitempty" yaml:"llm,omitempty"`
	Agents AgentsConfig       `json:"agents" yaml:"agents"`
	Tools  toolset.Config     `json:"tools" yaml:"tools"`
	Store  store.Config       `json:"store" yaml:"store"`
}

// ServerConfig specifies the HTTP server
type ServerConfig struct {
	// ListenURL is the address to listen on, for example :8000
	ListenURL string `json:"listen_url,omitempty" yaml:"listen_url,omitempty"`
	// ReadTimeout as duration, for example 30s
	ReadTimeout string `json:"read_timeout,omitempty" yaml:"read_timeout,omitempty"`
	// WriteTimeout as duration, must allow a full pipeline run
	WriteTimeout string `json:"write_timeout,omitempty" yaml:"write_timeout,omitempty"`
	// ShutdownTimeout as duration
	ShutdownTimeout string `json:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty"`
	// RunTimeout limits a pipeline run started by a request
	RunTimeout string `json:"run_timeout,omitempty" yaml:"run_timeout,omitempty"`
	// AllowedOrigins for CORS, CORS is disabled when empty
	AllowedOrigins []string `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty"`
	// DisableUI turns off the /ui pages
	DisableUI bool `json:"disable_ui,omitempty" yaml:"disable_ui,omitempty"`
}

// LogsConfig specifies the logger
type LogsConfig struct {
	// Level is TRACE|DEBUG|INFO|NOTICE|WARNING|ERROR|CRITICAL
	Level string `json:"level,omitempty" yaml:"level,omitempty" validate:"omitempty,oneof=TRACE DEBUG INFO NOTICE WARNING ERROR CRITICAL"`
	// Format is text or json
	Format string `json:"format,omitempty" yaml:"format,omitempty" validate:"omitempty,oneof=text json"`
}

// AgentsConfig specifies the agents
type AgentsConfig struct {
	// MaxIterations limits the reasoning steps of the research agent
	MaxIterations int `json:"max_iterations,omitempty" yaml:"max_iterations,omitempty" validate:"gte=0"`
	// MaxExecutionTime limits the research agent loop, as duration
	MaxExecutionTime string `json:"max_execution_time,omitempty" yaml:"max_execution_time,omitempty"`
	// HandleParsingErrors sends the parsing errors back to the model,
	// nil means disabled
	HandleParsingErrors *bool `json:"handle_parsing_errors,omitempty" yaml:"handle_parsing_errors,omitempty"`
	// Temperature of the LLM calls, 0 uses the provider default
	Temperature float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" validate:"gte=0,lte=2"`
	// Verbose prints the reasoning trace
	Verbose bool `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults
const (
	DefaultListenURL       = ":8000"
	DefaultReadTimeout     = "30s"
	DefaultWriteTimeout    = "10m"
	DefaultShutdownTimeout = "30s"
	DefaultRunTimeout      = "10m"
	DefaultLogLevel        = "INFO"
	DefaultLogFormat       = "text"
)

// Load returns the configuration from the file,
// empty file uses AGENTFLOW_CONFIG or the defaults.
func Load(file string) (*Configuration, error) {
	if file == "" {
		file = os.Getenv(EnvConfigFile)
	}

	cfg := new(Configuration)
	if file != "" {
		if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
			return nil, errors.WithMessagef(err, "failed to load config %q", file)
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Configuration) applyDefaults() {
	if c.Server.ListenURL == "" {
		c.Server.ListenURL = DefaultListenURL
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = DefaultReadTimeout
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = DefaultWriteTimeout
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Server.RunTimeout == "" {
		c.Server.RunTimeout = DefaultRunTimeout
	}
	if c.Logs.Level == "" {
		c.Logs.Level = DefaultLogLevel
	}
	c.Logs.Level = strings.ToUpper(c.Logs.Level)
	if c.Logs.Format == "" {
		c.Logs.Format = DefaultLogFormat
	}
	if c.LLM == nil || len(c.LLM.Providers) == 0 {
		c.LLM = llmfactory.DefaultConfig()
	}
	if c.Store.Type == "" {
		c.Store.Type = store.TypeMemory
	}
}

// Validate returns an error if the configuration is invalid
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.WithMessage(err, "invalid configuration")
	}
	for name, val := range map[string]string{
		"server.read_timeout":       c.Server.ReadTimeout,
		"server.write_timeout":      c.Server.WriteTimeout,
		"server.shutdown_timeout":   c.Server.ShutdownTimeout,
		"server.run_timeout":        c.Server.RunTimeout,
		"agents.max_execution_time": c.Agents.MaxExecutionTime,
		"store.ttl":                 c.Store.TTL,
		"tools.timeout":             c.Tools.Timeout,
	} {
		if val == "" {
			continue
		}
		if _, err := time.ParseDuration(val); err != nil {
			return errors.Errorf("invalid %s: %q", name, val)
		}
	}
	return c.LLM.Validate()
}

// Duration returns the parsed duration, or zero if empty
func Duration(val string) time.Duration {
	d, _ := time.ParseDuration(val)
	return d
}

// ConfigureLogger sets the global log level and formatter
func (c *LogsConfig) ConfigureLogger() {
	if c.Format == "json" {
		xlog.SetFormatter(xlog.NewJSONFormatter(os.Stderr))
	} else {
		xlog.SetFormatter(xlog.NewStringFormatter(os.Stderr))
	}
	if lvl, ok := logLevels[c.Level]; ok {
		xlog.SetGlobalLogLevel(lvl)
	}
}

var logLevels = map[string]xlog.LogLevel{
	"TRACE":    xlog.TRACE,
	"DEBUG":    xlog.DEBUG,
	"INFO":     xlog.INFO,
	"NOTICE":   xlog.NOTICE,
	"WARNING":  xlog.WARNING,
	"ERROR":    xlog.ERROR,
	"CRITICAL": xlog.CRITICAL,
}
