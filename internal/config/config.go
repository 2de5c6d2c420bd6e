// Package config holds the configuration structures for the ampd server.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/madeindigio/remembrances-mcp/pkg/version"
)

// Config holds the configuration for the ampd server.
type Config struct {
	// MCPStreamableHTTP enables MCP over Streamable HTTP transport.
	MCPStreamableHTTP         bool   `mapstructure:"mcp-http"`
	MCPStreamableHTTPAddr     string `mapstructure:"mcp-http-addr"`
	MCPStreamableHTTPEndpoint string `mapstructure:"mcp-http-endpoint"`

	HTTP     bool   `mapstructure:"http"`
	HTTPAddr string `mapstructure:"http-addr"`

	SurrealDBURL       string `mapstructure:"surrealdb-url"`
	SurrealDBUser      string `mapstructure:"surrealdb-user"`
	SurrealDBPass      string `mapstructure:"surrealdb-pass"`
	SurrealDBNamespace string `mapstructure:"surrealdb-namespace"`
	SurrealDBDatabase  string `mapstructure:"surrealdb-database"`

	// Query execution bounds (§5 of the retrieval engine).
	QueryDeadlineMs   int `mapstructure:"query-deadline-ms"`
	ArmSoftCapMs      int `mapstructure:"arm-soft-cap-ms"`
	GraphStepTimeoutMs int `mapstructure:"graph-step-timeout-ms"`

	// Fusion weights (§4.8). Must sum to <= 1; validated at startup.
	WeightVector float64 `mapstructure:"weight-vector"`
	WeightText   float64 `mapstructure:"weight-text"`
	WeightGraph  float64 `mapstructure:"weight-graph"`

	// Autoseed / traversal bounds (§4.4, §4.5).
	AutoseedTopK   int `mapstructure:"autoseed-topk"`
	CollectNodeCap int `mapstructure:"collect-node-cap"`
	AllPathsCap    int `mapstructure:"allpaths-cap"`

	// EmbeddingProvider selects the vector arm's text-to-vector adapter:
	// "openai", "ollama", "openrouter", or "" to disable the vector arm.
	EmbeddingProvider string `mapstructure:"embedding-provider"`

	OllamaURL   string `mapstructure:"ollama-url"`
	OllamaModel string `mapstructure:"ollama-model"`

	OpenAIKey   string `mapstructure:"openai-key"`
	OpenAIURL   string `mapstructure:"openai-url"`
	OpenAIModel string `mapstructure:"openai-model"`

	OpenRouterKey   string `mapstructure:"openrouter-key"`
	OpenRouterURL   string `mapstructure:"openrouter-url"`
	OpenRouterModel string `mapstructure:"openrouter-model"`

	LogFile          string `mapstructure:"log"`
	DisableOutputLog bool   `mapstructure:"disable-output-log"`
}

// Load loads the configuration from CLI flags, a YAML file, and environment
// variables.
func Load() (*Config, error) {
	pflag.String("config", "", "Path to YAML configuration file")

	pflag.Bool("mcp-http", false, "Enable MCP Streamable HTTP transport")
	pflag.String("mcp-http-addr", "3000", "Port or address to bind MCP Streamable HTTP transport (e.g. 3000 or 127.0.0.1:3000); can also be set via AMPD_MCP_HTTP_ADDR")
	pflag.String("mcp-http-endpoint", "/mcp", "HTTP path for the MCP Streamable HTTP endpoint, can also be set via AMPD_MCP_HTTP_ENDPOINT")

	pflag.Bool("http", false, "Send console logs to stdout instead of stderr; no HTTP JSON API transport is started")
	pflag.String("http-addr", ":8080", "Unused: no HTTP JSON API transport is started; can also be set via AMPD_HTTP_ADDR")

	pflag.String("surrealdb-url", "", "URL for the SurrealDB instance")
	pflag.String("surrealdb-user", "root", "Username for SurrealDB")
	pflag.String("surrealdb-pass", "root", "Password for SurrealDB")
	pflag.String("surrealdb-namespace", "amp", "Namespace for SurrealDB")
	pflag.String("surrealdb-database", "amp", "Database for SurrealDB")

	pflag.Int("query-deadline-ms", 5000, "Global deadline for one hybrid query, in milliseconds")
	pflag.Int("arm-soft-cap-ms", 3000, "Per-arm soft timeout, in milliseconds")
	pflag.Int("graph-step-timeout-ms", 1000, "Per graph-traversal step timeout, in milliseconds")

	pflag.Float64("weight-vector", 0.40, "Fusion weight for the vector arm")
	pflag.Float64("weight-text", 0.30, "Fusion weight for the text arm")
	pflag.Float64("weight-graph", 0.30, "Fusion weight for the graph arm")

	pflag.Int("autoseed-topk", 10, "Number of phase-one results used to seed an autoseeded graph traversal")
	pflag.Int("collect-node-cap", 50, "Node-count cap for a Collect traversal, autoseeded or direct")
	pflag.Int("allpaths-cap", 1000, "Path-count cap for an AllPaths traversal before truncation")

	pflag.String("embedding-provider", "", "Embedding provider for the vector arm: openai, ollama, openrouter, or empty to disable")
	pflag.String("ollama-url", "http://localhost:11434", "URL for the Ollama server")
	pflag.String("ollama-model", "", "Ollama model to use for embeddings")
	pflag.String("openai-key", "", "OpenAI API key")
	pflag.String("openai-url", "https://api.openai.com/v1", "OpenAI base URL")
	pflag.String("openai-model", "text-embedding-3-large", "OpenAI model to use for embeddings")
	pflag.String("openrouter-key", "", "OpenRouter API key")
	pflag.String("openrouter-url", "https://openrouter.ai/api/v1", "OpenRouter base URL")
	pflag.String("openrouter-model", "", "OpenRouter model to use for embeddings")

	pflag.String("log", "", "Path to the log file (logs will be written to both the console and file)")
	pflag.Bool("disable-output-log", false, "Disable logging to stdout/stderr; only write to log file if configured")

	flag.Bool("version", false, "Print version and exit")
	pflag.CommandLine.AddGoFlagSet(flag.CommandLine)
	pflag.Parse()

	if ver := pflag.Lookup("version"); ver != nil && ver.Value.String() == "true" {
		fmt.Println(version.Describe())
		os.Exit(0)
	}

	v := viper.New()

	configPath := pflag.Lookup("config").Value.String()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		configFound := false
		if homeDir, err := os.UserHomeDir(); err == nil {
			var standardConfigPath string
			if runtime.GOOS == "darwin" {
				standardConfigPath = filepath.Join(homeDir, "Library", "Application Support", "ampd", "config.yaml")
			} else {
				standardConfigPath = filepath.Join(homeDir, ".config", "ampd", "config.yaml")
			}
			if _, err := os.Stat(standardConfigPath); err == nil {
				v.SetConfigFile(standardConfigPath)
				if err := v.ReadInConfig(); err == nil {
					configFound = true
					slog.Info("using configuration file from standard location", "path", standardConfigPath)
				}
			}
		}
		if !configFound {
			slog.Info("no configuration file found, using environment variables and defaults")
		}
	}

	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		return nil, fmt.Errorf("failed to bind pflags: %w", err)
	}

	v.SetEnvPrefix("AMPD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.SurrealDBURL == "" {
		return errors.New("a SurrealDB URL must be provided")
	}

	sum := c.WeightVector + c.WeightText + c.WeightGraph
	if sum > 1.0001 {
		return fmt.Errorf("fusion weights must sum to <= 1, got %.4f", sum)
	}

	switch c.EmbeddingProvider {
	case "", "openai", "ollama", "openrouter":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.EmbeddingProvider)
	}

	return nil
}

// GetSurrealDBNamespace returns the SurrealDB namespace.
func (c *Config) GetSurrealDBNamespace() string {
	if c.SurrealDBNamespace == "" {
		return "amp"
	}
	return c.SurrealDBNamespace
}

// GetSurrealDBDatabase returns the SurrealDB database.
func (c *Config) GetSurrealDBDatabase() string {
	if c.SurrealDBDatabase == "" {
		return "amp"
	}
	return c.SurrealDBDatabase
}

// Getenv reads an environment variable or returns a default value.
func Getenv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// SetupLogging configures slog output.
//
// Important: when running MCP over stdio, stdout must be reserved for
// protocol messages. Therefore, console logs default to stderr in stdio
// mode.
func (c *Config) SetupLogging() error {
	var writers []io.Writer

	if !c.DisableOutputLog {
		stdioMode := !c.MCPStreamableHTTP && !c.HTTP
		if stdioMode {
			writers = append(writers, os.Stderr)
		} else {
			writers = append(writers, os.Stdout)
		}
	}

	if c.LogFile != "" {
		logFile, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", c.LogFile, err)
		}
		writers = append(writers, logFile)
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	multiWriter := io.MultiWriter(writers...)
	handler := slog.NewTextHandler(multiWriter, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: false,
	})

	slog.SetDefault(slog.New(handler))
	return nil
}
