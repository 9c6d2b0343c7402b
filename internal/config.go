package internal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"vox/internal/tokens"
)

const (
	maxFunctionParams = 8
	maxCallDepth      = 1024
	maxNesting        = 512
)

var defaultSynchronizing = []tokens.TokenType{
	tokens.LEFT_BRACE,
	tokens.RIGHT_BRACE,
	tokens.RIGHT_BRACKET,
	tokens.RIGHT_PAREN,
	tokens.EQUAL,
	tokens.SEMICOLON,
}

// Config holds the tunables of the parser and the interpreter
type Config struct {
	MaxParameters int      `yaml:"max_parameters"`
	MaxArguments  int      `yaml:"max_arguments"`
	MaxCallDepth  int      `yaml:"max_call_depth"`
	MaxNesting    int      `yaml:"max_nesting"`
	Synchronizing []string `yaml:"synchronizing"`
	LogLevel      string   `yaml:"log_level"`

	synchronizing map[tokens.TokenType]bool
	level         logrus.Level
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	names := make([]string, len(defaultSynchronizing))
	for i, tk := range defaultSynchronizing {
		names[i] = tk.String()
	}
	cfg := &Config{
		MaxParameters: maxFunctionParams,
		MaxArguments:  maxFunctionParams,
		MaxCallDepth:  maxCallDepth,
		MaxNesting:    maxNesting,
		Synchronizing: names,
		LogLevel:      logrus.WarnLevel.String(),
	}
	if err := cfg.validate(); err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig reads a yaml configuration, missing keys keep their defaults
func LoadConfig(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	// an empty file is all defaults
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", abs, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", abs, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.MaxParameters <= 0 {
		return fmt.Errorf("max_parameters must be positive, got %d", c.MaxParameters)
	}
	if c.MaxArguments <= 0 {
		return fmt.Errorf("max_arguments must be positive, got %d", c.MaxArguments)
	}
	if c.MaxCallDepth <= 0 {
		return fmt.Errorf("max_call_depth must be positive, got %d", c.MaxCallDepth)
	}
	if c.MaxNesting <= 0 {
		return fmt.Errorf("max_nesting must be positive, got %d", c.MaxNesting)
	}
	c.synchronizing = make(map[tokens.TokenType]bool, len(c.Synchronizing))
	for _, name := range c.Synchronizing {
		tk, ok := tokens.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown synchronizing token %q", name)
		}
		c.synchronizing[tk] = true
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	c.level = level
	return nil
}

// Level is the parsed log level
func (c *Config) Level() logrus.Level {
	return c.level
}

func (c *Config) synchronizes(tk tokens.TokenType) bool {
	return c.synchronizing[tk]
}
