package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingPipe is returned when a required pipe variable is not set
var ErrMissingPipe = errors.New("pipe environment variable is not set")

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string `yaml:"project_path"`

	// Reporting endpoint
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	UUID string `yaml:"-"`

	// Pipe endpoints used by the execution adapter
	RunPipe     string `yaml:"-"`
	TestIDsPipe string `yaml:"-"`

	// Tree settings
	FolderKey string `yaml:"folder_key"`

	// Output settings
	StorageDir string `yaml:"storage_dir"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Command flags
	Flags Flags `yaml:"-"`
}

// Flags holds command-line flags
type Flags struct {
	ConfigFile string
	Project    string
	LogLevel   string
	Input      string
	Filter     string
	Print      bool
	UsePipe    bool
	NewUUID    bool
	Keep       bool
	NoProgress bool
	Port       int
	Listen     string
}

// New creates a new Config with defaults
func New() *Config {
	return &Config{
		ProjectPath: DefaultProjectPath,
		Host:        DefaultHost,
		Port:        DefaultPort,
		FolderKey:   DefaultFolderKey,
		StorageDir:  DefaultStorageDir,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
	}
}

// Load creates a config from defaults, the optional config file, the project's
// .env file and the process environment, then applies flags
func Load(flags Flags) (*Config, error) {
	cfg := New()
	cfg.Flags = flags

	if flags.ConfigFile != "" {
		if err := cfg.LoadFile(flags.ConfigFile); err != nil {
			return nil, err
		}
	}
	if flags.Project != "" {
		cfg.ProjectPath = flags.Project
	}

	// .env might not exist, real environment variables still apply
	_ = godotenv.Load(filepath.Join(cfg.ProjectPath, ".env"))
	cfg.ApplyEnv(os.Getenv)

	if flags.Port > 0 {
		cfg.Port = flags.Port
	}
	if flags.LogLevel != "" {
		cfg.LogLevel = flags.LogLevel
	}
	return cfg, nil
}

// LoadFile merges a YAML config file into c
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv reads the adapter's environment variables through getenv
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvPort); v != "" {
		c.Port = ParsePort(v)
	}
	c.UUID = getenv(EnvUUID)
	c.RunPipe = getenv(EnvRunPipe)
	c.TestIDsPipe = getenv(EnvTestIDsPipe)
}

// ParsePort parses a TCP port, falling back to DefaultPort
func ParsePort(s string) int {
	port, err := strconv.Atoi(s)
	if err != nil || port <= 0 || port > 65535 {
		return DefaultPort
	}
	return port
}

// Address returns host:port of the reporting endpoint
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RequirePipe fails when the named pipe variable is empty
func RequirePipe(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s", ErrMissingPipe, name)
	}
	return nil
}

// GetStoragePath returns the path of a file in the storage directory.
// Resolves to an absolute path so discover, execute and view share the same files regardless of cwd.
func (c *Config) GetStoragePath(name string) string {
	p := filepath.Join(c.ProjectPath, c.StorageDir, name)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetCWD returns the absolute project path reported in payloads
func (c *Config) GetCWD() string {
	if abs, err := filepath.Abs(c.ProjectPath); err == nil {
		return abs
	}
	return c.ProjectPath
}
