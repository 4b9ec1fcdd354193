package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type ScanConfig struct {
	MaxFileSize     int64    `yaml:"max_file_size"`
	MaxQueueSize    int      `yaml:"max_queue_size"`
	WorkerCount     int      `yaml:"worker_count"`
	RateLimit       int      `yaml:"rate_limit"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

type WatcherConfig struct {
	Enabled        bool          `yaml:"enabled"`
	Roots          []string      `yaml:"roots"`
	DebounceWindow time.Duration `yaml:"debounce_window"`
	MaxBatchSize   int           `yaml:"max_batch_size"`
	IgnorePatterns []string      `yaml:"ignore_patterns"`
	WatchHidden    bool          `yaml:"watch_hidden"`
}

type ValidateConfig struct {
	ReadmeSections  []string `yaml:"readme_sections"`
	AgentsSections  []string `yaml:"agents_sections"`
	MemorySections  []string `yaml:"memory_sections"`
	MemoryMaxBytes  int64    `yaml:"memory_max_bytes"`
	VocabularyFile  string   `yaml:"vocabulary_file"`
	DenyListStrings []string `yaml:"deny_list_strings"`
}

type Config struct {
	BaseDir      string         `yaml:"-"`
	InstanceDir  string         `yaml:"-"`
	SocketPath   string         `yaml:"-"`
	DatabasePath string         `yaml:"database_path"`
	LogLevel     string         `yaml:"log_level"`
	LogFormat    string         `yaml:"log_format"`
	Scan         ScanConfig     `yaml:"scan"`
	Watcher      WatcherConfig  `yaml:"watcher"`
	Validate     ValidateConfig `yaml:"validate"`
}

var defaultExcludes = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/vendor/**",
	"**/__pycache__/**",
	"**/dist/**",
	"**/build/**",
	"**/target/**",
}

func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	baseDir := filepath.Join(homeDir, ".aget")

	return &Config{
		BaseDir:      baseDir,
		SocketPath:   filepath.Join(baseDir, "daemon.sock"),
		DatabasePath: filepath.Join(baseDir, "findings.db"),
		LogLevel:     "info",
		LogFormat:    "text",
		Scan: ScanConfig{
			MaxFileSize:     10 * 1024 * 1024,
			MaxQueueSize:    1000,
			WorkerCount:     2,
			RateLimit:       100,
			ExcludePatterns: defaultExcludes,
		},
		Watcher: WatcherConfig{
			Enabled:        true,
			DebounceWindow: 300 * time.Millisecond,
			MaxBatchSize:   100,
			IgnorePatterns: append([]string{"**/*.log", "**/.idea/**", "**/.venv/**"}, defaultExcludes...),
			WatchHidden:    false,
		},
		Validate: ValidateConfig{
			ReadmeSections: []string{"Overview", "Installation", "Usage"},
			AgentsSections: []string{"Purpose", "Capabilities"},
			MemorySections: []string{"Context"},
			MemoryMaxBytes: 64 * 1024,
			VocabularyFile: filepath.Join(baseDir, "vocabulary.yaml"),
		},
	}
}

// Load returns the defaults overlaid with ~/.aget/config.yaml when that
// file exists.
func Load() (*Config, error) {
	cfg := Default()

	path := filepath.Join(cfg.BaseDir, "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadWithInstance resolves per-instance runtime paths so concurrent MCP
// clients never share a socket.
func LoadWithInstance(instanceID string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	cfg.InstanceDir = filepath.Join(cfg.BaseDir, "instances", instanceID)
	cfg.SocketPath = filepath.Join(cfg.InstanceDir, "daemon.sock")

	return cfg, nil
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.BaseDir}
	if c.InstanceDir != "" {
		dirs = append(dirs, c.InstanceDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}
