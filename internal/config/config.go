package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// Path Finder
	PathfinderBaseURL string `yaml:"pathfinder_base_url"`
	PathfinderToken   string `yaml:"pathfinder_token"`

	// SFTP
	SFTPHost                  string `yaml:"sftp_host"`
	SFTPPort                  int    `yaml:"sftp_port"`
	SFTPUser                  string `yaml:"sftp_user"`
	SFTPPass                  string `yaml:"sftp_pass"`
	SFTPDir                   string `yaml:"sftp_dir"`
	SFTPKnownHosts            string `yaml:"sftp_known_hosts"`
	SFTPInsecureIgnoreHostKey bool   `yaml:"sftp_insecure_ignore_hostkey"`

	LogLevel string `yaml:"log_level"`
}

func defaults() Config {
	return Config{
		PathfinderBaseURL:         "https://path-finder.apps.buffalo.edu",
		SFTPPort:                  22,
		SFTPDir:                   "/inbound",
		SFTPInsecureIgnoreHostKey: true,
		LogLevel:                  "info",
	}
}

// Load reads the config from the environment.
func Load() Config {
	cfg := defaults()
	applyEnv(&cfg)
	return cfg
}

// LoadFile reads a YAML config file; environment variables still win over it.
// An empty path is the same as Load.
func LoadFile(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.PathfinderBaseURL = getenv("PATHFINDER_BASE_URL", cfg.PathfinderBaseURL)
	cfg.PathfinderToken = getenv("PATHFINDER_TOKEN", cfg.PathfinderToken)

	cfg.SFTPHost = getenv("SFTP_HOST", cfg.SFTPHost)
	cfg.SFTPPort = getenvInt("SFTP_PORT", cfg.SFTPPort)
	cfg.SFTPUser = getenv("SFTP_USER", cfg.SFTPUser)
	cfg.SFTPPass = getenv("SFTP_PASS", cfg.SFTPPass)
	cfg.SFTPDir = getenv("SFTP_DIR", cfg.SFTPDir)
	cfg.SFTPKnownHosts = getenv("SFTP_KNOWN_HOSTS", cfg.SFTPKnownHosts)
	cfg.SFTPInsecureIgnoreHostKey = getenvBool("SFTP_INSECURE_IGNORE_HOSTKEY", cfg.SFTPInsecureIgnoreHostKey)

	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
