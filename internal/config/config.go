package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	MinRoleLevel   int         `toml:"min_role_level"`
	AttachmentsDir string      `toml:"attachments_dir"`
	Mail           MailConfig  `toml:"mail"`
	Users          []UserEntry `toml:"users"`
}

// MailConfig describes the outbound reminder transport. The transport
// itself lives outside this system; these values are handed to whatever
// sender is wired in.
type MailConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	From     string `toml:"from"`
	FromName string `toml:"from_name"`
}

// UserEntry is a static stand-in for the external user directory: it maps
// the opaque user ids referenced by tasks to display names and emails.
type UserEntry struct {
	ID       int64  `toml:"id"`
	FullName string `toml:"full_name"`
	Email    string `toml:"email"`
}

func DefaultConfig() *Config {
	dir, _ := TasktrackDir()
	return &Config{
		MinRoleLevel:   10,
		AttachmentsDir: filepath.Join(dir, "attachments"),
		Mail: MailConfig{
			Port:     587,
			FromName: "Tasktrack",
		},
	}
}

func TasktrackDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".tasktrack"), nil
}

func ConfigPath() (string, error) {
	dir, err := TasktrackDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func DatabasePath() (string, error) {
	dir, err := TasktrackDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "db", "tasktrack.sqlite"), nil
}

func ErrorLogPath() (string, error) {
	dir, err := TasktrackDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "errors.log"), nil
}

func EnsureDirectories() error {
	dir, err := TasktrackDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(dir, "db"), 0755); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(dir, "attachments"), 0755)
}

func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	// First run: write the defaults so the user has a file to edit.
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := EnsureDirectories(); err != nil {
			return nil, err
		}
		if err := Save(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	cfg.AttachmentsDir = expandPath(cfg.AttachmentsDir)

	return cfg, nil
}

func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}

// LookupUser resolves a user id against the configured directory entries.
func (c *Config) LookupUser(id int64) (UserEntry, bool) {
	for _, u := range c.Users {
		if u.ID == id {
			return u, true
		}
	}
	return UserEntry{}, false
}
