package localstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/carris-ui/carris/internal/logging"
)

// Settings is the content of config.toml.
type Settings struct {
	Configured int    `toml:"configured"`
	HomeStop   string `toml:"home_stop,omitempty"`
}

// LoadSettings reads config.toml. A missing file yields zero Settings.
func (s *Store) LoadSettings() (Settings, error) {
	var settings Settings
	path := s.SettingsPath()
	if _, err := toml.DecodeFile(path, &settings); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Settings{}, nil
		}
		return Settings{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	return settings, nil
}

// SaveSettings marks the installation as configured and writes config.toml,
// creating the config directory if needed.
func (s *Store) SaveSettings(settings Settings) (err error) {
	settings.Configured = 1

	if err := os.MkdirAll(s.dirs.ConfigDir, 0o755); err != nil {
		return fmt.Errorf("create config dir %s: %w", s.dirs.ConfigDir, err)
	}

	path := s.SettingsPath()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create settings %s: %w", path, err)
	}
	defer logging.HandleDeferredError(&err, f.Close, s.logger, "close_settings_file")

	if err := toml.NewEncoder(f).Encode(settings); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}
