package localstore

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName is the directory created under the XDG cache and config homes.
const AppName = "carris-ui"

const (
	StopsFileName    = "all_stops.json"
	SettingsFileName = "config.toml"
)

// Dirs are the directories a Store reads and writes.
type Dirs struct {
	CacheDir  string
	ConfigDir string
}

// DefaultDirs resolves $XDG_CACHE_HOME/carris-ui and $XDG_CONFIG_HOME/carris-ui
// (or the platform equivalents).
func DefaultDirs() Dirs {
	return Dirs{
		CacheDir:  filepath.Join(xdg.CacheHome, AppName),
		ConfigDir: filepath.Join(xdg.ConfigHome, AppName),
	}
}

// WithDefaults fills empty fields from DefaultDirs.
func (d Dirs) WithDefaults() Dirs {
	def := DefaultDirs()
	if d.CacheDir == "" {
		d.CacheDir = def.CacheDir
	}
	if d.ConfigDir == "" {
		d.ConfigDir = def.ConfigDir
	}
	return d
}
