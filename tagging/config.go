package tagging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/lewtec/pngtag/internal/metaedit"
)

type Config struct {
	// DefaultFolder is scanned when no folder is given and bare file names are resolved against it
	DefaultFolder string `yaml:"default_folder"`
	// Policy decides how a write composes with an existing key
	Policy metaedit.Policy `yaml:"policy"`
	// Journal is the edit journal database. Empty disables journaling.
	Journal string `yaml:"journal"`
}

// DefaultConfigPath returns <user config dir>/pngtag/config.yaml
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("while finding the user config directory: %w", err)
	}
	return filepath.Join(dir, "pngtag", "config.yaml"), nil
}

// DefaultConfig is the configuration used when filename does not exist yet.
// The journal lives next to the config file.
func DefaultConfig(filename string) *Config {
	return &Config{
		Policy:  metaedit.Replace,
		Journal: filepath.Join(filepath.Dir(filename), "journal.db"),
	}
}

func LoadConfig(filename string) (*Config, error) {
	ret := DefaultConfig(filename)
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return ret, nil
	}
	if err != nil {
		return nil, ioErr("read config", filename, err)
	}
	err = yaml.Unmarshal(data, ret)
	if err != nil {
		return nil, fmt.Errorf("while parsing config '%s': %w", filename, err)
	}
	return ret, nil
}

// SaveConfig writes the configuration atomically, creating its directory if needed
func SaveConfig(filename string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("while serializing config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return ioErr("create config directory", filepath.Dir(filename), err)
	}
	return writeFileAtomic(filename, data, 0o644)
}

// SetDefaultFolder validates folder and stores its absolute path
func (c *Config) SetDefaultFolder(folder string) error {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return ioErr("resolve", folder, err)
	}
	stat, err := os.Stat(abs)
	if err != nil {
		return ioErr("stat", abs, err)
	}
	if !stat.IsDir() {
		return fmt.Errorf("'%s' is not a directory", abs)
	}
	c.DefaultFolder = abs
	return nil
}

// Resolve turns a file argument into an absolute path. Bare file names are
// looked up in the default folder when one is configured.
func (c *Config) Resolve(name string) (string, error) {
	return ResolvePath(c.DefaultFolder, name)
}

// ResolvePath joins bare file names (no directory part) to defaultFolder.
// Everything else is resolved against the working directory.
func ResolvePath(defaultFolder, name string) (string, error) {
	if name == "" {
		return "", errors.New("empty file name")
	}
	if defaultFolder != "" && !filepath.IsAbs(name) && filepath.Base(name) == name {
		name = filepath.Join(defaultFolder, name)
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", ioErr("resolve", name, err)
	}
	return abs, nil
}

// Folder returns folder as an absolute path, falling back to the default folder
func (c *Config) Folder(folder string) (string, error) {
	if folder == "" {
		folder = c.DefaultFolder
	}
	if folder == "" {
		return "", errors.New("no folder given and no default folder configured (hint: pngtag config set-folder <dir>)")
	}
	abs, err := filepath.Abs(folder)
	if err != nil {
		return "", ioErr("resolve", folder, err)
	}
	return abs, nil
}
