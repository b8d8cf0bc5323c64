package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config file names, in lookup order.
var ConfigFileNames = []string{"leapdb.yaml", "leapdb.yml", "leapdb.toml"}

// Parser returns the koanf parser for path, chosen by extension.
func Parser(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return toml.Parser()
	}
	return yaml.Parser()
}

// LoadFromDir loads the connection directory from dir.
// Returns nil, nil if no config file is found (not an error condition).
func LoadFromDir(dir string) (*Directory, error) {
	configPath := FindConfigFile(dir)
	if configPath == "" {
		return nil, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(configPath), Parser(configPath)); err != nil {
		return nil, err
	}

	var d Directory
	if err := k.Unmarshal("", &d); err != nil {
		return nil, err
	}
	for i := range d.Connections {
		ApplyConnectionDefaults(&d.Connections[i])
	}
	return &d, nil
}

// FindConfigFile returns the config file in dir, or "" if there is none.
func FindConfigFile(dir string) string {
	for _, name := range ConfigFileNames {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// FindProjectRoot walks up from startDir to the first directory holding a
// config file. Returns empty string if not found.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for {
		if FindConfigFile(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
