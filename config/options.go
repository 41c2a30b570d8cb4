// Package config loads layered analyzer configuration: an optional
// typewright.yaml file, an optional .env file, process environment
// variables, and CLI flags layered on top by the command that owns them.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "typewright.yaml"

// Options is the recognized configuration surface. Unknown YAML keys are
// ignored rather than rejected, so a config file can carry keys for newer
// or older builds.
type Options struct {
	Quiet      bool   `yaml:"quiet"`
	Debug      bool   `yaml:"debug"`
	PythonPath string `yaml:"pythonpath"`
	CacheDir   string `yaml:"cacheDir"`
}

// Load builds Options from the layered sources: a .env file in the working
// directory (if present), then typewright.yaml (if present), then the
// PYTHONPATH environment variable. Later layers only fill values the
// earlier ones left unset, except PYTHONPATH, which always appends.
func Load(dir string) (*Options, error) {
	// Missing .env is the common case and not an error.
	_ = godotenv.Load(filepath.Join(dir, ".env"))

	opts := &Options{}
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err == nil {
		if err := yaml.Unmarshal(data, opts); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if env := os.Getenv("PYTHONPATH"); env != "" {
		if opts.PythonPath == "" {
			opts.PythonPath = env
		} else {
			opts.PythonPath += string(filepath.ListSeparator) + env
		}
	}
	return opts, nil
}

// SearchPath splits PythonPath on the platform's list separator, dropping
// empty entries.
func (o *Options) SearchPath() []string {
	if o.PythonPath == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(o.PythonPath, string(filepath.ListSeparator)) {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
