package jkitenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Environment variable names
const (
	JkitRootEnvKey = "JKIT_ROOT"
	JkitDirEnvKey  = "JKIT_DIR"
	EnvPrefix      = "JKIT"
)

// Directory and file names
const (
	JkitDirName    = ".jkit"
	ConfigFileName = "config.yml"
)

// DefaultTargetDir is the in-image directory the application is copied to.
const DefaultTargetDir = "/deployments"

// Env holds the resolved JKIT_ROOT, JKIT_DIR and the effective configuration
// (defaults < .jkit/config.yml < JKIT_* environment variables).
type Env struct {
	JkitRoot   string // Resolved JKIT_ROOT (project directory)
	JkitDir    string // Resolved JKIT_DIR (typically $JKIT_ROOT/.jkit)
	ConfigFile string // Loaded config file, empty when none exists
	Version    int
	Mapping    Mapping
	Generator  Generator
	Logging    Logging
}

// Mapping configures the kind-to-filename override document.
type Mapping struct {
	Path     string `yaml:"path,omitempty" mapstructure:"path"`         // Override document (env JKIT_MAPPING)
	Optional bool   `yaml:"optional,omitempty" mapstructure:"optional"` // Missing document is not an error
}

// Generator configures the Java exec image generator.
type Generator struct {
	Name               string `yaml:"name,omitempty" mapstructure:"name"`
	MainClass          string `yaml:"mainClass,omitempty" mapstructure:"mainClass"`
	From               string `yaml:"from,omitempty" mapstructure:"from"`
	TargetDir          string `yaml:"targetDir,omitempty" mapstructure:"targetDir"`
	FailOnUndetermined bool   `yaml:"failOnUndetermined,omitempty" mapstructure:"failOnUndetermined"`
}

// Logging represents the logging configuration from .jkit/config.yml
type Logging struct {
	Dir           string `yaml:"dir,omitempty" mapstructure:"dir"`                     // Log directory (default: $JKIT_DIR/logs)
	Format        string `yaml:"format,omitempty" mapstructure:"format"`               // Log format: human (default), text, json
	Level         string `yaml:"level,omitempty" mapstructure:"level"`                 // Log level: DEBUG, INFO (default), WARN, ERROR
	Output        string `yaml:"output,omitempty" mapstructure:"output"`               // "-" (default) for stderr, "none", "" for a file in Dir, or a path
	RetentionDays int    `yaml:"retentionDays,omitempty" mapstructure:"retentionDays"` // Days to retain log files (default: 7)
}

// configFile represents the structure of .jkit/config.yml
type configFile struct {
	Version   int       `yaml:"version" mapstructure:"version"`
	Mapping   Mapping   `yaml:"mapping,omitempty" mapstructure:"mapping"`
	Generator Generator `yaml:"generator,omitempty" mapstructure:"generator"`
	Logging   Logging   `yaml:"logging,omitempty" mapstructure:"logging"`
}

func defaultConfig() configFile {
	return configFile{
		Version:   1,
		Generator: Generator{TargetDir: DefaultTargetDir},
		Logging:   Logging{Format: "human", Level: "INFO", Output: "-", RetentionDays: 7},
	}
}

// Resolve discovers JKIT_ROOT and JKIT_DIR, then loads the configuration.
//
// Resolution order for JKIT_ROOT:
//  1. jkitRoot parameter (from --jkit-root flag or JKIT_ROOT env)
//  2. Upward search from workDir for a parent containing .jkit/
//  3. workDir itself
//
// Resolution order for JKIT_DIR:
//  1. jkitDir parameter (from --jkit-dir flag or JKIT_DIR env)
//  2. Default: $JKIT_ROOT/.jkit
//
// Unlike JKIT_ROOT, a missing JKIT_DIR is not an error: defaults and
// environment variables still apply.
func Resolve(jkitRoot, jkitDir, workDir string) (*Env, error) {
	if jkitRoot == "" {
		found, err := searchForJkitRoot(workDir)
		if err != nil {
			return nil, fmt.Errorf("searching for %s directory: %w", JkitDirName, err)
		}
		if found == "" {
			found = workDir
		}
		jkitRoot = found
	}

	var err error
	jkitRoot, err = filepath.Abs(jkitRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving JKIT_ROOT to absolute path: %w", err)
	}
	jkitRoot = filepath.Clean(jkitRoot)

	info, err := os.Stat(jkitRoot)
	if err != nil {
		return nil, fmt.Errorf("JKIT_ROOT %q does not exist: %w", jkitRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("JKIT_ROOT %q is not a directory", jkitRoot)
	}

	if jkitDir == "" {
		jkitDir = filepath.Join(jkitRoot, JkitDirName)
	}
	jkitDir, err = filepath.Abs(jkitDir)
	if err != nil {
		return nil, fmt.Errorf("resolving JKIT_DIR to absolute path: %w", err)
	}
	jkitDir = filepath.Clean(jkitDir)
	if info, err := os.Stat(jkitDir); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("JKIT_DIR %q is not a directory", jkitDir)
	}

	env := &Env{JkitRoot: jkitRoot, JkitDir: jkitDir}
	if err := env.load(); err != nil {
		return nil, err
	}
	return env, nil
}

// searchForJkitRoot searches upward from startDir for a parent containing .jkit directory.
// Returns the parent directory (not .jkit itself) or empty string if not found.
func searchForJkitRoot(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving start directory: %w", err)
	}

	current := absDir
	for {
		info, err := os.Stat(filepath.Join(current, JkitDirName))
		if err == nil && info.IsDir() {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", nil
		}
		current = parent
	}
}

// newViper returns a viper instance carrying the defaults and the JKIT_*
// environment bindings. Every key has a default so AutomaticEnv sees it.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	d := defaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("mapping.path", d.Mapping.Path)
	v.SetDefault("mapping.optional", d.Mapping.Optional)
	v.SetDefault("generator.name", d.Generator.Name)
	v.SetDefault("generator.mainClass", d.Generator.MainClass)
	v.SetDefault("generator.from", d.Generator.From)
	v.SetDefault("generator.targetDir", d.Generator.TargetDir)
	v.SetDefault("generator.failOnUndetermined", d.Generator.FailOnUndetermined)
	v.SetDefault("logging.dir", d.Logging.Dir)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("logging.retentionDays", d.Logging.RetentionDays)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("mapping.path", "JKIT_MAPPING", "JKIT_MAPPING_PATH"); err != nil {
		return nil, err
	}
	return v, nil
}

// load reads $JKIT_DIR/config.yml when present and applies environment overrides.
func (e *Env) load() error {
	v, err := newViper()
	if err != nil {
		return fmt.Errorf("configuring environment bindings: %w", err)
	}

	configPath := filepath.Join(e.JkitDir, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("parsing config file %q: %w", configPath, err)
		}
		e.ConfigFile = configPath
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading config file %q: %w", configPath, err)
	}

	var cf configFile
	if err := v.Unmarshal(&cf); err != nil {
		return fmt.Errorf("decoding configuration: %w", err)
	}

	e.Version = cf.Version
	e.Mapping = cf.Mapping
	e.Generator = cf.Generator
	e.Logging = cf.Logging
	e.Mapping.Path = e.ResolvePath(e.Mapping.Path)
	e.Logging.Dir = e.ResolvePath(e.Logging.Dir)
	if e.Logging.Dir == "" {
		e.Logging.Dir = filepath.Join(e.JkitDir, "logs")
	}
	return nil
}

// ExpandVars replaces $JKIT_ROOT and $JKIT_DIR in the given string.
func (e *Env) ExpandVars(s string) string {
	s = strings.ReplaceAll(s, "$JKIT_ROOT", e.JkitRoot)
	s = strings.ReplaceAll(s, "$JKIT_DIR", e.JkitDir)
	return s
}

// ResolvePath expands variables in p and makes it absolute against JKIT_ROOT.
// An empty p stays empty.
func (e *Env) ResolvePath(p string) string {
	if p == "" {
		return ""
	}
	p = e.ExpandVars(p)
	if !filepath.IsAbs(p) {
		p = filepath.Join(e.JkitRoot, p)
	}
	return filepath.Clean(p)
}

// IsWithinBoundary checks if the given path is within JKIT_ROOT or JKIT_DIR.
// The path should be an absolute path (already resolved).
func (e *Env) IsWithinBoundary(path string) bool {
	cleanPath := filepath.Clean(path)
	for _, base := range []string{e.JkitRoot, e.JkitDir} {
		rel, err := filepath.Rel(base, cleanPath)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// InitialConfigYAML generates the initial .jkit/config.yml content as YAML bytes.
// The generated YAML has proper field ordering and 2-space indentation.
func InitialConfigYAML() ([]byte, error) {
	cf := defaultConfig()
	cf.Logging = Logging{}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&cf); err != nil {
		return nil, fmt.Errorf("encoding default config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("closing yaml encoder: %w", err)
	}
	return []byte(buf.String()), nil
}
