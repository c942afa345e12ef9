package types

import "errors"

// Release channels. Every index entry and archive name belongs to exactly
// one channel.
const (
	ChannelMain = "main"
	ChannelDev  = "dev"
)

// Package kinds recognized by the indexer.
const (
	KindIntegration = "integration"
	KindPlatform    = "platform"
)

// Config validation errors.
var (
	ErrPackagesDirEmpty = errors.New("packages_dir must not be empty")
	ErrIndexDirEmpty    = errors.New("index_dir must not be empty")
	ErrSourceNameEmpty  = errors.New("source name must not be empty")
	ErrSourcePathEmpty  = errors.New("source path must not be empty")
	ErrChannelUnknown   = errors.New("unknown channel")
	ErrKindUnknown      = errors.New("unknown package kind")
)

// Source describes one core repository checkout whose version is tracked
// in the index.
type Source struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Path string `json:"path" yaml:"path" mapstructure:"path"`
	URL  string `json:"url,omitempty" yaml:"url,omitempty" mapstructure:"url"`
}

// Remote identifies the git remote and branch that publish targets.
type Remote struct {
	Name   string `yaml:"name" mapstructure:"name"`
	Branch string `yaml:"branch" mapstructure:"branch"`
}

// Mirror holds SFTP settings for the artifact mirror. An empty Host
// disables mirroring.
type Mirror struct {
	Host       string `yaml:"host" mapstructure:"host"`
	Port       int    `yaml:"port,omitempty" mapstructure:"port"`
	User       string `yaml:"user" mapstructure:"user"`
	KeyPath    string `yaml:"key_path" mapstructure:"key_path"`
	KnownHosts string `yaml:"known_hosts,omitempty" mapstructure:"known_hosts"`
	RemoteDir  string `yaml:"remote_dir" mapstructure:"remote_dir"`
}

// Ignore holds per-kind lists of entry names excluded from archives.
// Empty lists fall back to the built-in defaults.
type Ignore struct {
	Integrations []string `yaml:"integrations,omitempty" mapstructure:"integrations"`
	Platforms    []string `yaml:"platforms,omitempty" mapstructure:"platforms"`
}

// Config holds the full shelf configuration loaded from config.yaml.
type Config struct {
	PackagesDir string   `yaml:"packages_dir" mapstructure:"packages_dir"`
	IndexDir    string   `yaml:"index_dir" mapstructure:"index_dir"`
	DataDir     string   `yaml:"data_dir,omitempty" mapstructure:"data_dir"`
	Sources     []Source `yaml:"sources,omitempty" mapstructure:"sources"`
	Remote      Remote   `yaml:"remote" mapstructure:"remote"`
	Mirror      Mirror   `yaml:"mirror,omitempty" mapstructure:"mirror"`
	Ignore      Ignore   `yaml:"ignore,omitempty" mapstructure:"ignore"`
}

// ValidChannel reports whether name is a recognized release channel.
func ValidChannel(name string) bool {
	return name == ChannelMain || name == ChannelDev
}

// ValidKind reports whether name is a recognized package kind.
func ValidKind(name string) bool {
	return name == KindIntegration || name == KindPlatform
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.PackagesDir == "" {
		return ErrPackagesDirEmpty
	}
	if c.IndexDir == "" {
		return ErrIndexDirEmpty
	}
	for _, s := range c.Sources {
		if s.Name == "" {
			return ErrSourceNameEmpty
		}
		if s.Path == "" {
			return ErrSourcePathEmpty
		}
	}
	return nil
}
