package domain

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"objdiff.dev/pkg/objdiff/internal/adapter"
	m "objdiff.dev/pkg/objdiff/internal/model"
)

// ConfigFileNames lists the recognised project file names in lookup order.
var ConfigFileNames = []string{"objdiff.yml", "objdiff.yaml", "objdiff.json"}

// Format is a project file serialization format.
type Format int

// Supported project file formats.
const (
	FormatYAML Format = iota
	FormatJSON
)

func (f Format) String() string {
	if f == FormatJSON {
		return "json"
	}

	return "yaml"
}

// FormatForFile picks the decoder for a project file by its name.
func FormatForFile(name string) Format {
	if strings.Contains(filepath.Base(name), "json") {
		return FormatJSON
	}

	return FormatYAML
}

// rawProjectConfig mirrors the on-disk layout before defaults are applied.
type rawProjectConfig struct {
	MinVersion    string            `yaml:"min_version" json:"min_version"`
	CustomMake    string            `yaml:"custom_make" json:"custom_make"`
	TargetDir     m.Path            `yaml:"target_dir" json:"target_dir"`
	BaseDir       m.Path            `yaml:"base_dir" json:"base_dir"`
	BuildTarget   *bool             `yaml:"build_target" json:"build_target"`
	BuildBase     *bool             `yaml:"build_base" json:"build_base"`
	WatchPatterns []string          `yaml:"watch_patterns" json:"watch_patterns"`
	Objects       []m.ProjectObject `yaml:"objects" json:"objects"`
	Units         []m.ProjectObject `yaml:"units" json:"units"`
}

// keyPresence records which object-list keys a document used.
type keyPresence struct {
	Objects bool
	Units   bool
}

// ParseConfig decodes a project file. Decoding is all-or-nothing: on error the
// returned configuration is the zero value. Keys are matched exactly and
// unknown keys are ignored.
func ParseConfig(r io.Reader, format Format) (m.ProjectConfig, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return m.ProjectConfig{}, fmt.Errorf("failed to read project config: %w", err)
	}

	var (
		raw      rawProjectConfig
		presence keyPresence
	)

	switch format {
	case FormatJSON:
		if raw, presence, err = decodeJSONConfig(data); err != nil {
			return m.ProjectConfig{}, fmt.Errorf("failed to decode json: %w", err)
		}
	default:
		if raw, presence, err = decodeYAMLConfig(data); err != nil {
			return m.ProjectConfig{}, fmt.Errorf("failed to decode yaml: %w", err)
		}
	}

	return normalizeConfig(raw, presence)
}

// normalizeConfig applies defaults so consumers never check for absence.
func normalizeConfig(raw rawProjectConfig, presence keyPresence) (m.ProjectConfig, error) {
	if presence.Objects && presence.Units {
		return m.ProjectConfig{}, errors.New("duplicate field `objects` (also given as `units`)")
	}

	cfg := m.ProjectConfig{
		MinVersion:    raw.MinVersion,
		CustomMake:    raw.CustomMake,
		TargetDir:     raw.TargetDir,
		BaseDir:       raw.BaseDir,
		BuildTarget:   true,
		BuildBase:     false,
		WatchPatterns: raw.WatchPatterns,
		Objects:       raw.Objects,
	}

	if raw.BuildTarget != nil {
		cfg.BuildTarget = *raw.BuildTarget
	}

	if raw.BuildBase != nil {
		cfg.BuildBase = *raw.BuildBase
	}

	if cfg.WatchPatterns == nil {
		cfg.WatchPatterns = append([]string(nil), m.DefaultWatchPatterns...)
	}

	if presence.Units {
		cfg.Objects = raw.Units
	}

	if cfg.Objects == nil {
		cfg.Objects = []m.ProjectObject{}
	}

	return cfg, nil
}

// Discovery is the outcome of finding a project file. Err is set when the
// file exists but could not be parsed; Info is always populated.
type Discovery struct {
	Config m.ProjectConfig
	Err    error
	Info   m.ProjectConfigInfo
}

// ConfigLoader locates and decodes project files.
type ConfigLoader interface {
	// Discover looks for the first recognised project file in dir. The boolean
	// is false when no candidate exists.
	Discover(dir m.Path) (*Discovery, bool)

	// WriteDefault creates a starter objdiff.yml in dir.
	WriteDefault(dir m.Path) (m.Path, error)
}

type configLoader struct {
	fsAdapter adapter.ConfigFSAdapter
}

// NewConfigLoader constructs a ConfigLoader backed by fsAdapter.
func NewConfigLoader(fsAdapter adapter.ConfigFSAdapter) ConfigLoader {
	return &configLoader{fsAdapter: fsAdapter}
}

func (l *configLoader) Discover(dir m.Path) (*Discovery, bool) {
	for _, name := range ConfigFileNames {
		configPath := dir.Join(m.Path(name))

		file, err := l.fsAdapter.Open(configPath)
		if err != nil {
			continue
		}

		discovery, ok := l.readConfigFile(configPath, file)

		if closeErr := file.Close(); closeErr != nil {
			slog.Warn("Failed to close project config", "path", configPath, "error", closeErr)
		}

		if ok {
			return discovery, true
		}
	}

	slog.Debug("No project config found", "dir", dir)

	return nil, false
}

func (l *configLoader) readConfigFile(configPath m.Path, file fs.File) (*Discovery, bool) {
	info, err := file.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}

	discovery := &Discovery{
		Info: m.ProjectConfigInfo{
			Path:      configPath,
			Timestamp: info.ModTime(),
		},
	}

	cfg, err := ParseConfig(file, FormatForFile(string(configPath)))
	if err != nil {
		slog.Error("Failed to parse project config", "path", configPath, "error", err)
		discovery.Err = &ConfigError{Path: configPath, Err: err}

		return discovery, true
	}

	slog.Debug("Loaded project config", "path", configPath, "objects", len(cfg.Objects))
	discovery.Config = cfg

	return discovery, true
}

func (l *configLoader) WriteDefault(dir m.Path) (m.Path, error) {
	if existing, ok := l.Discover(dir); ok {
		return "", fmt.Errorf("project config already exists: %s", existing.Info.Path)
	}

	cfg := m.ProjectConfig{
		BuildTarget:   true,
		BuildBase:     false,
		WatchPatterns: append([]string(nil), m.DefaultWatchPatterns...),
		Objects:       []m.ProjectObject{},
	}

	content, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to encode project config: %w", err)
	}

	configPath := dir.Join(m.Path(ConfigFileNames[0]))
	if err := l.fsAdapter.CreateExclusive(configPath, content, 0o644); err != nil {
		slog.Error("Failed to write project config", "path", configPath, "error", err)
		return "", fmt.Errorf("failed to write project config: %w", err)
	}

	return configPath, nil
}
