package model

import "time"

// DefaultWatchPatterns are used when a project file does not list its own.
var DefaultWatchPatterns = []string{
	"*.c", "*.cp", "*.cpp", "*.cxx", "*.h", "*.hp", "*.hpp", "*.hxx",
	"*.s", "*.S", "*.asm", "*.inc", "*.py", "*.yml", "*.txt", "*.json",
}

// ProjectConfig is the fully normalized contents of a project file.
type ProjectConfig struct {
	MinVersion    string          `yaml:"min_version,omitempty" json:"min_version,omitempty"`
	CustomMake    string          `yaml:"custom_make,omitempty" json:"custom_make,omitempty"`
	TargetDir     Path            `yaml:"target_dir,omitempty" json:"target_dir,omitempty"`
	BaseDir       Path            `yaml:"base_dir,omitempty" json:"base_dir,omitempty"`
	BuildTarget   bool            `yaml:"build_target" json:"build_target"`
	BuildBase     bool            `yaml:"build_base" json:"build_base"`
	WatchPatterns []string        `yaml:"watch_patterns" json:"watch_patterns"`
	Objects       []ProjectObject `yaml:"objects" json:"objects"`
}

// ProjectObject is one comparable unit: an object file built once for the
// target side and once for the base side.
type ProjectObject struct {
	Name           string         `yaml:"name,omitempty" json:"name,omitempty"`
	Path           Path           `yaml:"path,omitempty" json:"path,omitempty"`
	TargetPath     Path           `yaml:"target_path,omitempty" json:"target_path,omitempty"`
	BasePath       Path           `yaml:"base_path,omitempty" json:"base_path,omitempty"`
	ReverseFnOrder *bool          `yaml:"reverse_fn_order,omitempty" json:"reverse_fn_order,omitempty"`
	Complete       *bool          `yaml:"complete,omitempty" json:"complete,omitempty"`
	Scratch        *ScratchConfig `yaml:"scratch,omitempty" json:"scratch,omitempty"`
}

// DisplayName returns the explicit name, then the declared path, then a
// placeholder.
func (o ProjectObject) DisplayName() string {
	switch {
	case o.Name != "":
		return o.Name
	case o.Path.IsSet():
		return o.Path.String()
	default:
		return "[unknown]"
	}
}

// SidePath returns the resolved path for side, empty when unresolved.
func (o ProjectObject) SidePath(side Side) Path {
	if side == SideBase {
		return o.BasePath
	}

	return o.TargetPath
}

// IsComplete reports whether the object is marked as fully matched.
func (o ProjectObject) IsComplete() bool {
	return o.Complete != nil && *o.Complete
}

// ScratchConfig describes the scratch compile environment tied to an object.
type ScratchConfig struct {
	Platform string `yaml:"platform,omitempty" json:"platform,omitempty"`
	Compiler string `yaml:"compiler,omitempty" json:"compiler,omitempty"`
	CFlags   string `yaml:"c_flags,omitempty" json:"c_flags,omitempty"`
	CtxPath  Path   `yaml:"ctx_path,omitempty" json:"ctx_path,omitempty"`
	BuildCtx bool   `yaml:"build_ctx,omitempty" json:"build_ctx,omitempty"`
}

// Equal reports whether both scratch configurations are identical. Two nil
// configurations are equal.
func (s *ScratchConfig) Equal(other *ScratchConfig) bool {
	if s == nil || other == nil {
		return s == other
	}

	return *s == *other
}

// ProjectConfigInfo identifies the project file a configuration came from.
type ProjectConfigInfo struct {
	Path      Path
	Timestamp time.Time
}

// Changed reports whether other describes a different file or a newer
// modification than info.
func (info ProjectConfigInfo) Changed(other ProjectConfigInfo) bool {
	return info.Path != other.Path || !info.Timestamp.Equal(other.Timestamp)
}
