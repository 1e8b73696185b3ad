package model

// AppConfig holds the live application settings a build snapshot is taken
// from.
type AppConfig struct {
	ProjectDir        Path
	CustomMake        string
	SelectedWSLDistro string
}

// BuildConfig is an immutable snapshot of what a build invocation needs.
type BuildConfig struct {
	projectDir        Path
	customMake        string
	selectedWSLDistro string
}

// NewBuildConfig snapshots the given application settings.
func NewBuildConfig(app AppConfig) BuildConfig {
	return BuildConfig{
		projectDir:        app.ProjectDir,
		customMake:        app.CustomMake,
		selectedWSLDistro: app.SelectedWSLDistro,
	}
}

// ProjectDir is the working directory builds run in. Empty when unknown.
func (c BuildConfig) ProjectDir() Path { return c.projectDir }

// CustomMake overrides the build tool name. Empty means the platform default.
func (c BuildConfig) CustomMake() string { return c.customMake }

// SelectedWSLDistro names the WSL distribution to build through on Windows.
// Empty means build natively.
func (c BuildConfig) SelectedWSLDistro() string { return c.selectedWSLDistro }

// BuildStatus is the outcome of one build invocation.
type BuildStatus struct {
	Success bool
	Cmdline string
	Stdout  string
	Stderr  string
}
