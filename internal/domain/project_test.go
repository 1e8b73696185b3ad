package domain

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	m "objdiff.dev/pkg/objdiff/internal/model"
)

type mockBuilder struct {
	mock.Mock
}

func (b *mockBuilder) Run(config m.BuildConfig, targetFile m.Path) m.BuildStatus {
	args := b.Called(config, targetFile)
	return args.Get(0).(m.BuildStatus)
}

const projectYAML = `
min_version: 1.0.0
target_dir: build/asm
base_dir: build/src
build_base: true
objects:
  - name: main
    path: main.o
  - path: util.o
    base_path: wip/util.o
  - name: orphan
`

func loadTestProject(t *testing.T, content string, builder Builder) (*LoadedProject, Project) {
	t.Helper()

	dir := t.TempDir()
	writeProjectFile(t, dir, "objdiff.yml", content)

	p := NewProject(newTestLoader(), builder, "v1.2.0")
	loaded, err := p.Load(m.Path(dir))
	require.NoError(t, err)

	return loaded, p
}

func TestProject_Load(t *testing.T) {
	loaded, _ := loadTestProject(t, projectYAML, &mockBuilder{})

	require.Len(t, loaded.Config.Objects, 3)
	assert.Equal(t, loaded.Dir.Join("build/asm/main.o"), loaded.Config.Objects[0].TargetPath)
	assert.Equal(t, loaded.Dir.Join("build/src/main.o"), loaded.Config.Objects[0].BasePath)
	assert.Equal(t, loaded.Dir.Join("wip/util.o"), loaded.Config.Objects[1].BasePath)
	assert.Equal(t, m.Path(""), loaded.Config.Objects[2].TargetPath)
	assert.True(t, loaded.Watch.Match("src/main.c"))
	assert.Equal(t, loaded.Dir.Join("objdiff.yml"), loaded.Info.Path)
}

func TestProject_Load_Errors(t *testing.T) {
	t.Run("no config", func(t *testing.T) {
		p := NewProject(newTestLoader(), &mockBuilder{}, "v1.0.0")
		_, err := p.Load(m.Path(t.TempDir()))
		require.ErrorIs(t, err, ErrNoProjectConfig)
	})

	t.Run("malformed config", func(t *testing.T) {
		dir := t.TempDir()
		writeProjectFile(t, dir, "objdiff.json", `{"objects": 1}`)

		p := NewProject(newTestLoader(), &mockBuilder{}, "v1.0.0")
		_, err := p.Load(m.Path(dir))

		var configErr *ConfigError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, m.Path(filepath.Join(dir, "objdiff.json")), configErr.Path)
	})

	t.Run("tool too old", func(t *testing.T) {
		dir := t.TempDir()
		writeProjectFile(t, dir, "objdiff.yml", "min_version: 3.0.0\n")

		p := NewProject(newTestLoader(), &mockBuilder{}, "v2.9.0")
		_, err := p.Load(m.Path(dir))

		var versionErr *VersionError
		require.ErrorAs(t, err, &versionErr)
	})

	t.Run("invalid watch pattern", func(t *testing.T) {
		dir := t.TempDir()
		writeProjectFile(t, dir, "objdiff.yml", "watch_patterns: ['[']\n")

		p := NewProject(newTestLoader(), &mockBuilder{}, "v1.0.0")
		_, err := p.Load(m.Path(dir))

		var patternErr *PatternError
		require.ErrorAs(t, err, &patternErr)
	})
}

func TestProject_BuildObject_BothSides(t *testing.T) {
	builder := &mockBuilder{}
	loaded, p := loadTestProject(t, projectYAML, builder)
	config := m.NewBuildConfig(m.AppConfig{ProjectDir: loaded.Dir})

	builder.On("Run", config, m.Path(filepath.Join("build", "asm", "main.o"))).
		Return(m.BuildStatus{Success: true, Cmdline: "make build/asm/main.o"}).Once()
	builder.On("Run", config, m.Path(filepath.Join("build", "src", "main.o"))).
		Return(m.BuildStatus{Success: false, Stdout: "cc main.c\n", Stderr: "error: boom\n"}).Once()

	build, err := p.BuildObject(context.Background(), loaded, config, loaded.Config.Objects[0])
	require.NoError(t, err)

	assert.Equal(t, m.SideTarget, build.Target.Side)
	assert.True(t, build.Target.Status.Success)
	assert.Empty(t, build.Target.Log)

	assert.Equal(t, m.SideBase, build.Base.Side)
	assert.False(t, build.Base.Status.Success)
	assert.Equal(t, "cc main.c\nerror: boom\n", build.Base.Log)
	assert.False(t, build.Success())
	builder.AssertExpectations(t)
}

func TestProject_BuildObject_SkipsDisabledAndUnresolved(t *testing.T) {
	builder := &mockBuilder{}
	loaded, p := loadTestProject(t, "target_dir: out\nobjects:\n  - path: a.o\n  - name: orphan\n", builder)
	config := m.NewBuildConfig(m.AppConfig{ProjectDir: loaded.Dir})

	builder.On("Run", config, m.Path(filepath.Join("out", "a.o"))).Return(m.BuildStatus{Success: true}).Once()

	build, err := p.BuildObject(context.Background(), loaded, config, loaded.Config.Objects[0])
	require.NoError(t, err)
	assert.False(t, build.Target.Skipped)
	assert.True(t, build.Base.Skipped, "build_base defaults to false")
	assert.True(t, build.Success())

	orphan, err := p.BuildObject(context.Background(), loaded, config, loaded.Config.Objects[1])
	require.NoError(t, err)
	assert.True(t, orphan.Target.Skipped)
	assert.True(t, orphan.Base.Skipped)

	builder.AssertExpectations(t)
}

func TestProject_BuildObject_CancelledContext(t *testing.T) {
	builder := &mockBuilder{}
	loaded, p := loadTestProject(t, projectYAML, builder)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.BuildObject(ctx, loaded, m.NewBuildConfig(m.AppConfig{ProjectDir: loaded.Dir}), loaded.Config.Objects[0])
	require.ErrorIs(t, err, context.Canceled)
	builder.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

type countingBuilder struct {
	mu    sync.Mutex
	calls []m.Path
}

func (b *countingBuilder) Run(_ m.BuildConfig, targetFile m.Path) m.BuildStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.calls = append(b.calls, targetFile)

	return m.BuildStatus{Success: true}
}

func TestProject_BuildObjects_PreservesOrder(t *testing.T) {
	builder := &countingBuilder{}
	loaded, p := loadTestProject(t, projectYAML, builder)
	config := m.NewBuildConfig(m.AppConfig{ProjectDir: loaded.Dir})

	builds, err := p.BuildObjects(context.Background(), loaded, config, loaded.Config.Objects, 3)
	require.NoError(t, err)
	require.Len(t, builds, 3)

	for i, build := range builds {
		assert.Equal(t, loaded.Config.Objects[i].DisplayName(), build.Object.DisplayName())
	}

	assert.Len(t, builder.calls, 4)
	assert.Contains(t, builder.calls, m.Path(filepath.Join("wip", "util.o")))
}

func TestLoadedProject_FindObjects(t *testing.T) {
	loaded, _ := loadTestProject(t, projectYAML, &mockBuilder{})

	all, err := loaded.FindObjects(nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	selected, err := loaded.FindObjects([]string{"util.o", "main"})
	require.NoError(t, err)
	require.Len(t, selected, 2)
	assert.Equal(t, "main", selected[0].DisplayName())
	assert.Equal(t, "util.o", selected[1].DisplayName())

	_, err = loaded.FindObjects([]string{"main", "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}
