package domain

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"objdiff.dev/pkg/objdiff/internal/adapter"
	m "objdiff.dev/pkg/objdiff/internal/model"
)

type mockProcessAdapter struct {
	mock.Mock
}

func (a *mockProcessAdapter) Run(plan m.CommandPlan) (adapter.ProcessResult, error) {
	args := a.Called(plan)
	return args.Get(0).(adapter.ProcessResult), args.Error(1)
}

func TestBuilder_Run_MissingProjectDir(t *testing.T) {
	process := &mockProcessAdapter{}
	b := NewBuilder(process)

	status := b.Run(m.NewBuildConfig(m.AppConfig{CustomMake: "ninja"}), "build/main.o")

	assert.False(t, status.Success)
	assert.Empty(t, status.Cmdline)
	assert.Empty(t, status.Stdout)
	assert.Equal(t, "Missing project dir", status.Stderr)
	process.AssertNotCalled(t, "Run", mock.Anything)
}

func TestBuilder_Run_CapturesOutput(t *testing.T) {
	tests := []struct {
		name        string
		result      adapter.ProcessResult
		wantSuccess bool
	}{
		{"exit zero", adapter.ProcessResult{ExitCode: 0, Stdout: []byte("built\n")}, true},
		{"exit non-zero", adapter.ProcessResult{ExitCode: 2, Stdout: []byte("cc main.c\n"), Stderr: []byte("error\n")}, false},
		{"killed by signal", adapter.ProcessResult{ExitCode: -1, Stderr: []byte("partial")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			process := &mockProcessAdapter{}
			process.On("Run", m.CommandPlan{
				Program: "make",
				Args:    []string{"build/main.o"},
				Dir:     "/proj",
			}).Return(tt.result, nil).Once()

			b := newBuilderForOS(process, "linux")
			status := b.Run(m.NewBuildConfig(m.AppConfig{ProjectDir: "/proj"}), "build/main.o")

			assert.Equal(t, tt.wantSuccess, status.Success)
			assert.Equal(t, "make build/main.o", status.Cmdline)
			assert.Equal(t, string(tt.result.Stdout), status.Stdout)
			assert.Equal(t, string(tt.result.Stderr), status.Stderr)
			process.AssertExpectations(t)
		})
	}
}

func TestBuilder_Run_ErrorsBecomeStatus(t *testing.T) {
	tests := []struct {
		name       string
		result     adapter.ProcessResult
		err        error
		wantStderr string
	}{
		{
			name:       "spawn failure",
			err:        errors.New("failed to execute build: exec: \"nope\": executable file not found in $PATH"),
			wantStderr: "failed to execute build: exec: \"nope\": executable file not found in $PATH",
		},
		{
			name:       "stdout not utf-8",
			result:     adapter.ProcessResult{Stdout: []byte{0xff, 0xfe}},
			wantStderr: "failed to process stdout: output is not valid UTF-8",
		},
		{
			name:       "stderr not utf-8",
			result:     adapter.ProcessResult{Stdout: []byte("ok"), Stderr: []byte{0xc3}},
			wantStderr: "failed to process stderr: output is not valid UTF-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			process := &mockProcessAdapter{}
			process.On("Run", mock.Anything).Return(tt.result, tt.err)

			b := newBuilderForOS(process, "linux")
			status := b.Run(m.NewBuildConfig(m.AppConfig{ProjectDir: "/proj", CustomMake: "nope"}), "a.o")

			assert.False(t, status.Success)
			assert.Equal(t, tt.wantStderr, status.Stderr)
			assert.Empty(t, status.Stdout)
			assert.Equal(t, "nope a.o", status.Cmdline)
		})
	}
}

func TestNewCommandPlan(t *testing.T) {
	tests := []struct {
		name string
		app  m.AppConfig
		arg  m.Path
		goos string
		want m.CommandPlan
	}{
		{
			name: "native default make",
			app:  m.AppConfig{},
			arg:  "build/main.o",
			goos: "linux",
			want: m.CommandPlan{Program: "make", Args: []string{"build/main.o"}, Dir: "/proj"},
		},
		{
			name: "native ignores wsl distro",
			app:  m.AppConfig{CustomMake: "ninja", SelectedWSLDistro: "Ubuntu"},
			arg:  "build/main.o",
			goos: "darwin",
			want: m.CommandPlan{Program: "ninja", Args: []string{"build/main.o"}, Dir: "/proj"},
		},
		{
			name: "windows direct uses forward slashes",
			app:  m.AppConfig{},
			arg:  `build\main.o`,
			goos: "windows",
			want: m.CommandPlan{Program: "make", Args: []string{"build/main.o"}, Dir: "/proj", HideWindow: true},
		},
		{
			name: "windows through wsl",
			app:  m.AppConfig{CustomMake: "ninja", SelectedWSLDistro: "Ubuntu"},
			arg:  `build\asm\main.o`,
			goos: "windows",
			want: m.CommandPlan{
				Program:    "wsl",
				Args:       []string{"--cd", "/proj", "-d", "Ubuntu", "--", "ninja", "build/asm/main.o"},
				HideWindow: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCommandPlan(m.NewBuildConfig(tt.app), "/proj", tt.arg, tt.goos)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilder_Run_WindowsWSLCmdline(t *testing.T) {
	process := &mockProcessAdapter{}
	process.On("Run", mock.MatchedBy(func(plan m.CommandPlan) bool {
		return plan.Program == "wsl" && plan.Args[1] == `C:\proj`
	})).Return(adapter.ProcessResult{}, nil)

	b := newBuilderForOS(process, "windows")
	status := b.Run(m.NewBuildConfig(m.AppConfig{ProjectDir: `C:\proj`, SelectedWSLDistro: "Ubuntu-22.04"}), `build\asm\main.o`)

	require.True(t, status.Success)
	assert.Equal(t, `wsl --cd 'C:\proj' -d Ubuntu-22.04 -- make build/asm/main.o`, status.Cmdline)
	process.AssertExpectations(t)
}

func TestFormatCmdline(t *testing.T) {
	plan := m.CommandPlan{Program: "my make", Args: []string{"out/a.o", "", "it's"}}
	assert.Equal(t, `'my make' out/a.o '' 'it'"'"'s'`, FormatCmdline(plan))
}

func writeBuildScript(t *testing.T, dir, body string) {
	t.Helper()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "build.sh"), []byte(body), 0o755))
}

func TestBuilder_Run_RealProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell as the build tool")
	}

	t.Run("success captures stdout verbatim", func(t *testing.T) {
		dir := t.TempDir()
		writeBuildScript(t, dir, "printf 'line one\\nline two\\n'\n")

		b := NewBuilder(adapter.NewLocalProcessAdapter())
		status := b.Run(m.NewBuildConfig(m.AppConfig{ProjectDir: m.Path(dir), CustomMake: "sh"}), "build.sh")

		require.True(t, status.Success, status.Stderr)
		assert.Equal(t, "line one\nline two\n", status.Stdout)
		assert.Empty(t, status.Stderr)
		assert.Equal(t, "sh build.sh", status.Cmdline)
	})

	t.Run("runs in project dir", func(t *testing.T) {
		dir := t.TempDir()
		writeBuildScript(t, dir, "pwd\n")

		b := NewBuilder(adapter.NewLocalProcessAdapter())
		status := b.Run(m.NewBuildConfig(m.AppConfig{ProjectDir: m.Path(dir), CustomMake: "sh"}), "build.sh")

		require.True(t, status.Success, status.Stderr)

		want, err := filepath.EvalSymlinks(dir)
		require.NoError(t, err)
		got, err := filepath.EvalSymlinks(filepath.Clean(status.Stdout[:len(status.Stdout)-1]))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("failure keeps output", func(t *testing.T) {
		dir := t.TempDir()
		writeBuildScript(t, dir, "echo compiling\necho 'main.c:1: error' >&2\nexit 3\n")

		b := NewBuilder(adapter.NewLocalProcessAdapter())
		status := b.Run(m.NewBuildConfig(m.AppConfig{ProjectDir: m.Path(dir), CustomMake: "sh"}), "build.sh")

		assert.False(t, status.Success)
		assert.Equal(t, "compiling\n", status.Stdout)
		assert.Equal(t, "main.c:1: error\n", status.Stderr)
	})

	t.Run("missing tool", func(t *testing.T) {
		dir := t.TempDir()

		b := NewBuilder(adapter.NewLocalProcessAdapter())
		status := b.Run(m.NewBuildConfig(m.AppConfig{ProjectDir: m.Path(dir), CustomMake: "objdiff-no-such-make"}), "a.o")

		assert.False(t, status.Success)
		assert.Contains(t, status.Stderr, "failed to execute build")
		assert.Equal(t, "objdiff-no-such-make a.o", status.Cmdline)
	})
}
