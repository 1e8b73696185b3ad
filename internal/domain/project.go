package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	m "objdiff.dev/pkg/objdiff/internal/model"
)

// LoadedProject is a parsed, resolved project ready to build.
type LoadedProject struct {
	Dir    m.Path
	Config m.ProjectConfig
	Info   m.ProjectConfigInfo
	Watch  *WatchMatcher
}

// FindObjects returns the objects whose display name is in names, in project
// order. No names selects every object.
func (p *LoadedProject) FindObjects(names []string) ([]m.ProjectObject, error) {
	if len(names) == 0 {
		return p.Config.Objects, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = false
	}

	var selected []m.ProjectObject

	for _, obj := range p.Config.Objects {
		if _, ok := wanted[obj.DisplayName()]; ok {
			wanted[obj.DisplayName()] = true
			selected = append(selected, obj)
		}
	}

	var missing []string

	for _, name := range names {
		if !wanted[name] {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("unknown object(s): %s", strings.Join(missing, ", "))
	}

	return selected, nil
}

// BuildResult is one side's build outcome as seen by the renderer.
type BuildResult struct {
	Side m.Side
	// Path is the resolved artifact path, empty when the side has none.
	Path m.Path
	// Skipped is set when the side was not built.
	Skipped bool
	Status  m.BuildStatus
	// Log combines stdout and stderr of a failed build.
	Log string
}

// ObjectBuild pairs the target and base results of one object.
type ObjectBuild struct {
	Object m.ProjectObject
	Target BuildResult
	Base   BuildResult
}

// Success reports whether no side that was built failed.
func (b ObjectBuild) Success() bool {
	for _, result := range []BuildResult{b.Target, b.Base} {
		if !result.Skipped && !result.Status.Success {
			return false
		}
	}

	return true
}

// Project loads project files and builds their objects.
type Project interface {
	// Load discovers, parses and resolves the project in dir.
	Load(dir m.Path) (*LoadedProject, error)

	// BuildObject builds both sides of obj concurrently, as enabled by the
	// project's build_target and build_base settings.
	BuildObject(ctx context.Context, loaded *LoadedProject, config m.BuildConfig, obj m.ProjectObject) (ObjectBuild, error)

	// BuildObjects builds objs with at most parallel objects in flight,
	// returning results in input order.
	BuildObjects(ctx context.Context, loaded *LoadedProject, config m.BuildConfig, objs []m.ProjectObject, parallel int) ([]ObjectBuild, error)
}

type project struct {
	loader      ConfigLoader
	builder     Builder
	toolVersion string
}

// NewProject constructs a Project. toolVersion is compared against the
// project's min_version.
func NewProject(loader ConfigLoader, builder Builder, toolVersion string) Project {
	return &project{
		loader:      loader,
		builder:     builder,
		toolVersion: toolVersion,
	}
}

func (p *project) Load(dir m.Path) (*LoadedProject, error) {
	discovery, ok := p.loader.Discover(dir)
	if !ok {
		return nil, fmt.Errorf("%w in %s", ErrNoProjectConfig, dir)
	}

	if discovery.Err != nil {
		return nil, discovery.Err
	}

	cfg := discovery.Config

	if err := CheckMinVersion(cfg, p.toolVersion); err != nil {
		slog.Error("Project requires a different tool version", "path", discovery.Info.Path, "error", err)
		return nil, err
	}

	watch, err := CompileWatchPatterns(cfg.WatchPatterns)
	if err != nil {
		slog.Error("Failed to compile watch patterns", "path", discovery.Info.Path, "error", err)
		return nil, err
	}

	ResolveObjects(&cfg, dir)

	slog.Info("Loaded project", "path", discovery.Info.Path, "objects", len(cfg.Objects))

	return &LoadedProject{
		Dir:    dir,
		Config: cfg,
		Info:   discovery.Info,
		Watch:  watch,
	}, nil
}

func (p *project) BuildObject(ctx context.Context, loaded *LoadedProject, config m.BuildConfig, obj m.ProjectObject) (ObjectBuild, error) {
	result := ObjectBuild{Object: obj}

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error
		result.Target, err = p.buildSide(groupCtx, loaded, config, obj, m.SideTarget, loaded.Config.BuildTarget)

		return err
	})

	group.Go(func() error {
		var err error
		result.Base, err = p.buildSide(groupCtx, loaded, config, obj, m.SideBase, loaded.Config.BuildBase)

		return err
	})

	if err := group.Wait(); err != nil {
		return ObjectBuild{}, err
	}

	return result, nil
}

func (p *project) BuildObjects(ctx context.Context, loaded *LoadedProject, config m.BuildConfig, objs []m.ProjectObject, parallel int) ([]ObjectBuild, error) {
	if parallel < 1 {
		parallel = 1
	}

	results := make([]ObjectBuild, len(objs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallel)

	for i, obj := range objs {
		group.Go(func() error {
			build, err := p.BuildObject(groupCtx, loaded, config, obj)
			if err != nil {
				return fmt.Errorf("failed to build %s: %w", obj.DisplayName(), err)
			}

			results[i] = build

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (p *project) buildSide(ctx context.Context, loaded *LoadedProject, config m.BuildConfig, obj m.ProjectObject, side m.Side, enabled bool) (BuildResult, error) {
	result := BuildResult{Side: side, Path: obj.SidePath(side)}

	if !enabled || !result.Path.IsSet() {
		result.Skipped = true
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	arg := result.Path.RelativeTo(loaded.Dir)

	slog.Info("Building object", "object", obj.DisplayName(), "side", side, "target", arg)

	result.Status = p.builder.Run(config, arg)
	if !result.Status.Success {
		result.Log = combinedLog(result.Status)
	}

	return result, nil
}

func combinedLog(status m.BuildStatus) string {
	var b strings.Builder

	b.WriteString(status.Stdout)

	if status.Stdout != "" && status.Stderr != "" && !strings.HasSuffix(status.Stdout, "\n") {
		b.WriteString("\n")
	}

	b.WriteString(status.Stderr)

	return b.String()
}
