package domain

import (
	m "objdiff.dev/pkg/objdiff/internal/model"
)

// ResolvePaths fills in the absolute target and base paths of obj in place.
//
// For each side, a declared path joined onto that side's object directory is
// tried first, and only when the side has no explicit override. Otherwise an
// explicit override is taken relative to projectDir. A side matching neither
// rule is left empty. Empty directories mean "not configured".
func ResolvePaths(obj *m.ProjectObject, projectDir, targetObjDir, baseObjDir m.Path) {
	obj.TargetPath = resolveSide(projectDir, targetObjDir, obj.Path, obj.TargetPath)
	obj.BasePath = resolveSide(projectDir, baseObjDir, obj.Path, obj.BasePath)
}

func resolveSide(projectDir, objDir, declared, override m.Path) m.Path {
	switch {
	case objDir.IsSet() && declared.IsSet() && !override.IsSet():
		return objDir.Join(declared)
	case override.IsSet():
		return projectDir.Join(override)
	default:
		return ""
	}
}

// ObjectDirs returns the target and base object directories a project file
// declares, joined onto projectDir. Undeclared directories are empty.
func ObjectDirs(cfg m.ProjectConfig, projectDir m.Path) (m.Path, m.Path) {
	var targetObjDir, baseObjDir m.Path

	if cfg.TargetDir.IsSet() {
		targetObjDir = projectDir.Join(cfg.TargetDir)
	}

	if cfg.BaseDir.IsSet() {
		baseObjDir = projectDir.Join(cfg.BaseDir)
	}

	return targetObjDir, baseObjDir
}

// ResolveObjects resolves every object of cfg in place. It must run once per
// load; resolving twice would join already-absolute paths again.
func ResolveObjects(cfg *m.ProjectConfig, projectDir m.Path) {
	targetObjDir, baseObjDir := ObjectDirs(*cfg, projectDir)

	for i := range cfg.Objects {
		ResolvePaths(&cfg.Objects[i], projectDir, targetObjDir, baseObjDir)
	}
}
