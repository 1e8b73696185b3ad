package domain

import (
	"errors"
	"log/slog"
	"strings"

	"golang.org/x/mod/semver"

	m "objdiff.dev/pkg/objdiff/internal/model"
)

// CheckMinVersion fails when cfg requires a newer tool than toolVersion.
// Development builds without a semantic version skip the check.
func CheckMinVersion(cfg m.ProjectConfig, toolVersion string) error {
	if cfg.MinVersion == "" {
		return nil
	}

	required := canonicalVersion(cfg.MinVersion)
	if !semver.IsValid(required) {
		return &VersionError{
			Required: cfg.MinVersion,
			Current:  toolVersion,
			Err:      errors.New("not a semantic version"),
		}
	}

	current := canonicalVersion(toolVersion)
	if !semver.IsValid(current) {
		slog.Debug("Skipping min_version check for unversioned build", "version", toolVersion)
		return nil
	}

	if semver.Compare(current, required) < 0 {
		return &VersionError{Required: cfg.MinVersion, Current: toolVersion}
	}

	return nil
}

func canonicalVersion(version string) string {
	version = strings.TrimSpace(version)
	if version == "" || strings.HasPrefix(version, "v") {
		return version
	}

	return "v" + version
}
