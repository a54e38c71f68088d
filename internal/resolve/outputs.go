package resolve

import (
	"path/filepath"

	"github.com/specialistvlad/buildcheck/internal/config"
)

// DefaultBuildDirName is the output directory every project starts with.
const DefaultBuildDirName = "build"

// RootBuildDir computes the redirected root output directory. A relative
// redirection is interpreted against the root project's default output
// directory, so "../../build" lands next to the root project's parent.
func RootBuildDir(model *config.Model) string {
	rootDir := absDir(model.RootDir)
	defaultDir := filepath.Join(rootDir, DefaultBuildDirName)
	if model.Coordinator == nil || model.Coordinator.BuildDir.Value == "" {
		return defaultDir
	}
	target := model.Coordinator.BuildDir.Value
	if filepath.IsAbs(target) {
		return filepath.Clean(target)
	}
	return filepath.Clean(filepath.Join(defaultDir, target))
}

// SubprojectBuildDir places a subproject's outputs under the root output directory.
func SubprojectBuildDir(rootBuildDir, name string) string {
	return filepath.Join(rootBuildDir, name)
}

func absDir(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	return abs
}
