// Package paths computes every filesystem location the build touches:
// the consuming project, the installed package, and the AoT staging
// workspace. All returned paths are absolute.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// PackageName is the npm package this tool ships as; the default install
	// directory is <projectRoot>/node_modules/<PackageName>.
	PackageName = "blackbaud-sky-pages-out-skyux2"
	// StagingDirName is the fixed staging workspace directory under the project root.
	StagingDirName = ".skypagestmp"
	// SourceExt is the source extension of generated and aliased modules.
	SourceExt = ".ts"
)

// Layout resolves paths relative to the project root, the package install
// directory, and the staging workspace.
type Layout struct {
	projectRoot string
	installDir  string
	stagingDir  string
}

// NewLayout builds a Layout. Empty installDir and stagingDir fall back to
// their defaults under projectRoot. Relative inputs are resolved against
// the process working directory.
func NewLayout(projectRoot, installDir, stagingDir string) (*Layout, error) {
	if projectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		projectRoot = wd
	}
	root, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve project root: %w", err)
	}

	if installDir == "" {
		installDir = filepath.Join(root, "node_modules", PackageName)
	}
	install, err := filepath.Abs(installDir)
	if err != nil {
		return nil, fmt.Errorf("resolve install dir: %w", err)
	}

	if stagingDir == "" {
		stagingDir = filepath.Join(root, StagingDirName)
	}
	staging, err := filepath.Abs(stagingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve staging dir: %w", err)
	}

	return &Layout{projectRoot: root, installDir: install, stagingDir: staging}, nil
}

// ProjectRoot returns the consuming project's root directory.
func (l *Layout) ProjectRoot() string { return l.projectRoot }

// InstallDir returns the package's install directory.
func (l *Layout) InstallDir() string { return l.installDir }

// OutPath joins parts onto the package install directory.
func (l *Layout) OutPath(parts ...string) string {
	return filepath.Join(append([]string{l.installDir}, parts...)...)
}

// SpaPath joins parts onto the project root.
func (l *Layout) SpaPath(parts ...string) string {
	return filepath.Join(append([]string{l.projectRoot}, parts...)...)
}

// SpaPathTemp joins parts onto the staging workspace.
func (l *Layout) SpaPathTemp(parts ...string) string {
	return filepath.Join(append([]string{l.stagingDir}, parts...)...)
}

// SpaPathTempSrc joins parts onto the staged source tree.
func (l *Layout) SpaPathTempSrc(parts ...string) string {
	return l.SpaPathTemp(append([]string{"src"}, parts...)...)
}
