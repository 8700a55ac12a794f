package project

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/lakshaymaurya-felt/purgedev/internal/core"
)

// SizeUnknown marks a BuildArtifact that has been discovered but not yet
// measured. Only the scanner's sizing phase replaces it.
const SizeUnknown int64 = -1

// BuildArtifact is one regenerable directory owned by a project.
type BuildArtifact struct {
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
}

// NewArtifact returns an unmeasured artifact for path.
func NewArtifact(path string) BuildArtifact {
	return BuildArtifact{Path: path, Size: SizeUnknown}
}

// Sized reports whether the artifact has a definitive size.
func (a BuildArtifact) Sized() bool {
	return a.Size >= 0
}

// Project is a development project with one or more build artifacts.
type Project struct {
	Kind      Kind            `json:"kind" yaml:"kind"`
	Root      string          `json:"root_path" yaml:"root_path"`
	Artifacts []BuildArtifact `json:"build_artifacts" yaml:"build_artifacts"`
	Name      string          `json:"name,omitempty" yaml:"name,omitempty"`
}

// New builds a project whose artifacts are all still unmeasured.
func New(kind Kind, root string, name string, artifactPaths ...string) Project {
	arts := make([]BuildArtifact, 0, len(artifactPaths))
	for _, p := range artifactPaths {
		arts = append(arts, NewArtifact(p))
	}
	return Project{Kind: kind, Root: root, Artifacts: arts, Name: name}
}

// TotalSize sums the measured artifact sizes; unmeasured artifacts count
// as zero.
func (p Project) TotalSize() int64 {
	var total int64
	for _, a := range p.Artifacts {
		if a.Sized() {
			total += a.Size
		}
	}
	return total
}

// ModTime returns the modification time of the project's primary (first)
// artifact directory. ok is false when it cannot be read.
func (p Project) ModTime() (t time.Time, ok bool) {
	if len(p.Artifacts) == 0 {
		return time.Time{}, false
	}
	info, err := os.Stat(p.Artifacts[0].Path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// DisplayName returns the extracted name, or the root's basename.
func (p Project) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return filepath.Base(p.Root)
}

// String is the stable one-line display used for listings and selection:
// icon, root path and human size.
func (p Project) String() string {
	return fmt.Sprintf("%s %s (%s)", p.Kind.Icon(), p.Root, core.FormatSize(p.TotalSize()))
}
