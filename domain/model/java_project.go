package model

import "strings"

// JavaProject describes the build output of a Java project.
type JavaProject struct {
	GroupID    string `json:"groupId,omitempty" yaml:"groupId,omitempty"`
	ArtifactID string `json:"artifactId" yaml:"artifactId"`
	Version    string `json:"version,omitempty" yaml:"version,omitempty"`
	BaseDir    string `json:"baseDir" yaml:"baseDir"`                           // project root
	BuildDir   string `json:"buildDir" yaml:"buildDir"`                         // e.g. target/
	ClassesDir string `json:"classesDir,omitempty" yaml:"classesDir,omitempty"` // default $BuildDir/classes
}

// IsSnapshot reports whether Version is a development snapshot.
func (p *JavaProject) IsSnapshot() bool {
	return strings.HasSuffix(p.Version, "-SNAPSHOT")
}
