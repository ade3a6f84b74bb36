package model

// LaunchConfig is the user-declared launch configuration of an image.
// Empty fields mean "not configured".
type LaunchConfig struct {
	MainClass string `json:"mainClass,omitempty"` // explicit entry point
	Name      string `json:"name,omitempty"`      // image display name
}

// FatArchive describes a self-contained executable archive found in a build
// output directory.
type FatArchive struct {
	ArchiveFile string            `json:"archiveFile"`                // absolute path of the archive
	MainClass   string            `json:"mainClass" yaml:"mainClass"` // Main-Class declared by the archive manifest
	Attributes  map[string]string `json:"attributes,omitempty"`
}

// LaunchSource tells which fallback stage produced a LaunchDescriptor.
type LaunchSource string

const (
	LaunchSourceConfig  LaunchSource = "config"
	LaunchSourceArchive LaunchSource = "archive"
	LaunchSourceScan    LaunchSource = "scan"
)

// LaunchDescriptor is the resolved launch target of an image.
//
// InjectEnv is true when the entry point must be exported to the container
// environment. It is false for self-contained archives since the runtime reads
// the entry point from the archive itself.
type LaunchDescriptor struct {
	MainClass      string       `json:"mainClass" yaml:"mainClass"`
	InjectEnv      bool         `json:"injectEnv" yaml:"injectEnv"`
	Source         LaunchSource `json:"source" yaml:"source"`
	ArchiveFile    string       `json:"archiveFile,omitempty" yaml:"archiveFile,omitempty"`
	ArchiveRelPath string       `json:"archiveRelPath,omitempty" yaml:"archiveRelPath,omitempty"` // ArchiveFile relative to the project base dir
}
