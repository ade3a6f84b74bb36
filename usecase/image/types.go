package image

import (
	"sort"
	"strings"

	corev1 "k8s.io/api/core/v1"

	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/usecase/launch"
)

// Defaults of the Java exec generator.
const (
	DefaultFrom      = "quay.io/jkube/jkube-java:latest"
	DefaultTargetDir = "/deployments"
	DefaultTag       = "latest"
)

// Container environment variables understood by the Java base image.
const (
	EnvJavaAppDir    = "JAVA_APP_DIR"
	EnvJavaMainClass = "JAVA_MAIN_CLASS"
)

// Default exposed ports of the Java base image.
const (
	DefaultJolokiaPort    int32 = 8778
	DefaultPrometheusPort int32 = 9779
)

// UseCase generates the image configuration of a plain Java application.
type UseCase struct {
	Launch *launch.UseCase
}

// AssemblyFile is one file or directory copied into the image.
type AssemblyFile struct {
	Source string `json:"source" yaml:"source"` // relative to the project base dir
	Dest   string `json:"dest" yaml:"dest"`     // absolute in-image path
}

// Assembly lists what is copied into TargetDir.
type Assembly struct {
	TargetDir string         `json:"targetDir" yaml:"targetDir"`
	Files     []AssemblyFile `json:"files,omitempty" yaml:"files,omitempty"`
}

// ImageConfig is the generated build configuration of one image.
type ImageConfig struct {
	Name     string                  `json:"name" yaml:"name"`
	From     string                  `json:"from" yaml:"from"`
	Env      map[string]string       `json:"env,omitempty" yaml:"env,omitempty"`
	Ports    []int32                 `json:"ports,omitempty" yaml:"ports,omitempty"`
	Assembly Assembly                `json:"assembly" yaml:"assembly"`
	Launch   *model.LaunchDescriptor `json:"launch,omitempty" yaml:"launch,omitempty"` // nil: generic launcher
}

// ContainerEnv returns Env as container environment variables sorted by name.
func (c *ImageConfig) ContainerEnv() []corev1.EnvVar {
	if c == nil || len(c.Env) == 0 {
		return nil
	}
	out := make([]corev1.EnvVar, 0, len(c.Env))
	for k, v := range c.Env {
		out = append(out, corev1.EnvVar{Name: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ContainerPorts returns Ports as TCP container ports in declaration order.
func (c *ImageConfig) ContainerPorts() []corev1.ContainerPort {
	if c == nil || len(c.Ports) == 0 {
		return nil
	}
	out := make([]corev1.ContainerPort, 0, len(c.Ports))
	for _, p := range c.Ports {
		out = append(out, corev1.ContainerPort{ContainerPort: p, Protocol: corev1.ProtocolTCP})
	}
	return out
}

// Container returns the container running the image: the image's env and
// ports, working in the assembly target directory.
func (c *ImageConfig) Container() *corev1.Container {
	if c == nil {
		return nil
	}
	return &corev1.Container{
		Name:       ContainerName(c.Name),
		Image:      c.Name,
		WorkingDir: c.Assembly.TargetDir,
		Env:        c.ContainerEnv(),
		Ports:      c.ContainerPorts(),
	}
}

// ContainerName derives a container name from an image reference by
// dropping registry path, tag and digest.
func ContainerName(image string) string {
	name := image
	if i := strings.Index(name, "@"); i >= 0 {
		name = name[:i]
	}
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, ":"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(name)
}
