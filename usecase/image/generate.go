package image

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/internal/logging"
	"github.com/kitops/jkit/usecase/launch"
)

// Config is the user configuration of the generator. Empty fields take defaults.
type Config struct {
	Name               string  `json:"name,omitempty"`
	From               string  `json:"from,omitempty"`
	MainClass          string  `json:"mainClass,omitempty"`
	TargetDir          string  `json:"targetDir,omitempty"`
	FailOnUndetermined bool    `json:"failOnUndetermined,omitempty"`
	Ports              []int32 `json:"ports,omitempty"` // nil: Jolokia and Prometheus defaults
}

// GenerateInput holds the project and generator configuration.
type GenerateInput struct {
	Project model.JavaProject
	Config  Config
}

// GenerateOutput is the generated image configuration.
type GenerateOutput struct {
	Image *ImageConfig
}

// DefaultImageName returns `<artifactId>:<version>`, tagging snapshot or
// unversioned builds as latest.
func DefaultImageName(p model.JavaProject) (string, error) {
	if p.ArtifactID == "" {
		return "", fmt.Errorf("image name not configured and project has no artifactId")
	}
	tag := p.Version
	if tag == "" || p.IsSnapshot() {
		tag = DefaultTag
	}
	return p.ArtifactID + ":" + tag, nil
}

// Generate resolves the launch target and builds the image configuration.
// JAVA_MAIN_CLASS is set only for entry points that the archive itself does
// not declare. An undetermined entry point fails when FailOnUndetermined is
// set, otherwise the image falls back to the generic launcher.
func (u *UseCase) Generate(ctx context.Context, in *GenerateInput) (*GenerateOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("missing generate input")
	}
	if in.Project.BuildDir == "" {
		return nil, fmt.Errorf("missing project build directory")
	}
	logger := logging.FromContext(ctx)
	cfg := in.Config

	name := cfg.Name
	if name == "" {
		n, err := DefaultImageName(in.Project)
		if err != nil {
			return nil, err
		}
		name = n
	}
	from := cfg.From
	if from == "" {
		from = DefaultFrom
	}
	targetDir := cfg.TargetDir
	if targetDir == "" {
		targetDir = DefaultTargetDir
	}
	ports := cfg.Ports
	if ports == nil {
		ports = []int32{DefaultJolokiaPort, DefaultPrometheusPort}
	}

	lu := u.Launch
	if lu == nil {
		lu = &launch.UseCase{}
	}
	res, err := lu.Resolve(ctx, &launch.ResolveInput{
		Config:     model.LaunchConfig{MainClass: cfg.MainClass, Name: name},
		BuildDir:   in.Project.BuildDir,
		ClassesDir: in.Project.ClassesDir,
		BaseDir:    in.Project.BaseDir,
	})
	var desc *model.LaunchDescriptor
	switch {
	case err == nil:
		desc = &res.Descriptor
	case errors.Is(err, model.ErrUndeterminedLaunchTarget):
		if cfg.FailOnUndetermined {
			return nil, err
		}
		logger.Warn(ctx, "launch target undetermined, image uses the generic launcher", "image", name, "reason", err.Error())
	default:
		return nil, fmt.Errorf("resolve launch target: %w", err)
	}

	img := &ImageConfig{
		Name:     name,
		From:     from,
		Env:      map[string]string{EnvJavaAppDir: targetDir},
		Ports:    ports,
		Assembly: Assembly{TargetDir: targetDir},
		Launch:   desc,
	}
	if desc != nil && desc.InjectEnv {
		img.Env[EnvJavaMainClass] = desc.MainClass
	}
	img.Assembly.Files = assemblyFiles(in.Project, desc, targetDir)

	logger.Info(ctx, "image configuration generated", "image", name, "source", launchSource(desc))
	return &GenerateOutput{Image: img}, nil
}

// assemblyFiles copies the executable archive when there is one, the
// compiled classes otherwise.
func assemblyFiles(p model.JavaProject, desc *model.LaunchDescriptor, targetDir string) []AssemblyFile {
	if desc != nil && desc.Source == model.LaunchSourceArchive {
		src := desc.ArchiveRelPath
		if src == "" {
			src = desc.ArchiveFile
		}
		return []AssemblyFile{{Source: src, Dest: path.Join(targetDir, filepath.Base(desc.ArchiveFile))}}
	}
	classes := p.ClassesDir
	if classes == "" {
		classes = filepath.Join(p.BuildDir, "classes")
	}
	if p.BaseDir != "" {
		if rel, err := filepath.Rel(p.BaseDir, classes); err == nil {
			classes = rel
		}
	}
	return []AssemblyFile{{Source: filepath.ToSlash(classes), Dest: path.Join(targetDir, "classes")}}
}

func launchSource(desc *model.LaunchDescriptor) string {
	if desc == nil {
		return "generic"
	}
	return string(desc.Source)
}
