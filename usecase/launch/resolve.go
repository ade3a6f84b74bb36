package launch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/internal/logging"
)

// ResolveInput describes the project whose launch target is resolved.
type ResolveInput struct {
	// Config is the explicit launch configuration.
	Config model.LaunchConfig `json:"config"`
	// BuildDir is searched (not recursively) for an executable archive, e.g. target.
	BuildDir string `json:"build_dir"`
	// ClassesDir holds the compiled classes. Defaults to <BuildDir>/classes.
	ClassesDir string `json:"classes_dir"`
	// BaseDir is the project base directory used to relativize the archive path.
	BaseDir string `json:"base_dir"`
}

// ResolveOutput carries the resolved launch descriptor.
type ResolveOutput struct {
	Descriptor model.LaunchDescriptor `json:"descriptor"`
}

// stage returns nil, nil when it does not apply, letting the next stage run.
type stage func(ctx context.Context, in *ResolveInput, st *resolveState) (*model.LaunchDescriptor, error)

type resolveState struct {
	scanDir    string
	candidates []string
}

// Resolve runs the fallback chain and returns the first launch target found:
//
//  1. explicit configuration (exported to the environment)
//  2. executable archive manifest (not exported, the runtime reads it from the archive)
//  3. unique class with a main method (exported to the environment)
//
// When no stage yields a target, the error is *model.UndeterminedLaunchTargetError.
func (u *UseCase) Resolve(ctx context.Context, in *ResolveInput) (*ResolveOutput, error) {
	if in == nil {
		return nil, fmt.Errorf("ResolveInput is required")
	}
	logger := logging.FromContext(ctx)

	st := &resolveState{}
	for _, s := range []stage{u.fromConfig, u.fromArchive, u.fromScan} {
		d, err := s(ctx, in, st)
		if err != nil {
			return nil, err
		}
		if d != nil {
			logger.Debug(ctx, "launch target resolved", "source", string(d.Source), "mainClass", d.MainClass, "injectEnv", d.InjectEnv)
			return &ResolveOutput{Descriptor: *d}, nil
		}
	}
	return nil, &model.UndeterminedLaunchTargetError{Dir: st.scanDir, Candidates: st.candidates}
}

func (u *UseCase) fromConfig(_ context.Context, in *ResolveInput, _ *resolveState) (*model.LaunchDescriptor, error) {
	mc := strings.TrimSpace(in.Config.MainClass)
	if mc == "" {
		return nil, nil
	}
	return &model.LaunchDescriptor{MainClass: mc, InjectEnv: true, Source: model.LaunchSourceConfig}, nil
}

func (u *UseCase) fromArchive(ctx context.Context, in *ResolveInput, _ *resolveState) (*model.LaunchDescriptor, error) {
	if u.ArchivePort == nil || in.BuildDir == "" {
		return nil, nil
	}
	fa, err := u.ArchivePort.Inspect(ctx, in.BuildDir)
	if err != nil {
		return nil, fmt.Errorf("inspect archives in %q: %w", in.BuildDir, err)
	}
	if fa == nil {
		return nil, nil
	}
	d := &model.LaunchDescriptor{
		MainClass:   fa.MainClass,
		InjectEnv:   false,
		Source:      model.LaunchSourceArchive,
		ArchiveFile: fa.ArchiveFile,
	}
	if in.BaseDir != "" {
		if rel, err := filepath.Rel(in.BaseDir, fa.ArchiveFile); err == nil {
			d.ArchiveRelPath = filepath.ToSlash(rel)
		}
	}
	return d, nil
}

func (u *UseCase) fromScan(ctx context.Context, in *ResolveInput, st *resolveState) (*model.LaunchDescriptor, error) {
	st.scanDir = in.ClassesDir
	if st.scanDir == "" && in.BuildDir != "" {
		st.scanDir = filepath.Join(in.BuildDir, "classes")
	}
	if u.ClassPort == nil || st.scanDir == "" {
		return nil, nil
	}
	candidates, err := u.ClassPort.FindMainClasses(ctx, st.scanDir)
	if err != nil {
		return nil, fmt.Errorf("scan classes in %q: %w", st.scanDir, err)
	}
	st.candidates = candidates
	switch len(candidates) {
	case 1:
		return &model.LaunchDescriptor{MainClass: candidates[0], InjectEnv: true, Source: model.LaunchSourceScan}, nil
	case 0:
		return nil, nil
	default:
		logging.FromContext(ctx).Warn(ctx, "multiple main classes found, launch target is ambiguous",
			"dir", st.scanDir, "candidates", strings.Join(candidates, ","), "err", model.ErrAmbiguousResolution)
		return nil, nil
	}
}
