package main

import (
	"github.com/spf13/cobra"

	"github.com/kitops/jkit/adapters/java"
	"github.com/kitops/jkit/internal/kindmap"
	"github.com/kitops/jkit/usecase/image"
	"github.com/kitops/jkit/usecase/launch"
	"github.com/kitops/jkit/usecase/manifest"
)

// buildManifestUseCase creates manifest use case with the configured mapping override.
func buildManifestUseCase(cmd *cobra.Command) (*manifest.UseCase, error) {
	env, err := envFromCmd(cmd)
	if err != nil {
		return nil, err
	}
	return &manifest.UseCase{
		Load: kindmap.LoadOptions{OverridePath: env.Mapping.Path, Optional: env.Mapping.Optional},
	}, nil
}

// buildLaunchUseCase creates launch use case backed by the filesystem inspectors.
func buildLaunchUseCase(_ *cobra.Command) *launch.UseCase {
	return &launch.UseCase{
		ArchivePort: java.NewArchiveInspector(),
		ClassPort:   java.NewClassScanner(),
	}
}

// buildImageUseCase creates image use case.
func buildImageUseCase(cmd *cobra.Command) *image.UseCase {
	return &image.UseCase{Launch: buildLaunchUseCase(cmd)}
}
