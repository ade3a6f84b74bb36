package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kitops/jkit/adapters/kube"
	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/usecase/image"
)

// imageDocument is the printed image configuration with its container.
type imageDocument struct {
	image.ImageConfig `yaml:",inline"`
	Container         map[string]any `json:"container" yaml:"container"`
}

func newCmdImage() *cobra.Command {
	var pf projectFlags
	var cfg image.Config
	var artifactID, projectVersion, format string
	cmd := &cobra.Command{
		Use:                "image",
		Short:              "Generate the Java exec image configuration",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			env, err := envFromCmd(cmd)
			if err != nil {
				return err
			}
			base, build, classes, err := pf.resolve(cmd)
			if err != nil {
				return err
			}
			g := env.Generator
			if !cmd.Flags().Changed("name") {
				cfg.Name = g.Name
			}
			if !cmd.Flags().Changed("main-class") {
				cfg.MainClass = g.MainClass
			}
			if !cmd.Flags().Changed("from") {
				cfg.From = g.From
			}
			if !cmd.Flags().Changed("target-dir") {
				cfg.TargetDir = g.TargetDir
			}
			if !cmd.Flags().Changed("fail-on-undetermined") {
				cfg.FailOnUndetermined = g.FailOnUndetermined
			}
			if artifactID == "" {
				artifactID = filepath.Base(base)
			}

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "image.generate", artifactID)
			defer func() { cleanup(err) }()

			out, err := buildImageUseCase(cmd).Generate(ctx, &image.GenerateInput{
				Project: model.JavaProject{
					ArtifactID: artifactID,
					Version:    projectVersion,
					BaseDir:    base,
					BuildDir:   build,
					ClassesDir: classes,
				},
				Config: cfg,
			})
			if err != nil {
				return err
			}
			container, err := kube.ObjectMap(out.Image.Container())
			if err != nil {
				return err
			}
			doc := imageDocument{ImageConfig: *out.Image, Container: container}
			switch format {
			case "yaml":
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				if err := enc.Encode(&doc); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(&doc)
			default:
				return fmt.Errorf("unsupported output format: %s", format)
			}
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&cfg.Name, "name", "", "Image name (default <artifactId>:<version>)")
	cmd.Flags().StringVar(&cfg.MainClass, "main-class", "", "Explicit main class")
	cmd.Flags().StringVar(&cfg.From, "from", "", "Base image (default "+image.DefaultFrom+")")
	cmd.Flags().StringVar(&cfg.TargetDir, "target-dir", "", "In-image application directory (default "+image.DefaultTargetDir+")")
	cmd.Flags().BoolVar(&cfg.FailOnUndetermined, "fail-on-undetermined", false, "Fail when no main class can be determined")
	cmd.Flags().StringVar(&artifactID, "artifact-id", "", "Project artifactId (default base directory name)")
	cmd.Flags().StringVar(&projectVersion, "project-version", "", "Project version")
	cmd.Flags().StringVarP(&format, "output", "o", "yaml", "Output format (yaml|json)")
	return cmd
}
