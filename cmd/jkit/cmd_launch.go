package main

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kitops/jkit/adapters/java"
	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/usecase/launch"
)

// projectFlags locate the Java build output.
type projectFlags struct {
	baseDir    string
	buildDir   string
	classesDir string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.baseDir, "base-dir", "", "Project base directory (default $JKIT_ROOT)")
	cmd.Flags().StringVar(&f.buildDir, "build-dir", "target", "Build output directory searched for an executable archive, relative to the base directory")
	cmd.Flags().StringVar(&f.classesDir, "classes-dir", "", "Compiled classes directory (default <build-dir>/classes)")
}

// resolve returns absolute base, build and classes directories.
func (f *projectFlags) resolve(cmd *cobra.Command) (base, build, classes string, err error) {
	env, err := envFromCmd(cmd)
	if err != nil {
		return "", "", "", err
	}
	base = f.baseDir
	if base == "" {
		base = env.JkitRoot
	}
	if base, err = filepath.Abs(base); err != nil {
		return "", "", "", err
	}
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}
	return base, abs(f.buildDir), abs(f.classesDir), nil
}

func newCmdLaunch() *cobra.Command {
	var pf projectFlags
	var mainClass string
	cmd := &cobra.Command{
		Use:                "launch",
		Short:              "Resolve the main class of a Java build",
		Long:               "Resolve the main class from configuration, an executable archive in the build directory, or a unique class with a main method.",
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
			if !cmd.Flags().Changed("main-class") {
				mainClass = env.Generator.MainClass
			}

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "launch.resolve", build)
			defer func() { cleanup(err) }()

			out, err := buildLaunchUseCase(cmd).Resolve(ctx, &launch.ResolveInput{
				Config:     model.LaunchConfig{MainClass: mainClass},
				BuildDir:   build,
				ClassesDir: classes,
				BaseDir:    base,
			})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Descriptor)
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&mainClass, "main-class", "", "Explicit main class (env JKIT_GENERATOR_MAINCLASS)")
	cmd.AddCommand(newCmdLaunchScan())
	return cmd
}

// scanResult is the printed outcome of a class scan.
type scanResult struct {
	Dir        string   `json:"dir"`
	MainClass  string   `json:"mainClass,omitempty"`
	Unique     bool     `json:"unique"`
	Candidates []string `json:"candidates"`
}

func newCmdLaunchScan() *cobra.Command {
	var pf projectFlags
	cmd := &cobra.Command{
		Use:                "scan",
		Short:              "List the classes declaring a main method",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			_, build, classes, err := pf.resolve(cmd)
			if err != nil {
				return err
			}
			if classes == "" {
				classes = filepath.Join(build, "classes")
			}

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "launch.scan", classes)
			defer func() { cleanup(err) }()

			mc, ok, candidates, err := java.NewClassScanner().MainClass(ctx, classes)
			if err != nil {
				return err
			}
			if candidates == nil {
				candidates = []string{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(scanResult{Dir: classes, MainClass: mc, Unique: ok, Candidates: candidates})
		},
	}
	pf.register(cmd)
	return cmd
}
