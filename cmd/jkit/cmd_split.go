package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kitops/jkit/usecase/manifest"
)

func newCmdSplit() *cobra.Command {
	var file, outDir string
	var dryRun, allowOutside bool
	cmd := &cobra.Command{
		Use:                "split",
		Short:              "Split a manifest into <name>-<alias>.yml resource fragments",
		Args:               cobra.NoArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			env, err := envFromCmd(cmd)
			if err != nil {
				return err
			}
			u, err := buildManifestUseCase(cmd)
			if err != nil {
				return err
			}
			dir, err := filepath.Abs(outDir)
			if err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}
			if !dryRun && !allowOutside && !env.IsWithinBoundary(dir) {
				return fmt.Errorf("output directory %s is outside JKIT_ROOT %s (use --allow-outside)", dir, env.JkitRoot)
			}
			var data []byte
			if file == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(file)
			}
			if err != nil {
				return fmt.Errorf("read manifest: %w", err)
			}

			ctx, cleanup := withCmdRunLogger(cmd.Context(), "manifest.split", file)
			defer func() { cleanup(err) }()

			out, err := u.Split(ctx, &manifest.SplitInput{Manifest: data, Document: file, OutDir: dir, DryRun: dryRun})
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out.Fragments)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", `Manifest file ("-" for stdin) (required)`)
	cmd.Flags().StringVarP(&outDir, "output-dir", "o", ".", "Directory receiving the fragments")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show fragment file names without writing")
	cmd.Flags().BoolVar(&allowOutside, "allow-outside", false, "Allow an output directory outside JKIT_ROOT and JKIT_DIR")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newCmdJoin() *cobra.Command {
	cmd := &cobra.Command{
		Use:                "join DIR",
		Short:              "Join resource fragments into one manifest",
		Long:               "Join resource fragments into one manifest. Fragments without kind or name take them from their <name>-<alias> file name.",
		Args:               cobra.ExactArgs(1),
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			u, err := buildManifestUseCase(cmd)
			if err != nil {
				return err
			}
			ctx, cleanup := withCmdRunLogger(cmd.Context(), "manifest.join", args[0])
			defer func() { cleanup(err) }()

			out, err := u.Join(ctx, &manifest.JoinInput{Dir: args[0]})
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), out.Manifest)
			return err
		},
	}
	return cmd
}
