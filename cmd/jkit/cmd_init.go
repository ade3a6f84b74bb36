package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
	"github.com/spf13/cobra"

	"github.com/kitops/jkit/config/jkitenv"
)

func newCmdInit() *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the jkit project directory",
		Long: `Initialize the jkit project directory by creating .jkit/config.yml.

The project root is --jkit-root (env JKIT_ROOT) or the current directory.
It is created recursively when it does not exist.`,
		Args: cobra.NoArgs,
		// The environment does not exist yet; skip the root setup.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, forceFlag)
		},
	}

	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite existing .jkit/config.yml")
	return cmd
}

func runInit(cmd *cobra.Command, forceFlag bool) error {
	root, _ := cmd.Flags().GetString("jkit-root")
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		root = wd
	}
	jkitDir, _ := cmd.Flags().GetString("jkit-dir")
	if jkitDir == "" {
		jkitDir = filepath.Join(root, jkitenv.JkitDirName)
	}
	configPath := filepath.Join(jkitDir, jkitenv.ConfigFileName)

	if !forceFlag {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists (use -f to overwrite)", configPath)
		}
	}

	if err := os.MkdirAll(jkitDir, 0o755); err != nil {
		return fmt.Errorf("creating %s directory: %w", jkitDir, err)
	}

	data, err := jkitenv.InitialConfigYAML()
	if err != nil {
		return fmt.Errorf("generating default config: %w", err)
	}
	if err := renameio.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized jkit in %s\n", jkitDir)
	fmt.Fprintf(cmd.OutOrStdout(), "Created:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", configPath)
	return nil
}
