package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/kitops/jkit/config/jkitenv"
	"github.com/kitops/jkit/internal/logging"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "jkit",
		Short:   "jkit CLI",
		Long:    "jkit splits Kubernetes manifests into kind-named resource fragments and generates Java exec image configurations.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Show help by default when no subcommand is provided.
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("jkit-root", os.Getenv(jkitenv.JkitRootEnvKey), "Project root directory (env JKIT_ROOT)")
	pf.String("jkit-dir", os.Getenv(jkitenv.JkitDirEnvKey), "jkit directory holding config.yml (env JKIT_DIR, default $JKIT_ROOT/.jkit)")
	pf.String("log-format", "", "Log format (human|text|json) (env JKIT_LOGGING_FORMAT)")
	pf.String("log-level", "", "Log level (DEBUG|INFO|WARN|ERROR) (env JKIT_LOGGING_LEVEL)")
	pf.String("log-output", "", `Log output ("-" for stderr, "none", or a file path) (env JKIT_LOGGING_OUTPUT)`)
	pf.String("mapping", "", "Kind mapping override document (env JKIT_MAPPING)")
	pf.Bool("mapping-optional", false, "Ignore a missing kind mapping override document (env JKIT_MAPPING_OPTIONAL)")

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		return setupCmd(c)
	}

	cmd.AddCommand(newCmdVersion())
	cmd.AddCommand(newCmdInit())
	cmd.AddCommand(newCmdKinds())
	cmd.AddCommand(newCmdSplit())
	cmd.AddCommand(newCmdJoin())
	cmd.AddCommand(newCmdLaunch())
	cmd.AddCommand(newCmdImage())
	return cmd
}

func main() {
	root := newRootCmd()
	root.SetContext(context.Background())
	executed, err := root.ExecuteC()
	if err != nil {
		ctx := root.Context()
		if executed != nil {
			ctx = executed.Context()
		}
		logging.FromContext(ctx).Errorf(ctx, "Failed: %s", err)
		closeCmdLogFile()
		os.Exit(1)
	}
	closeCmdLogFile()
}
