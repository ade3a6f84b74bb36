package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/kitops/jkit/config/jkitenv"
	"github.com/kitops/jkit/internal/logging"
)

type envKey struct{}

// cmdLogFile is the log destination opened by setupCmd, closed by main.
var cmdLogFile *logging.LogFile

// setupCmd resolves the project environment, applies flag overrides and
// installs the logger (tagged with a fresh runId) into the command context.
func setupCmd(c *cobra.Command) error {
	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}
	root, _ := c.Flags().GetString("jkit-root")
	dir, _ := c.Flags().GetString("jkit-dir")
	env, err := jkitenv.Resolve(root, dir, workDir)
	if err != nil {
		return err
	}

	fs := c.Flags()
	if p, ok := changedString(fs, "mapping"); ok {
		if p != "" && !filepath.IsAbs(p) {
			p = filepath.Join(workDir, p)
		}
		env.Mapping.Path = p
	}
	if fs.Changed("mapping-optional") {
		env.Mapping.Optional, _ = fs.GetBool("mapping-optional")
	}

	lc := logging.LogConfig{
		Format:        env.Logging.Format,
		Level:         env.Logging.Level,
		Output:        env.Logging.Output,
		Dir:           env.Logging.Dir,
		RetentionDays: env.Logging.RetentionDays,
	}
	if v, ok := changedString(fs, "log-format"); ok {
		lc.Format = v
	}
	if v, ok := changedString(fs, "log-level"); ok {
		lc.Level = v
	}
	if v, ok := changedString(fs, "log-output"); ok {
		lc.Output = v
	}
	level, err := logging.ParseLevel(lc.Level)
	if err != nil {
		return err
	}
	lf, err := logging.NewLogFile(&lc)
	if err != nil {
		return err
	}
	l, err := logging.NewWithWriter(lc.Format, level, lf.Writer())
	if err != nil {
		_ = lf.Close()
		return err
	}
	if lf.Path != "" {
		_ = logging.CleanupOldLogFiles(filepath.Dir(lf.Path), lc.RetentionDays)
	}
	closeCmdLogFile()
	cmdLogFile = lf

	l = l.With("runId", uuid.NewString())
	ctx := logging.WithLogger(c.Context(), l)
	ctx = context.WithValue(ctx, envKey{}, env)
	c.SetContext(ctx)
	l.Debug(ctx, "environment resolved", "root", env.JkitRoot, "dir", env.JkitDir, "config", env.ConfigFile)
	if env.Mapping.Path != "" && !env.IsWithinBoundary(env.Mapping.Path) {
		l.Warn(ctx, "mapping document is outside JKIT_ROOT and JKIT_DIR", "path", env.Mapping.Path, "root", env.JkitRoot)
	}
	return nil
}

// changedString returns the value of a string flag set on the command line.
func changedString(fs *pflag.FlagSet, name string) (string, bool) {
	if !fs.Changed(name) {
		return "", false
	}
	v, err := fs.GetString(name)
	return v, err == nil
}

// envFromCmd returns the environment resolved by setupCmd.
func envFromCmd(cmd *cobra.Command) (*jkitenv.Env, error) {
	if env, ok := cmd.Context().Value(envKey{}).(*jkitenv.Env); ok && env != nil {
		return env, nil
	}
	return nil, fmt.Errorf("jkit environment not resolved")
}

func closeCmdLogFile() {
	if cmdLogFile != nil {
		_ = cmdLogFile.Close()
		cmdLogFile = nil
	}
}
