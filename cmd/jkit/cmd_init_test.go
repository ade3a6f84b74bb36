package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/kitops/jkit/config/jkitenv"
)

func TestInitCommand(t *testing.T) {
	tests := []struct {
		name          string
		existingFiles map[string]string // path -> content
		forceFlag     bool
		wantErr       bool
		wantErrMsg    string
	}{
		{name: "new_directory"},
		{
			name:          "existing_config_no_force",
			existingFiles: map[string]string{".jkit/config.yml": "version: 1\n"},
			wantErr:       true,
			wantErrMsg:    "already exists",
		},
		{
			name:          "existing_config_with_force",
			existingFiles: map[string]string{".jkit/config.yml": "version: 1\n"},
			forceFlag:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := filepath.Join(t.TempDir(), "project")
			for relPath, content := range tt.existingFiles {
				fullPath := filepath.Join(tmpDir, relPath)
				if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
					t.Fatalf("creating parent directory: %v", err)
				}
				if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
					t.Fatalf("creating existing file: %v", err)
				}
			}

			args := []string{"--jkit-root", tmpDir, "init"}
			if tt.forceFlag {
				args = append(args, "-f")
			}
			var stdout bytes.Buffer
			root := newRootCmd()
			root.SetArgs(args)
			root.SetOut(&stdout)
			err := root.Execute()

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if tt.wantErrMsg != "" && !strings.Contains(err.Error(), tt.wantErrMsg) {
					t.Errorf("expected error containing %q, got %q", tt.wantErrMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			configPath := filepath.Join(tmpDir, jkitenv.JkitDirName, jkitenv.ConfigFileName)
			data, err := os.ReadFile(configPath)
			if err != nil {
				t.Fatalf("reading config.yml: %v", err)
			}
			var cfg map[string]any
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				t.Fatalf("parsing config.yml: %v", err)
			}
			if cfg["version"] != 1 {
				t.Errorf("expected version 1, got %v", cfg["version"])
			}
			if !strings.Contains(stdout.String(), configPath) {
				t.Errorf("expected output to mention %s, got %q", configPath, stdout.String())
			}
		})
	}
}
