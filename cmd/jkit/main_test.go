package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kitops/jkit/usecase/manifest"
)

// runCmd executes the root command in a fresh project root with logging disabled.
func runCmd(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--jkit-root", root, "--log-output", "none"}, args...))
	cmd.SetOut(&stdout)
	err := cmd.Execute()
	closeCmdLogFile()
	return stdout.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCmd(t, t.TempDir(), "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out, "jkit version ") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestKindsCommand(t *testing.T) {
	root := t.TempDir()
	mapping := filepath.Join(root, "mapping.properties")
	if err := os.WriteFile(mapping, []byte("Widget=wd, widget\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, root, "--mapping", mapping, "kinds", "Service", "Widget")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var entries []manifest.MappingEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if len(entries) != 2 || entries[0].Preferred != "svc" || entries[1].Preferred != "wd" {
		t.Errorf("unexpected entries: %+v", entries)
	}

	out, err = runCmd(t, root, "--mapping", mapping, "kinds", "export")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Service=svc, service\n") || !strings.HasSuffix(out, "Widget=wd, widget\n") {
		t.Errorf("unexpected export:\n%s", out)
	}

	if _, err := runCmd(t, root, "--mapping", filepath.Join(root, "missing.properties"), "kinds"); err == nil {
		t.Errorf("expected error for missing mapping document")
	}
	if _, err := runCmd(t, root, "--mapping", filepath.Join(root, "missing.properties"), "--mapping-optional", "kinds"); err != nil {
		t.Errorf("unexpected error for optional mapping document: %v", err)
	}
}

func TestSplitAndJoinCommands(t *testing.T) {
	root := t.TempDir()
	manifestPath := filepath.Join(root, "app.yml")
	doc := "apiVersion: v1\nkind: Service\nmetadata:\n  name: web\n---\napiVersion: v1\nkind: ConfigMap\nmetadata:\n  name: web\n"
	if err := os.WriteFile(manifestPath, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	outDir := filepath.Join(root, "fragments")

	out, err := runCmd(t, root, "split", "-f", manifestPath, "-o", outDir)
	if err != nil {
		t.Fatalf("split error: %v", err)
	}
	var frags []manifest.SplitFragment
	if err := json.Unmarshal([]byte(out), &frags); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if len(frags) != 2 || frags[0].File != filepath.Join(outDir, "web-svc.yml") || frags[1].File != filepath.Join(outDir, "web-cm.yml") {
		t.Fatalf("unexpected fragments: %+v", frags)
	}

	out, err = runCmd(t, root, "join", outDir)
	if err != nil {
		t.Fatalf("join error: %v", err)
	}
	if strings.Count(out, "---\n") != 2 || !strings.Contains(out, "kind: Service") || !strings.Contains(out, "kind: ConfigMap") {
		t.Errorf("unexpected joined manifest:\n%s", out)
	}
}

func TestSplitCommand_OutputOutsideRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "project")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	manifestPath := filepath.Join(root, "app.yml")
	if err := os.WriteFile(manifestPath, []byte("apiVersion: v1\nkind: Service\nmetadata:\n  name: web\n"), 0644); err != nil {
		t.Fatal(err)
	}
	outside := filepath.Join(base, "elsewhere")

	_, err := runCmd(t, root, "split", "-f", manifestPath, "-o", outside)
	if err == nil || !strings.Contains(err.Error(), "outside JKIT_ROOT") {
		t.Fatalf("expected boundary error, got %v", err)
	}
	if _, statErr := os.Stat(outside); !os.IsNotExist(statErr) {
		t.Errorf("expected nothing written outside the root, stat: %v", statErr)
	}

	if _, err := runCmd(t, root, "split", "-f", manifestPath, "-o", outside, "--dry-run"); err != nil {
		t.Errorf("unexpected dry-run error: %v", err)
	}
	if _, err := runCmd(t, root, "split", "-f", manifestPath, "-o", outside, "--allow-outside"); err != nil {
		t.Fatalf("unexpected error with --allow-outside: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outside, "web-svc.yml")); err != nil {
		t.Errorf("expected fragment written: %v", err)
	}
}

func TestLaunchCommand_ConfiguredMainClass(t *testing.T) {
	root := t.TempDir()
	out, err := runCmd(t, root, "launch", "--main-class", "com.example.Main")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var desc map[string]any
	if err := json.Unmarshal([]byte(out), &desc); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if desc["mainClass"] != "com.example.Main" || desc["source"] != "config" || desc["injectEnv"] != true {
		t.Errorf("unexpected descriptor: %v", desc)
	}

	if _, err := runCmd(t, root, "launch"); err == nil {
		t.Errorf("expected undetermined launch target error")
	}
}

func TestLaunchScanCommand(t *testing.T) {
	root := t.TempDir()
	classes := filepath.Join(root, "target", "classes")
	if err := os.MkdirAll(filepath.Join(classes, "com", "example"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(classes, "com", "example", "README.txt"), []byte("not a class"), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, root, "launch", "scan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var res scanResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if res.Dir != classes || res.Unique || res.MainClass != "" || res.Candidates == nil || len(res.Candidates) != 0 {
		t.Errorf("unexpected scan result: %+v", res)
	}
}

func TestImageCommand(t *testing.T) {
	root := filepath.Join(t.TempDir(), "demo")
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, root, "image", "--main-class", "com.example.Main", "--project-version", "2.0.0-SNAPSHOT", "-o", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{`"name": "demo:latest"`, `"JAVA_MAIN_CLASS": "com.example.Main"`, `"JAVA_APP_DIR": "/deployments"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	var doc struct {
		Container struct {
			Name       string `json:"name"`
			Image      string `json:"image"`
			WorkingDir string `json:"workingDir"`
			Env        []struct {
				Name  string `json:"name"`
				Value string `json:"value"`
			} `json:"env"`
			Ports []struct {
				ContainerPort int32  `json:"containerPort"`
				Protocol      string `json:"protocol"`
			} `json:"ports"`
		} `json:"container"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	c := doc.Container
	if c.Name != "demo" || c.Image != "demo:latest" || c.WorkingDir != "/deployments" {
		t.Errorf("unexpected container: %+v", c)
	}
	if len(c.Env) != 2 || c.Env[0].Name != "JAVA_APP_DIR" || c.Env[1].Value != "com.example.Main" {
		t.Errorf("unexpected container env: %+v", c.Env)
	}
	if len(c.Ports) != 2 || c.Ports[0].ContainerPort != 8778 || c.Ports[0].Protocol != "TCP" {
		t.Errorf("unexpected container ports: %+v", c.Ports)
	}

	// no main class: generic launcher unless failing is requested
	out, err = runCmd(t, root, "image")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "JAVA_MAIN_CLASS") || !strings.Contains(out, "JAVA_APP_DIR: /deployments") || !strings.Contains(out, "container:") {
		t.Errorf("unexpected generic image:\n%s", out)
	}
	if _, err := runCmd(t, root, "image", "--fail-on-undetermined"); err == nil {
		t.Errorf("expected error with --fail-on-undetermined")
	}
}
