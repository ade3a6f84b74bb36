package java

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParseClass(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantName string
		wantMain bool
		wantErr  bool
	}{
		{
			name:     "public static main",
			data:     buildClass("com.example.App", testMethod{name: "run", desc: "()V", flags: accPublic}, publicStaticMain),
			wantName: "com.example.App",
			wantMain: true,
		},
		{
			name:     "instance main",
			data:     buildClass("com.example.Instance", testMethod{name: "main", desc: mainMethodDesc, flags: accPublic}),
			wantName: "com.example.Instance",
		},
		{
			name:     "private static main",
			data:     buildClass("com.example.Private", testMethod{name: "main", desc: mainMethodDesc, flags: accStatic}),
			wantName: "com.example.Private",
		},
		{
			name:     "wrong descriptor",
			data:     buildClass("com.example.Wrong", testMethod{name: "main", desc: "([Ljava/lang/String;)I", flags: accPublic | accStatic}),
			wantName: "com.example.Wrong",
		},
		{
			name:     "nested class",
			data:     buildClass("com.example.Outer$Inner", publicStaticMain),
			wantName: "com.example.Outer$Inner",
			wantMain: true,
		},
		{
			name:     "default package",
			data:     buildClass("Main", publicStaticMain),
			wantName: "Main",
			wantMain: true,
		},
		{name: "bad magic", data: []byte{0xca, 0xfe, 0xba, 0xbf, 0, 0, 0, 0}, wantErr: true},
		{name: "empty", data: nil, wantErr: true},
		{name: "truncated", data: buildClass("com.example.App", publicStaticMain)[:40], wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ci, err := parseClass(tt.data)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", ci)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseClass error: %v", err)
			}
			if ci.Name != tt.wantName || ci.MainMethod != tt.wantMain {
				t.Errorf("parseClass = %s main=%v, want %s main=%v", ci.Name, ci.MainMethod, tt.wantName, tt.wantMain)
			}
		})
	}
}

func TestClassScanner_FindMainClasses(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	classes := filepath.Join(root, "classes")

	writeFile(t, filepath.Join(classes, "com/example/App.class"), buildClass("com.example.App", publicStaticMain))
	writeFile(t, filepath.Join(classes, "com/example/Util.class"), buildClass("com.example.Util"))
	writeFile(t, filepath.Join(classes, "com/example/tools/Cli.bin"), buildClass("com.example.tools.Cli", publicStaticMain))
	writeFile(t, filepath.Join(classes, "com/example/Broken.class"), buildClass("com.example.Broken", publicStaticMain)[:30])
	writeFile(t, filepath.Join(classes, "application.properties"), []byte("server.port=8080\n"))
	// outside the scanned tree, reachable only through a symlink
	outside := writeFile(t, filepath.Join(root, "outside", "Evil.class"), buildClass("org.evil.Evil", publicStaticMain))
	if err := os.Symlink(outside, filepath.Join(classes, "Evil.class")); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(filepath.Join(root, "outside"), filepath.Join(classes, "linkdir")); err != nil {
		t.Fatal(err)
	}

	got, err := NewClassScanner().FindMainClasses(ctx, classes)
	if err != nil {
		t.Fatalf("FindMainClasses error: %v", err)
	}
	if want := []string{"com.example.App", "com.example.tools.Cli"}; !reflect.DeepEqual(got, want) {
		t.Errorf("FindMainClasses = %v, want %v", got, want)
	}
}

func TestClassScanner_SymlinkInsideRoot(t *testing.T) {
	classes := t.TempDir()
	target := writeFile(t, filepath.Join(classes, "real", "App.bytes"), buildClass("com.example.App", publicStaticMain))
	if err := os.Symlink(target, filepath.Join(classes, "App.class")); err != nil {
		t.Fatal(err)
	}

	got, err := NewClassScanner().FindMainClasses(context.Background(), classes)
	if err != nil {
		t.Fatalf("FindMainClasses error: %v", err)
	}
	// duplicates through in-tree links collapse
	if want := []string{"com.example.App"}; !reflect.DeepEqual(got, want) {
		t.Errorf("FindMainClasses = %v, want %v", got, want)
	}
}

func TestClassScanner_MissingDir(t *testing.T) {
	got, err := NewClassScanner().FindMainClasses(context.Background(), filepath.Join(t.TempDir(), "nope"))
	if err != nil || len(got) != 0 {
		t.Errorf("FindMainClasses = %v, %v; want empty", got, err)
	}
}

func TestClassScanner_UnreadableEntries(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	classes := t.TempDir()
	writeFile(t, filepath.Join(classes, "a/Main.class"), buildClass("a.Main", publicStaticMain))
	locked := filepath.Join(classes, "locked")
	writeFile(t, filepath.Join(locked, "Hidden.class"), buildClass("b.Hidden", publicStaticMain))
	secret := writeFile(t, filepath.Join(classes, "c/Secret.class"), buildClass("c.Secret", publicStaticMain))
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(secret, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = os.Chmod(locked, 0o755)
		_ = os.Chmod(secret, 0o644)
	})

	got, err := NewClassScanner().FindMainClasses(context.Background(), classes)
	if err != nil {
		t.Fatalf("unreadable entries must not abort the scan: %v", err)
	}
	if want := []string{"a.Main"}; !reflect.DeepEqual(got, want) {
		t.Errorf("FindMainClasses = %v, want %v", got, want)
	}
}

func TestClassScanner_Canceled(t *testing.T) {
	classes := t.TempDir()
	writeFile(t, filepath.Join(classes, "a/Main.class"), buildClass("a.Main", publicStaticMain))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClassScanner().FindMainClasses(ctx, classes)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestClassScanner_MainClass(t *testing.T) {
	ctx := context.Background()
	s := NewClassScanner()

	tests := []struct {
		name           string
		files          map[string][]byte
		wantMain       string
		wantOK         bool
		wantCandidates []string
	}{
		{
			name: "unique",
			files: map[string][]byte{
				"a/Main.class":   buildClass("a.Main", publicStaticMain),
				"a/Helper.class": buildClass("a.Helper"),
			},
			wantMain:       "a.Main",
			wantOK:         true,
			wantCandidates: []string{"a.Main"},
		},
		{
			name:  "none",
			files: map[string][]byte{"a/Helper.class": buildClass("a.Helper")},
		},
		{
			name: "ambiguous",
			files: map[string][]byte{
				"b/Two.class": buildClass("b.Two", publicStaticMain),
				"a/One.class": buildClass("a.One", publicStaticMain),
			},
			wantCandidates: []string{"a.One", "b.Two"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, data := range tt.files {
				writeFile(t, filepath.Join(dir, name), data)
			}
			mc, ok, candidates, err := s.MainClass(ctx, dir)
			if err != nil {
				t.Fatalf("MainClass error: %v", err)
			}
			if mc != tt.wantMain || ok != tt.wantOK {
				t.Errorf("MainClass = %q, %v; want %q, %v", mc, ok, tt.wantMain, tt.wantOK)
			}
			if len(candidates) != len(tt.wantCandidates) || (len(candidates) > 0 && !reflect.DeepEqual(candidates, tt.wantCandidates)) {
				t.Errorf("candidates = %v, want %v", candidates, tt.wantCandidates)
			}
		})
	}
}
