package java

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type testMethod struct {
	name  string
	desc  string
	flags uint16
}

var publicStaticMain = testMethod{name: "main", desc: mainMethodDesc, flags: accPublic | accStatic}

// buildClass assembles a minimal, structurally valid class file.
func buildClass(name string, methods ...testMethod) []byte {
	var pool bytes.Buffer
	slots := 0
	u2 := func(b *bytes.Buffer, v uint16) { _ = binary.Write(b, binary.BigEndian, v) }
	utf := func(s string) uint16 {
		pool.WriteByte(tagUtf8)
		u2(&pool, uint16(len(s)))
		pool.WriteString(s)
		slots++
		return uint16(slots)
	}
	class := func(nameIdx uint16) uint16 {
		pool.WriteByte(tagClass)
		u2(&pool, nameIdx)
		slots++
		return uint16(slots)
	}

	this := class(utf(strings.ReplaceAll(name, ".", "/")))
	super := class(utf("java/lang/Object"))
	// a long constant takes two slots
	pool.WriteByte(tagLong)
	pool.Write(make([]byte, 8))
	slots += 2
	code := utf("Code")
	fieldName, fieldDesc := utf("counter"), utf("I")

	type idx struct{ name, desc, flags uint16 }
	var ms []idx
	for _, m := range methods {
		ms = append(ms, idx{name: utf(m.name), desc: utf(m.desc), flags: m.flags})
	}

	var b bytes.Buffer
	_ = binary.Write(&b, binary.BigEndian, uint32(classMagic))
	u2(&b, 0)
	u2(&b, 61)
	u2(&b, uint16(slots+1))
	b.Write(pool.Bytes())
	u2(&b, accPublic)
	u2(&b, this)
	u2(&b, super)
	u2(&b, 0) // interfaces
	u2(&b, 1) // fields
	u2(&b, accPublic)
	u2(&b, fieldName)
	u2(&b, fieldDesc)
	u2(&b, 0)
	u2(&b, uint16(len(ms)))
	for _, m := range ms {
		u2(&b, m.flags)
		u2(&b, m.name)
		u2(&b, m.desc)
		u2(&b, 1)
		u2(&b, code)
		_ = binary.Write(&b, binary.BigEndian, uint32(3))
		b.Write([]byte{0xb1, 0, 0})
	}
	u2(&b, 0) // class attributes
	return b.Bytes()
}

func writeFile(t *testing.T, path string, data []byte) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// buildJar returns a zip archive holding the given manifest (if not empty)
// and entries.
func buildJar(t *testing.T, manifest string, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if manifest != "" {
		w, err := zw.Create(manifestPath)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(manifest)); err != nil {
			t.Fatal(err)
		}
	}
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
