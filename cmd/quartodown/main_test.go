package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenInputsConcatenatesFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.md")
	second := filepath.Join(dir, "second.md")
	if err := os.WriteFile(first, []byte("one\n"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := os.WriteFile(second, []byte("two\n"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	reader, closer, err := openInputs([]string{first, second})
	if err != nil {
		t.Fatalf("openInputs: %v", err)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	buf, _ := io.ReadAll(reader)
	if string(buf) != "one\ntwo\n" {
		t.Fatalf("unexpected content: %q", string(buf))
	}
}

func TestOpenInputsRejectsEmptyArgument(t *testing.T) {
	if _, _, err := openInputs([]string{"  "}); err == nil {
		t.Fatalf("empty input argument accepted")
	}
}

func TestResolveOutputCreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.md")
	writer, closer, err := resolveOutput(path)
	if err != nil {
		t.Fatalf("resolveOutput: %v", err)
	}
	if _, err := writer.Write([]byte("content")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if closer != nil {
		_ = closer.Close()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "content" {
		t.Fatalf("unexpected content: %q", data)
	}
}
