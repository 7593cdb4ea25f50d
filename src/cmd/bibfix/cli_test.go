package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"bibfix/src/internal/config"
)

// Helper to execute a Cobra command and capture stdout/stderr
func execCmd(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// isolate moves the test into an empty directory and blanks the environment
// variables the config loader reads.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(old) })
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{config.EnvRemoveNotes, config.EnvBraceTitles, config.EnvLogLevel} {
		t.Setenv(key, "")
	}
	return dir
}

func writeExport(t *testing.T, dir, name string) string {
	t.Helper()
	src := "@article{RN1,\n" +
		"  author = {Smith, John},\n" +
		"  title = {Deep Learning Basics},\n" +
		"  year = {2020},\n" +
		"  note = {read twice}\n" +
		"}\n"
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootRun(t *testing.T) {
	dir := isolate(t)
	input := writeExport(t, dir, "My EndNote Library.txt")

	if _, err := execCmd(newRootCmd(), input); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, err := os.ReadFile(filepath.Join(dir, "My_EndNote_Library.bib"))
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if !strings.Contains(string(out), "@article{smith2020deep,") {
		t.Fatalf("rekeyed entry missing:\n%s", out)
	}
	if !strings.Contains(string(out), "note = {read twice}") {
		t.Fatalf("note dropped without the flag:\n%s", out)
	}
}

func TestRootRemoveNotes(t *testing.T) {
	dir := isolate(t)
	input := writeExport(t, dir, "lib.txt")

	if _, err := execCmd(newRootCmd(), "--remove-notes", input); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, err := os.ReadFile(filepath.Join(dir, "lib.bib"))
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if strings.Contains(string(out), "note") {
		t.Fatalf("note survived --remove-notes:\n%s", out)
	}
}

func TestRootBraceTitles(t *testing.T) {
	dir := isolate(t)
	input := writeExport(t, dir, "lib.txt")

	if _, err := execCmd(newRootCmd(), "--brace-titles", input); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, err := os.ReadFile(filepath.Join(dir, "lib.bib"))
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if !strings.Contains(string(out), "title = {{Deep Learning Basics}}") {
		t.Fatalf("title not braced:\n%s", out)
	}
}

func TestRootOutputFlag(t *testing.T) {
	dir := isolate(t)
	input := writeExport(t, dir, "lib.txt")
	dest := filepath.Join(dir, "fixed.bib")

	if _, err := execCmd(newRootCmd(), "-o", dest, input); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(dest); err != nil {
		t.Fatalf("explicit output: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "lib.bib")); !os.IsNotExist(err) {
		t.Fatalf("derived output written despite -o: %v", err)
	}
}

func TestRootConfigDefaults(t *testing.T) {
	dir := isolate(t)
	input := writeExport(t, dir, "lib.txt")
	if err := os.WriteFile(config.File, []byte("remove_notes: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execCmd(newRootCmd(), input); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, err := os.ReadFile(filepath.Join(dir, "lib.bib"))
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if strings.Contains(string(out), "note") {
		t.Fatalf("config default ignored:\n%s", out)
	}
}

func TestRootFlagBeatsConfig(t *testing.T) {
	dir := isolate(t)
	input := writeExport(t, dir, "lib.txt")
	if err := os.WriteFile(config.File, []byte("remove_notes: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execCmd(newRootCmd(), "--remove-notes=false", input); err != nil {
		t.Fatalf("run: %v", err)
	}
	out, err := os.ReadFile(filepath.Join(dir, "lib.bib"))
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if !strings.Contains(string(out), "note = {read twice}") {
		t.Fatalf("explicit flag lost to config default:\n%s", out)
	}
}

func TestRootParseError(t *testing.T) {
	dir := isolate(t)
	input := filepath.Join(dir, "broken.txt")
	if err := os.WriteFile(input, []byte("@article{broken,\n  title = {no end\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := execCmd(newRootCmd(), input); err == nil {
		t.Fatal("expected parse error")
	}
	if _, err := os.Stat(filepath.Join(dir, "broken.bib")); !os.IsNotExist(err) {
		t.Fatalf("output written despite parse error: %v", err)
	}
}

func TestRootRequiresInput(t *testing.T) {
	if _, err := execCmd(newRootCmd()); err == nil {
		t.Fatal("expected an argument error")
	}
}
