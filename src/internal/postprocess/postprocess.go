package postprocess

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"bibfix/src/internal/bibtex"
	"bibfix/src/internal/citekey"
	"bibfix/src/internal/sanitize"
	"bibfix/src/internal/stringsx"
)

// Options are the transform toggles.
type Options struct {
	RemoveNotes bool
	BraceTitles bool
}

// Task is one postprocessing run. Immutable after NewTask.
type Task struct {
	Input  string
	Output string
	Opts   Options
}

// NewTask builds a Task, deriving the output path when none is given.
func NewTask(input, output string, opts Options) Task {
	return Task{
		Input:  input,
		Output: stringsx.FirstNonEmpty(output, DeriveOutputPath(input)),
		Opts:   opts,
	}
}

// DeriveOutputPath maps an export name to the fixed library name: the .txt
// suffix becomes .bib (any other name gets .bib appended) and whitespace in
// the file name becomes '_', so "My EndNote Library.txt" lands at
// "My_EndNote_Library.bib" next to the input.
func DeriveOutputPath(input string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	switch {
	case stringsx.HasSuffixFold(base, ".txt"):
		base = base[:len(base)-len(".txt")]
	case stringsx.HasSuffixFold(base, ".bib"):
		base = base[:len(base)-len(".bib")]
	}
	base = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, base)
	return filepath.Join(dir, base+".bib")
}

// ReadFile reads and parses a bibliography export, tolerating a UTF-8 BOM.
func ReadFile(path string) ([]bibtex.Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	entries, err := bibtex.Parse(sanitize.StripBOM(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

// DeriveKeys returns the final, collision-resolved key for each entry in
// input order, without mutating anything.
func DeriveKeys(entries []bibtex.Entry) ([]string, error) {
	assigner := citekey.NewAssigner()
	for _, e := range entries {
		base, err := citekey.Derive(e)
		if err != nil {
			return nil, err
		}
		assigner.Add(base)
	}
	return assigner.Assign(), nil
}

// Transform rewrites the citation keys and applies the option mutators in place.
func Transform(entries []bibtex.Entry, opts Options) error {
	keys, err := DeriveKeys(entries)
	if err != nil {
		return err
	}
	for i := range entries {
		if entries[i].Key != keys[i] {
			slog.Debug("renamed entry", "old", entries[i].Key, "new", keys[i])
		}
		entries[i].Key = keys[i]
		if opts.RemoveNotes {
			entries[i].Delete("note")
		}
		if opts.BraceTitles {
			if title, ok := entries[i].Get("title"); ok {
				entries[i].Set("title", "{"+title+"}")
			}
		}
	}
	return nil
}

// Run executes the whole fix for one task. The write is atomic (temp file
// plus rename), so a failed run never leaves a partial output behind.
func Run(task Task) error {
	entries, err := ReadFile(task.Input)
	if err != nil {
		return err
	}
	slog.Debug("parsed bibliography", "file", task.Input, "entries", len(entries))
	if err := Transform(entries, task.Opts); err != nil {
		return err
	}
	if err := writeAtomic(task.Output, []byte(bibtex.Render(entries))); err != nil {
		return err
	}
	slog.Info("wrote fixed bibliography", "path", task.Output, "entries", len(entries))
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	// CreateTemp opens 0600; the library should be a regular readable file.
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
