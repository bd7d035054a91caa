package tailer

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"svcrunner/internal/logging"
)

func TestTailerWritesToFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.log")

	ta, err := New(Stdout, path, logging.NopLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer ta.Close()

	ta.Run(strings.NewReader("line one\nline two\n"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "line one\nline two\n"
	if string(data) != want {
		t.Fatalf("file content = %q, want %q", string(data), want)
	}
}

func TestTailerWithoutFileDoesNotPanic(t *testing.T) {
	ta, err := New(Stderr, "", logging.NopLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ta.Run(strings.NewReader("warn line\n"))
}

func TestRunAllJoinsBothStreams(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "out.log")
	errPath := filepath.Join(dir, "err.log")

	out, err := New(Stdout, outPath, logging.NopLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer out.Close()
	errT, err := New(Stderr, errPath, logging.NopLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer errT.Close()

	var wg sync.WaitGroup
	RunAll(&wg, out, errT, strings.NewReader("o1\no2\n"), strings.NewReader("e1\n"))
	wg.Wait()

	outData, _ := os.ReadFile(outPath)
	errData, _ := os.ReadFile(errPath)
	if string(outData) != "o1\no2\n" {
		t.Fatalf("stdout file = %q", outData)
	}
	if string(errData) != "e1\n" {
		t.Fatalf("stderr file = %q", errData)
	}
}
