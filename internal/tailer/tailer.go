// pattern: Imperative Shell
package tailer

import (
	"bufio"
	"io"
	"os"
	"sync"

	"svcrunner/internal/logging"
)

// Stream names one of the child's two output streams, used for both the
// log-line prefix and the log level (spec §4.C).
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) prefix() string {
	if s == Stderr {
		return "stderr:"
	}
	return "stdout:"
}

// Tailer reads LF/EOF-terminated lines from a child's stdout or stderr,
// optionally copying them to an append-only file, and emits each line to
// the log. A write error to the file stops the tailer, not the child
// (spec §4.C).
type Tailer struct {
	stream Stream
	log    *logging.ScopedLogger
	file   *os.File
}

// New opens filePath (if non-empty) for append and returns a Tailer ready
// to Run against a reader. The file is opened once and reused across the
// tailer's lifetime.
func New(stream Stream, filePath string, log *logging.ScopedLogger) (*Tailer, error) {
	t := &Tailer{stream: stream, log: log}
	if filePath == "" {
		return t, nil
	}
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	t.file = f
	return t, nil
}

// Close closes the underlying file, if one was opened.
func (t *Tailer) Close() error {
	if t.file == nil {
		return nil
	}
	return t.file.Close()
}

// Run reads lines from r until EOF or a write error, emitting each line
// to the log and, if configured, to the tail file. Run blocks until r is
// exhausted or a write fails; call it from its own goroutine and join via
// a sync.WaitGroup, as the supervisor does once per child iteration.
func (t *Tailer) Run(r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if t.stream == Stderr {
			t.log.Warn(t.stream.prefix()+" "+line, "stream", "stderr")
		} else {
			t.log.Info(t.stream.prefix()+" "+line, "stream", "stdout")
		}

		if t.file != nil {
			if _, err := t.file.WriteString(line + "\n"); err != nil {
				t.log.Error("tail file write failed, stopping tail", "error", err)
				return
			}
		}
	}
}

// RunAll starts a goroutine for each Tailer with a non-nil reader and
// registers it with wg; it does not wait. The supervisor calls wg.Wait to
// join stdout/stderr tailing before the next iteration of the monitor loop.
func RunAll(wg *sync.WaitGroup, stdout, stderr *Tailer, stdoutR, stderrR io.Reader) {
	if stdout != nil && stdoutR != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stdout.Run(stdoutR)
		}()
	}
	if stderr != nil && stderrR != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stderr.Run(stderrR)
		}()
	}
}
