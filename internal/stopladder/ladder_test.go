package stopladder

import (
	"testing"
	"time"

	"svcrunner/internal/config"
	"svcrunner/internal/logging"
)

func shortTimeouts() Timeouts {
	return Timeouts{
		Console: 100 * time.Millisecond,
		Window:  100 * time.Millisecond,
		Threads: 100 * time.Millisecond,
	}
}

func TestRunConsoleStageSucceeds(t *testing.T) {
	ctrl := NewFakeController()
	ctrl.ExitAfter(1) // exits right after the console stage call

	Run(ctrl, 123, 0, false, shortTimeouts(), logging.NopLogger())

	if len(ctrl.Calls) != 1 || ctrl.Calls[0] != "console" {
		t.Fatalf("Calls = %v, want exactly [console]", ctrl.Calls)
	}
}

func TestRunFallsThroughToKill(t *testing.T) {
	ctrl := NewFakeController() // never reports exited
	Run(ctrl, 123, 0, false, shortTimeouts(), logging.NopLogger())

	want := []string{"console", "window", "terminate", "kill"}
	if len(ctrl.Calls) != len(want) {
		t.Fatalf("Calls = %v, want %v", ctrl.Calls, want)
	}
	for i := range want {
		if ctrl.Calls[i] != want[i] {
			t.Fatalf("Calls = %v, want %v", ctrl.Calls, want)
		}
	}
}

func TestRunSkipMaskFullPerformsNoStageCalls(t *testing.T) {
	ctrl := NewFakeController()
	Run(ctrl, 123, config.SkipConsole|config.SkipWindow|config.SkipTerminate|config.SkipKill, false, shortTimeouts(), logging.NopLogger())

	if len(ctrl.Calls) != 0 {
		t.Fatalf("Calls = %v, want none (P4)", ctrl.Calls)
	}
}

func TestRunSkipsConsoleWhenNoConsole(t *testing.T) {
	ctrl := NewFakeController()
	ctrl.ExitAfter(1) // exits after the first stage actually invoked (window)

	Run(ctrl, 123, 0, true, shortTimeouts(), logging.NopLogger())

	if len(ctrl.Calls) != 1 || ctrl.Calls[0] != "window" {
		t.Fatalf("Calls = %v, want exactly [window]", ctrl.Calls)
	}
}

func TestRunReturnsImmediatelyIfAlreadyExited(t *testing.T) {
	ctrl := NewFakeController()
	ctrl.ExitAfter(0)

	Run(ctrl, 123, 0, false, shortTimeouts(), logging.NopLogger())

	if len(ctrl.Calls) != 0 {
		t.Fatalf("Calls = %v, want none when already exited", ctrl.Calls)
	}
}
