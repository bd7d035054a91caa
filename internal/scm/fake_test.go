package scm

import "testing"

func TestFakePublishAndHistory(t *testing.T) {
	f := NewFake()
	if err := f.Publish(StateRunning, ControlStop|ControlShutdown, ExitCode{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := f.Publish(StateStopPending, ControlNone, ExitCode{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := f.Publish(StateStopped, ControlNone, NoError); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	history := f.History()
	if len(history) != 3 {
		t.Fatalf("len(History()) = %d, want 3", len(history))
	}
	last, ok := f.Last()
	if !ok || last.State != StateStopped {
		t.Fatalf("Last() = %+v, %v", last, ok)
	}
}

func TestFakeShutdownTriggerIsNonBlockingAndLevelTriggered(t *testing.T) {
	f := NewFake()
	f.TriggerShutdown()
	f.TriggerShutdown() // second trigger must not block even though the channel is already full

	select {
	case <-f.Shutdown():
	default:
		t.Fatal("expected shutdown channel to have a pending value")
	}
}

func TestServiceSpecificExitCode(t *testing.T) {
	ec := ServiceSpecific(7)
	if !ec.IsServiceSpecific || ec.ServiceSpecific != 7 {
		t.Fatalf("ServiceSpecific(7) = %+v", ec)
	}
}
