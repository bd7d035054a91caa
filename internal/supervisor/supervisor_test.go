package supervisor

import (
	"os/exec"
	"testing"
	"time"

	"svcrunner/internal/config"
	"svcrunner/internal/logging"
	"svcrunner/internal/scm"
	"svcrunner/internal/stopladder"
)

func fastCfg() config.ServiceConfig {
	cfg := config.Defaults()
	cfg.Application = "fake"
	cfg.AppThrottle = 200
	cfg.AppRestartDelay = 20
	cfg.AppStopMethodConsole = 200
	cfg.AppStopMethodWindow = 200
	cfg.AppStopMethodThreads = 200
	return cfg
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %v", timeout)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// TestRunIgnoreOnExitReportsServiceSpecificExitCode is scenario 4 of spec
// §8: an Ignore action child exit leaves the loop immediately with the
// child's own code, no restart.
func TestRunIgnoreOnExitReportsServiceSpecificExitCode(t *testing.T) {
	cfg := fastCfg()
	cfg.AppExitDefault = config.ExitIgnore

	child := newFakeChild(1, 5*time.Millisecond, 7)
	launcher := newFakeLauncher(child)
	sup := &Supervisor{
		Config:         cfg,
		Launcher:       launcher,
		StopController: stopladder.NewFakeController(),
		Log:            logging.NopLogger(),
	}

	pub := scm.NewFake()
	code := sup.Run(pub, pub.Shutdown())

	if !code.IsServiceSpecific || code.ServiceSpecific != 7 {
		t.Fatalf("exit code = %+v, want ServiceSpecific(7)", code)
	}
	if launcher.launchCount() != 1 {
		t.Fatalf("launchCount = %d, want 1 (no restart)", launcher.launchCount())
	}

	last, ok := pub.Last()
	if !ok || last.State != scm.StateStopped || last.ExitCode != code {
		t.Fatalf("last published status = %+v, ok=%v, want Stopped/%v", last, ok, code)
	}
}

// TestRunPublishesRunningThenStoppedExactlyOnce is the Stopped half of P5:
// on a no-restart exit (which publishes no StopPending), Running comes
// first and Stopped is published exactly once, last.
func TestRunPublishesRunningThenStoppedExactlyOnce(t *testing.T) {
	cfg := fastCfg()
	cfg.AppExitDefault = config.ExitExit

	child := newFakeChild(1, 1*time.Millisecond, 0)
	launcher := newFakeLauncher(child)
	sup := &Supervisor{
		Config:         cfg,
		Launcher:       launcher,
		StopController: stopladder.NewFakeController(),
		Log:            logging.NopLogger(),
	}

	pub := scm.NewFake()
	sup.Run(pub, pub.Shutdown())

	hist := pub.History()
	stopped := 0
	for _, s := range hist {
		if s.State == scm.StateStopped {
			stopped++
		}
	}
	if stopped != 1 {
		t.Fatalf("Stopped published %d times, want exactly 1: %+v", stopped, hist)
	}
	if hist[0].State != scm.StateRunning {
		t.Fatalf("first published state = %v, want Running", hist[0].State)
	}
	if hist[len(hist)-1].State != scm.StateStopped {
		t.Fatalf("last published state = %v, want Stopped", hist[len(hist)-1].State)
	}
}

// TestRunShutdownDuringBackoffStopsCleanly is scenario 1 of spec §8: a
// child exits quickly (unhealthy by the throttle), backoff begins, and a
// shutdown observed during backoff yields Stopped/NoError without a
// second child ever being launched.
func TestRunShutdownDuringBackoffStopsCleanly(t *testing.T) {
	cfg := fastCfg()

	child := newFakeChild(1, 1*time.Millisecond, 0)
	launcher := newFakeLauncher(child)
	sup := &Supervisor{
		Config:         cfg,
		Launcher:       launcher,
		StopController: stopladder.NewFakeController(),
		Log:            logging.NopLogger(),
	}

	pub := scm.NewFake()
	done := make(chan scm.ExitCode, 1)
	go func() { done <- sup.Run(pub, pub.Shutdown()) }()

	waitFor(t, time.Second, func() bool { return launcher.launchCount() == 1 })
	pub.TriggerShutdown()

	select {
	case code := <-done:
		if code != scm.NoError {
			t.Fatalf("exit code = %+v, want NoError", code)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after shutdown during backoff")
	}
	if launcher.launchCount() != 1 {
		t.Fatalf("launchCount = %d, want 1 (backoff interrupted before restart)", launcher.launchCount())
	}
}

// TestRunCrashLoopStopsDuringBackoffWithoutExhaustingLauncher is scenario
// 2 of spec §8, scaled down: repeated unhealthy crashes drive backoff
// longer each time; a shutdown observed partway through stops the loop
// before every scripted child is consumed.
func TestRunCrashLoopStopsDuringBackoffWithoutExhaustingLauncher(t *testing.T) {
	cfg := fastCfg()

	children := []*fakeChild{
		newFakeChild(1, 1*time.Millisecond, 1),
		newFakeChild(2, 1*time.Millisecond, 1),
		newFakeChild(3, 1*time.Millisecond, 1),
		newFakeChild(4, 1*time.Millisecond, 1),
		newFakeChild(5, 1*time.Millisecond, 1),
	}
	launcher := newFakeLauncher(children...)
	sup := &Supervisor{
		Config:         cfg,
		Launcher:       launcher,
		StopController: stopladder.NewFakeController(),
		Log:            logging.NopLogger(),
	}

	pub := scm.NewFake()
	done := make(chan scm.ExitCode, 1)
	go func() { done <- sup.Run(pub, pub.Shutdown()) }()

	waitFor(t, 3*time.Second, func() bool { return launcher.launchCount() == 2 })
	pub.TriggerShutdown()

	select {
	case code := <-done:
		if code != scm.NoError {
			t.Fatalf("exit code = %+v, want NoError", code)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after shutdown during crash-loop backoff")
	}
	if got := launcher.launchCount(); got >= len(children) {
		t.Fatalf("launchCount = %d, want fewer than %d scripted children", got, len(children))
	}
}

// TestRunHealthyThenCrashLaunchesSecondChild is scenario 3 of spec §8: a
// child that runs long enough to count as healthy restarts at the plain
// restart delay, so a second child is launched well inside the timeout.
func TestRunHealthyThenCrashLaunchesSecondChild(t *testing.T) {
	cfg := fastCfg()
	cfg.AppThrottle = 20 // ms

	healthy := newFakeChild(1, 40*time.Millisecond, 0)  // uptime >= throttle
	unhealthy := newFakeChild(2, 1*time.Millisecond, 1) // uptime < throttle
	launcher := newFakeLauncher(healthy, unhealthy)
	sup := &Supervisor{
		Config:         cfg,
		Launcher:       launcher,
		StopController: stopladder.NewFakeController(),
		Log:            logging.NopLogger(),
	}

	pub := scm.NewFake()
	done := make(chan scm.ExitCode, 1)
	go func() { done <- sup.Run(pub, pub.Shutdown()) }()

	waitFor(t, time.Second, func() bool { return launcher.launchCount() == 2 })
	pub.TriggerShutdown()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after shutdown")
	}
}

// TestRunStopLadderConsoleSucceeds is scenario 5 of spec §8: the child
// dies at the console stage, so the ladder consumes exactly that stage.
func TestRunStopLadderConsoleSucceeds(t *testing.T) {
	cfg := fastCfg()

	child := newFakeChild(1, 10*time.Second, 0) // outlives the test unless stopped
	launcher := newFakeLauncher(child)
	ctrl := newFakeStopController("console")
	launcher.controller = ctrl
	sup := &Supervisor{
		Config:         cfg,
		Launcher:       launcher,
		StopController: ctrl,
		Log:            logging.NopLogger(),
	}

	pub := scm.NewFake()
	done := make(chan scm.ExitCode, 1)
	go func() { done <- sup.Run(pub, pub.Shutdown()) }()

	waitFor(t, time.Second, func() bool { return launcher.launchCount() == 1 })
	pub.TriggerShutdown()

	select {
	case code := <-done:
		if code != scm.NoError {
			t.Fatalf("exit code = %+v, want NoError", code)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after console-stage stop")
	}

	if len(ctrl.Calls) != 1 || ctrl.Calls[0] != "console" {
		t.Fatalf("Calls = %v, want exactly [console]", ctrl.Calls)
	}
}

// TestRunStopLadderKillLastResort is scenario 6 of spec §8: a child that
// ignores every earlier stage is still stopped by the ladder's final kill
// stage.
func TestRunStopLadderKillLastResort(t *testing.T) {
	cfg := fastCfg()

	child := newFakeChild(1, 10*time.Second, 0)
	launcher := newFakeLauncher(child)
	ctrl := newFakeStopController("kill")
	launcher.controller = ctrl
	sup := &Supervisor{
		Config:         cfg,
		Launcher:       launcher,
		StopController: ctrl,
		Log:            logging.NopLogger(),
	}

	pub := scm.NewFake()
	done := make(chan scm.ExitCode, 1)
	go func() { done <- sup.Run(pub, pub.Shutdown()) }()

	waitFor(t, time.Second, func() bool { return launcher.launchCount() == 1 })
	pub.TriggerShutdown()

	select {
	case code := <-done:
		if code != scm.NoError {
			t.Fatalf("exit code = %+v, want NoError", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after kill-stage stop")
	}

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

// TestRunSkipMaskSuppressesStopLadderStages is P4 exercised through the
// full supervisor, not just stopladder.Run directly: with every stage
// skipped, a shutdown observed mid-run never drives a single OS-call
// stage, and the child's own short lifetime (rather than the ladder)
// bounds how long reaping takes.
func TestRunSkipMaskSuppressesStopLadderStages(t *testing.T) {
	cfg := fastCfg()
	cfg.AppStopMethodSkip = config.SkipConsole | config.SkipWindow | config.SkipTerminate | config.SkipKill

	child := newFakeChild(1, 50*time.Millisecond, 0)
	launcher := newFakeLauncher(child)
	ctrl := newFakeStopController("kill")
	launcher.controller = ctrl
	sup := &Supervisor{
		Config:         cfg,
		Launcher:       launcher,
		StopController: ctrl,
		Log:            logging.NopLogger(),
	}

	pub := scm.NewFake()
	done := make(chan scm.ExitCode, 1)
	go func() { done <- sup.Run(pub, pub.Shutdown()) }()

	waitFor(t, time.Second, func() bool { return launcher.launchCount() == 1 })
	pub.TriggerShutdown()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
	if len(ctrl.Calls) != 0 {
		t.Fatalf("Calls = %v, want none (P4)", ctrl.Calls)
	}
}

// TestRunWithRealChildProcess exercises the full loop against an actual
// os/exec child rather than a fake, per the testing approach named in
// spec §8 ("real short-lived os/exec children where actual process
// semantics matter").
func TestRunWithRealChildProcess(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	cfg := fastCfg()
	cfg.AppExitDefault = config.ExitExit
	cfg.Application = "sh"
	cfg.AppParameters = "-c \"exit 3\""

	sup := &Supervisor{
		Config:         cfg,
		Launcher:       RealLauncher{Log: logging.NopLogger()},
		StopController: stopladder.NewFakeController(),
		Log:            logging.NopLogger(),
	}

	pub := scm.NewFake()
	code := sup.Run(pub, pub.Shutdown())

	if !code.IsServiceSpecific || code.ServiceSpecific != 3 {
		t.Fatalf("exit code = %+v, want ServiceSpecific(3)", code)
	}
}
