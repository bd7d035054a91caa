// pattern: Imperative Shell
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"svcrunner/internal/config"
	"svcrunner/internal/instlock"
	"svcrunner/internal/launcher"
	"svcrunner/internal/logging"
	"svcrunner/internal/scm"
	"svcrunner/internal/stopladder"
	"svcrunner/internal/supervisor"
)

// runtime bundles everything one invocation of `svcrunner run <name>`
// needs once its config has been loaded and its instance lock acquired:
// the supervisor itself, plus the resources the caller must release when
// it returns.
type runtime struct {
	sup    *supervisor.Supervisor
	logMgr *logging.Manager
	lock   *flock.Flock
}

// prepareRuntime loads name's persisted configuration, acquires its
// instance lock, opens its log manager, and builds a ready-to-run
// Supervisor wired to the platform's real Controller and
// PriorityClassSetter. The caller must call release() exactly once,
// whether or not Run is ever called.
func prepareRuntime(name string) (*runtime, error) {
	store := defaultStore()
	cfg, err := config.Load(store, name)
	if err != nil {
		return nil, fmt.Errorf("run: load config: %w", err)
	}

	lock, err := instlock.Lock(DataDir(), name)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}

	logMgr, err := logging.NewManager(logging.Config{
		FilePath: filepath.Join(DataDir(), "logs", name+".log"),
		Level:    "info",
	})
	if err != nil {
		instlock.Release(lock)
		return nil, fmt.Errorf("run: open log manager: %w", err)
	}

	log := logMgr.For(name)

	sup := &supervisor.Supervisor{
		Config: cfg,
		Launcher: supervisor.RealLauncher{
			Setter: launcher.NewPriorityClassSetter(),
			Log:    log,
		},
		StopController: stopladder.NewController(),
		Log:            log,
	}

	return &runtime{sup: sup, logMgr: logMgr, lock: lock}, nil
}

// release tears down the resources acquired by prepareRuntime, in the
// reverse order they were taken.
func (r *runtime) release() {
	_ = r.logMgr.Close()
	instlock.Release(r.lock)
}

// runResult adapts a scm.ExitCode into the process exit code svcrunner
// itself should return when run outside the SCM (foreground/debug mode).
func runResult(code scm.ExitCode) int {
	if code.IsServiceSpecific {
		return int(code.ServiceSpecific)
	}
	return int(code.Win32ExitCode)
}
