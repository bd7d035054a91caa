package launcher

import (
	"os"
	"runtime"
	"testing"

	"svcrunner/internal/config"
	"svcrunner/internal/logging"
)

func testLogger(t *testing.T) *logging.ScopedLogger {
	t.Helper()
	return logging.NopLogger()
}

func TestBuildCommandWorkingDirectory(t *testing.T) {
	cfg := config.Defaults()
	cfg.Application = "/usr/bin/true"
	cfg.AppDirectory = "/tmp"

	cmd := BuildCommand(cfg)
	if cmd.Dir != "/tmp" {
		t.Fatalf("Dir = %q, want /tmp", cmd.Dir)
	}
}

func TestBuildCommandArgsFromParameters(t *testing.T) {
	cfg := config.Defaults()
	cfg.Application = "/usr/bin/true"
	cfg.AppParameters = `--name "my service" --port 8080`

	cmd := BuildCommand(cfg)
	want := []string{"/usr/bin/true", "--name", "my service", "--port", "8080"}
	if len(cmd.Args) != len(want) {
		t.Fatalf("Args = %#v, want %#v", cmd.Args, want)
	}
	for i := range want {
		if cmd.Args[i] != want[i] {
			t.Fatalf("Args[%d] = %q, want %q", i, cmd.Args[i], want[i])
		}
	}
}

func TestBuildEnvReplaceVsExtra(t *testing.T) {
	cfg := config.Defaults()
	cfg.Application = "/usr/bin/true"
	cfg.AppEnvironmentExtra = []string{"FOO=bar"}

	env := buildEnv(cfg)
	found := false
	for _, e := range env {
		if e == "FOO=bar" {
			found = true
		}
	}
	if !found {
		t.Fatalf("AppEnvironmentExtra entry missing from %v", env)
	}
	if len(env) <= len(os.Environ()) {
		t.Fatalf("expected env to grow beyond inherited environment")
	}

	cfg.AppEnvironment = []string{"ONLY=this"}
	env = buildEnv(cfg)
	if len(env) != 1 || env[0] != "ONLY=this" {
		t.Fatalf("AppEnvironment should replace wholesale, got %v", env)
	}
}

func TestLaunchPipesStdioWhenConfigured(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/echo")
	}
	cfg := config.Defaults()
	cfg.Application = "/bin/echo"
	cfg.AppParameters = "hello"
	cfg.AppStdout = t.TempDir() + "/out.log"

	cmd, pipes, err := Launch(cfg, nil, testLogger(t))
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if pipes.Stdout == nil || pipes.Stderr == nil {
		t.Fatalf("expected piped stdio, got %+v", pipes)
	}
	_ = cmd.Wait()
}

func TestLaunchInheritsStdioByDefault(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/true")
	}
	cfg := config.Defaults()
	cfg.Application = "/bin/true"

	cmd, pipes, err := Launch(cfg, nil, testLogger(t))
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	if pipes.Stdout != nil || pipes.Stderr != nil {
		t.Fatalf("expected no pipes for inherited stdio, got %+v", pipes)
	}
	_ = cmd.Wait()
}
