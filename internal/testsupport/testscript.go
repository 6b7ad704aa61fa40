// Package testsupport provides the shared harness for CLI script tests: a
// one-time binary build, a per-script fake backend, and a signed-in home
// directory.
package testsupport

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/annumhq/annum/internal/storetest"
	"github.com/annumhq/annum/task"
	"github.com/rogpeppe/go-internal/testscript"
)

// ScriptUserID is the user the script token file signs in as.
const ScriptUserID = "00000000-0000-4000-8000-000000000001"

var (
	buildOnce sync.Once
	annumPath string
	buildErr  error
)

// BuildAnnum builds the annum binary once and returns its path.
func BuildAnnum(t testing.TB) string {
	t.Helper()

	buildOnce.Do(func() {
		moduleRoot, err := findModuleRoot()
		if err != nil {
			buildErr = err
			return
		}

		binDir, err := os.MkdirTemp("", "annum-bin-")
		if err != nil {
			buildErr = err
			return
		}

		annumPath = filepath.Join(binDir, "annum")
		cmd := exec.Command("go", "build", "-o", annumPath, "./cmd/annum")
		cmd.Dir = moduleRoot
		output, err := cmd.CombinedOutput()
		if err != nil {
			buildErr = fmt.Errorf("build annum: %w: %s", err, strings.TrimSpace(string(output)))
		}
	})

	if buildErr != nil {
		t.Fatalf("%v", buildErr)
	}

	return annumPath
}

// SetupScriptEnv configures a script environment: the built binary in
// $ANNUM, a fresh fake backend in $ANNUM_URL, and a signed-in token file.
func SetupScriptEnv(t testing.TB, env *testscript.Env) error {
	t.Helper()

	env.Setenv("ANNUM", BuildAnnum(t))

	backend := storetest.NewServer()
	server := httptest.NewServer(backend)
	env.Defer(server.Close)
	env.Setenv("ANNUM_URL", server.URL)
	env.Setenv("ANNUM_ANON_KEY", "script-anon-key")

	homeDir := filepath.Join(env.WorkDir, "home")
	configDir := filepath.Join(homeDir, ".config", "annum")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)

	tokenPath := filepath.Join(configDir, "token.json")
	if err := writeTokenFile(tokenPath); err != nil {
		return err
	}
	env.Setenv("ANNUM_TOKEN_FILE", tokenPath)
	return nil
}

func writeTokenFile(path string) error {
	token := map[string]any{
		"access_token": "script-access-token",
		"expires_at":   time.Now().Add(24 * time.Hour).Unix(),
		"user":         map[string]any{"id": ScriptUserID},
	}
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// CmdTaskID finds a task by title in a JSON task list file and stores its ID
// in an env var. Usage: taskid FILE TITLE VAR
func CmdTaskID(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("taskid does not support negation")
	}
	if len(args) != 3 {
		ts.Fatalf("usage: taskid FILE TITLE VAR")
	}

	var items []task.Task
	data := ts.ReadFile(args[0])
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		ts.Fatalf("parse task list: %v", err)
	}

	title := args[1]
	for _, item := range items {
		if item.Title == title {
			ts.Setenv(args[2], item.ID)
			return
		}
	}

	ts.Fatalf("task with title %q not found", title)
}

func findModuleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find module root (go.mod)")
		}
		dir = parent
	}
}
