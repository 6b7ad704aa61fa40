package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/annumhq/annum/internal/auth"
	"github.com/annumhq/annum/internal/config"
	"github.com/annumhq/annum/internal/postgrest"
	"github.com/annumhq/annum/profile"
	"github.com/annumhq/annum/session"
	"github.com/annumhq/annum/task"
	"github.com/annumhq/annum/timer"
)

// app wires the configuration, auth session, and stores for one invocation.
type app struct {
	cfg         *config.Config
	session     *auth.Session
	api         *postgrest.Client
	coordinator *timer.Coordinator
	profiles    *profile.Store
	taskStore   *task.Store
}

// newApp loads config and auth state and builds the store stack. It does not
// touch the network.
func newApp() (*app, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cwd)
	if err != nil {
		return nil, err
	}
	if cfg.Backend.URL == "" {
		return nil, fmt.Errorf("no backend configured: set ANNUM_URL or [backend] url in annum.toml")
	}

	tokenFile := cfg.Auth.TokenFile
	if tokenFile == "" {
		tokenFile, err = defaultTokenFile()
		if err != nil {
			return nil, err
		}
	}
	sess, err := auth.Load(tokenFile)
	if err != nil {
		return nil, err
	}

	api := postgrest.NewClient(cfg.Backend.URL, cfg.Backend.AnonKey, sess)
	application := &app{
		cfg:       cfg,
		session:   sess,
		api:       api,
		profiles:  profile.NewStore(api),
		taskStore: task.NewStore(api),
	}

	if sess.Valid() {
		manager := task.NewManager(application.taskStore, sess.UserID)
		engine := timer.NewEngine(
			session.NewStore(api),
			manager,
			sess.UserID,
			// One-shot invocations need session bookkeeping settled
			// before the process exits.
			timer.WithDetach(func(fn func()) { fn() }),
			timer.WithLogf(func(format string, args ...any) {
				fmt.Fprintf(os.Stderr, "annum: "+format+"\n", args...)
			}),
		)
		application.coordinator = timer.NewCoordinator(manager, engine)
	}
	return application, nil
}

// requireUser returns the coordinator for the signed-in user.
func (a *app) requireUser() (*timer.Coordinator, error) {
	if a.coordinator == nil {
		return nil, fmt.Errorf("not signed in: no valid token file found")
	}
	return a.coordinator, nil
}

// loadTasks refreshes today's list and rebinds the timer to the in-progress
// task, if any, so elapsed time from an earlier invocation is adopted from
// its open session.
func (a *app) loadTasks(ctx context.Context) ([]task.Task, error) {
	coordinator, err := a.requireUser()
	if err != nil {
		return nil, err
	}
	tasks, err := coordinator.Tasks().List(ctx)
	if err != nil {
		return nil, err
	}
	if active := coordinator.Tasks().Active(); active != nil {
		coordinator.Engine().Activate(ctx, *active)
	}
	return tasks, nil
}

func (a *app) userID() string {
	if a.session == nil {
		return ""
	}
	return a.session.UserID
}

func defaultTokenFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "annum", "token.json"), nil
}
