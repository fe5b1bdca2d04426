// Command gestora is the terminal client for the Gestora task
// management backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gestora/gestora/internal/api"
	"github.com/gestora/gestora/internal/app"
	"github.com/gestora/gestora/internal/cache"
	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/session"
	"github.com/gestora/gestora/internal/store"
	gestorasync "github.com/gestora/gestora/internal/sync"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the configuration file")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gestora: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "gestora: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *model.AppConfig) error {
	client := api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSec)*time.Second)

	// The offline cache is best-effort: a failure to open it degrades
	// to a purely online session instead of aborting startup.
	cachePath := cfg.Cache.Path
	if cachePath == "" {
		cachePath = model.DefaultCachePath()
	}
	c, err := cache.Open(cachePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "gestora: offline cache unavailable: %v\n", err)
		c = nil
	} else {
		defer c.Close()
	}

	tr := i18n.New(cfg.Display.Language)

	tasks := store.NewTaskStore()
	users := store.NewUserStore()
	notifications := store.NewNotificationStore(nil)
	activityStore := store.NewActivityStore(nil)

	sess := session.NewManager(client, session.KeyringTokenStore{}, c)

	feedback := gestorasync.NewFeedback(notifications, sess, tr)
	activities := gestorasync.NewActivityLog(activityStore, c)
	taskService := gestorasync.NewTaskService(client, sess, tasks, feedback, activities, tr)
	userService := gestorasync.NewUserService(client, sess, users, feedback, activities, tr)
	notifService := gestorasync.NewNotificationService(client, sess, notifications, c, feedback, tr)

	// Seed the notification inbox and activity trail from the last
	// cached snapshots so something is visible before the first fetch.
	if c != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := notifService.RestoreCached(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "gestora: restoring notifications: %v\n", err)
		}
		if err := activities.Restore(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "gestora: restoring activity trail: %v\n", err)
		}
		cancel()
	}

	refresher := gestorasync.NewRefresher(
		notifService,
		time.Duration(cfg.Display.NotificationPollSec)*time.Second,
	)
	defer refresher.Stop()

	root := app.New(app.Deps{
		Session:       sess,
		Tasks:         taskService,
		Users:         userService,
		Notifications: notifService,
		Activities:    activities,
		Refresher:     refresher,
		TaskStore:     tasks,
		UserStore:     users,
		NotifStore:    notifications,
		Translator:    tr,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running application: %w", err)
	}
	return nil
}
