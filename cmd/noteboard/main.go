package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"

	"noteboard/internal/board"
	"noteboard/internal/config"
	"noteboard/internal/logging"
	"noteboard/internal/panel"
	"noteboard/internal/render"
	"noteboard/internal/storage"
	"noteboard/internal/ui"
)

const usage = `usage: noteboard [#today|#week|#all]
       noteboard export [#today|#week|#all]`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	export := false
	if len(args) > 0 && args[0] == "export" {
		export = true
		args = args[1:]
	}
	if len(args) > 1 || (len(args) == 1 && !strings.HasPrefix(args[0], "#")) {
		return errors.New(usage)
	}

	configPath := config.ResolveConfigPath()
	cfg, err := config.LoadOrCreate(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := logging.Init(cfg.LogPath); err != nil {
		fmt.Fprintf(os.Stderr, "logging disabled: %v\n", err)
	}
	defer logging.Close()

	kv, err := storage.Open(cfg.Backend, cfg.DBPath)
	if err != nil {
		return errors.Wrap(err, "failed to open storage")
	}
	defer kv.Close()

	locale := cfg.Locale
	if locale == "" {
		locale = render.LocaleFromEnv()
	}

	store := board.NewStore(storage.NewAdapter(kv, cfg.StorageKey))
	view := render.New(store, render.Options{Locale: locale, Now: time.Now})
	store.SetCollation(view.Dates().Tag())
	if !store.Load() && cfg.DefaultFilter != "" {
		store.SetFilter(cfg.DefaultFilter)
	}
	store.SetRenderer(view)
	if len(args) == 1 {
		store.Navigate(args[0])
	}

	if export {
		return view.WriteHTML(stdout)
	}

	delay, err := cfg.SnapshotDelay()
	if err != nil {
		return err
	}
	deps := ui.Deps{
		Store:  store,
		View:   view,
		Config: cfg,
		Now:    time.Now,
	}
	server, err := panel.Listen(cfg.Panel.Addr)
	if err != nil {
		logging.Pkg("main").Warn("diary panel unavailable", "error", err)
		deps.Sync = panel.NewSync("", nil, delay)
	} else {
		defer server.Close()
		deps.Sync = panel.NewSync(server.Origin(), panel.NewBrowserOpener(server, cfg.Panel.OpenBrowser), delay)
		deps.Inbound = server.Inbound()
	}

	if err := ui.Run(deps); err != nil {
		return errors.Wrap(err, "error running program")
	}
	return nil
}
