package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rankdeck/rankdeck/internal/service"
	"github.com/rankdeck/rankdeck/pkg/config"
	"github.com/rankdeck/rankdeck/pkg/debug"
	"github.com/rankdeck/rankdeck/pkg/export"
	"github.com/rankdeck/rankdeck/pkg/trend"
	"github.com/rankdeck/rankdeck/pkg/ui"
	"github.com/rankdeck/rankdeck/pkg/version"
	"github.com/rankdeck/rankdeck/pkg/watcher"
)

func main() {
	serverFlag := flag.String("server", "", "Ranking service base URL (overrides config)")
	sourceFlag := flag.String("source", "", "Default source id to select on start")
	versionFlag := flag.Bool("version", false, "Show version")
	exportChart := flag.String("export-chart", "", "Export the trend chart for a title and exit")
	exportSQLite := flag.Bool("export-sqlite", false, "Export today's all-sources rankings to SQLite and exit")
	outFlag := flag.String("out", "", "Output path for --export-chart / --export-sqlite")
	forcePoll := flag.Bool("force-poll", false, "Use stat polling instead of fsnotify for config reload")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("rd %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		cfg = config.DefaultConfig()
	}
	if *serverFlag != "" {
		cfg.Server.URL = *serverFlag
	}
	if *sourceFlag != "" {
		cfg.UI.DefaultSource = *sourceFlag
	}

	client := service.New(cfg.Server.URL)

	if *exportChart != "" {
		if err := runExportChart(client, cfg, *exportChart, *outFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}
	if *exportSQLite {
		if err := runExportSQLite(client, cfg, *outFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "rd requires a terminal; use --export-chart or --export-sqlite for headless runs")
		os.Exit(1)
	}

	w, err := watcher.New(config.ConfigPath(), watcher.WithForcePoll(*forcePoll))
	if err == nil {
		if startErr := w.Start(); startErr != nil {
			debug.Log("config watcher disabled: %v", startErr)
			w = nil
		}
	} else {
		debug.Log("config watcher disabled: %v", err)
		w = nil
	}

	m := ui.NewModel(client, cfg, w)
	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(os.Stderr, "Error running rankdeck: %v\n", err)
		os.Exit(1)
	}
}

func runExportChart(client *service.Client, cfg config.Config, title, out string) error {
	ctx, cancel := context.WithTimeout(context.Background(), service.DefaultTimeout)
	defer cancel()

	points, err := client.Trend(ctx, title, cfg.UI.TrendDays)
	if err != nil {
		return err
	}
	series := trend.Build(points)
	if series.Empty() {
		return fmt.Errorf("no trend data for %q", title)
	}

	if out == "" {
		name := strings.ReplaceAll(title, " ", "_") + "_trend." + cfg.Export.Format
		out = filepath.Join(cfg.ExportDir(), name)
	}
	if err := export.SaveTrendChart(export.ChartOptions{Path: out, Title: title, Series: series}); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d points)\n", out, len(series.Points))
	return nil
}

func runExportSQLite(client *service.Client, cfg config.Config, out string) error {
	ctx, cancel := context.WithTimeout(context.Background(), service.DefaultTimeout)
	defer cancel()

	set, err := client.Rankings(ctx, service.FetchOptions{})
	if err != nil {
		return err
	}
	if out == "" {
		name := "rankings_" + strings.ReplaceAll(set.Date, "-", "") + ".db"
		out = filepath.Join(cfg.ExportDir(), name)
	}
	if err := export.NewSnapshotExporter(set, out).Export(); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d items)\n", out, len(set.Items))
	return nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated runs: set RD_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("RD_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	return err
}
