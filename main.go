package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"SketchBoard/internal/config"
	"SketchBoard/internal/export"
	"SketchBoard/internal/logger"
	sbnet "SketchBoard/internal/net"
	"SketchBoard/internal/state"
	"SketchBoard/internal/storage"
	"SketchBoard/internal/ui"
)

const appID = "io.sketchboard.app"

func main() {
	configPath := flag.String("config", "sketchboard.yaml", "path to config file")
	share := flag.Bool("share", false, "host the board for other devices on the network")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	debug := flag.Bool("debug", false, "enable debug mode with trace logging")
	flag.Usage = usage
	flag.Parse()

	log := logger.New(logger.WithPrefix("[sketchboard] "))
	log.SetVerbose(*verbose)
	if *debug {
		log.SetLevel(logger.LevelTrace)
	}

	cfg := loadConfig(*configPath, log)
	if *share {
		cfg.Share.Enabled = true
	}

	args := flag.Args()
	switch {
	case len(args) == 0:
		runHost(cfg, log)
	case strings.HasPrefix(args[0], sbnet.LinkScheme):
		runClient(cfg, log, args[0])
	case args[0] == "join":
		runDiscover(cfg, log)
	case args[0] == "render":
		if err := runRender(cfg, log, args[1:]); err != nil {
			log.Fatal("render failed: %v", err)
		}
	case args[0] == "analyze":
		if err := runAnalyze(cfg, log, args[1:]); err != nil {
			log.Fatal("analyze failed: %v", err)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `Usage: sketchboard [flags] [command]

Commands:
  (none)                    open the board
  sketchboard://host:port   join a shared board
  join                      find a shared board on the network and join it
  render  [-page id] [-out file.png|file.pdf]
  analyze [-page id] [-target guidance|recommendations|both]

Flags:
`)
	flag.PrintDefaults()
}

func loadConfig(path string, log *logger.Logger) *config.Config {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("No config at %s, using defaults", path)
		return config.Default()
	}
	if err != nil {
		log.Fatal("Error loading config: %v", err)
	}
	return cfg
}

func newPipeline(cfg *config.Config, pages *state.Collection, log *logger.Logger) *export.Pipeline {
	client := export.NewClient(cfg.Analysis.GuidanceURL, cfg.Analysis.RecommendURL, cfg.Analysis.Timeout)
	return export.NewPipeline(pages, client, export.CaptureOptions{
		Width:  cfg.Canvas.Width,
		Height: cfg.Canvas.Height,
	}, log)
}

func openStore(cfg *config.Config, fa fyne.App) (storage.Store, error) {
	if cfg.Storage.Backend == config.BackendFile || fa == nil {
		return storage.NewFileStore(cfg.Storage.Dir)
	}
	return storage.NewPreferencesStore(fa.Preferences()), nil
}

func runHost(cfg *config.Config, log *logger.Logger) {
	log.Info("Starting as HOST")
	fa := app.NewWithID(appID)

	store, err := openStore(cfg, fa)
	if err != nil {
		log.Fatal("Error opening storage: %v", err)
	}
	bridge := storage.NewBridge(store, cfg.Storage.Key, log)
	pages := state.NewCollection(bridge.Load())
	saver := storage.NewSaver(pages, bridge, cfg.Save.Debounce, log)
	defer saver.Close()

	var shareLink string
	if cfg.Share.Enabled {
		hub := sbnet.NewHub(pages, log)
		srv, err := hub.Serve(cfg.Share.Port)
		if err != nil {
			log.Error("Sharing disabled: %v", err)
		} else {
			defer srv.Close()
			defer hub.Close()
			if mdnsServer, err := sbnet.Advertise(cfg.Share.Port); err != nil {
				log.Error("mDNS advertise failed: %v", err)
			} else {
				defer mdnsServer.Shutdown()
			}
			shareLink = sbnet.ShareLink(sbnet.OutgoingIP(), cfg.Share.Port)
			log.Info("Share link: %s", shareLink)
		}
	}

	a := ui.New(fa, ui.Options{
		Config:    cfg,
		Pages:     pages,
		Pipeline:  newPipeline(cfg, pages, log),
		ShareLink: shareLink,
		Log:       log,
	})
	saver.OnError = a.ReportSaveError
	a.ShowAndRun()
}

// runClient mirrors a host's board. The joined copy is not saved locally so
// it cannot overwrite this device's own pages.
func runClient(cfg *config.Config, log *logger.Logger, link string) {
	log.Info("Starting as CLIENT")
	url, err := sbnet.ParseShareLink(link)
	if err != nil {
		log.Fatal("%v", err)
	}

	fa := app.NewWithID(appID)
	pages := state.NewCollection(nil)
	a := ui.New(fa, ui.Options{
		Title:    "SketchBoard (shared)",
		Config:   cfg,
		Pages:    pages,
		Pipeline: newPipeline(cfg, pages, log),
		Log:      log,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		a.SetStatus("Connecting to " + url)
		session, err := sbnet.Join(ctx, url, pages, log)
		if err != nil {
			a.SetStatus(fmt.Sprintf("Connection failed: %v", err))
			return
		}
		a.SetStatus("Connected to host")
		<-session.Done()
		if err := session.Err(); err != nil {
			a.SetStatus(fmt.Sprintf("Disconnected from host: %v", err))
		}
	}()
	a.ShowAndRun()
}

func runDiscover(cfg *config.Config, log *logger.Logger) {
	log.Info("Looking for shared boards...")
	hosts, err := sbnet.Browse(context.Background(), 3*time.Second)
	if err != nil {
		log.Error("%v", err)
	}
	if len(hosts) == 0 {
		log.Fatal("No shared boards found on this network")
	}
	for _, h := range hosts {
		log.Info("Found %s at %s", h.Name, h.Address)
	}
	runClient(cfg, log, hosts[0].Link())
}

// loadHeadless reads pages from the file store; headless commands have no
// fyne preferences to read from.
func loadHeadless(cfg *config.Config, log *logger.Logger, page string) (*state.Collection, error) {
	store, err := openStore(cfg, nil)
	if err != nil {
		return nil, err
	}
	pages := state.NewCollection(storage.NewBridge(store, cfg.Storage.Key, log).Load())
	if page != "" {
		if _, ok := pages.Page(page); !ok {
			return nil, fmt.Errorf("page %s: %w", page, state.ErrPageNotFound)
		}
		pages.SelectPage(page)
	}
	return pages, nil
}

func runRender(cfg *config.Config, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	page := fs.String("page", "", "page id (default: first page)")
	out := fs.String("out", "", "output file, .png or .pdf (default: export dir)")
	fs.Parse(args)

	pages, err := loadHeadless(cfg, log, *page)
	if err != nil {
		return err
	}
	current := pages.CurrentPage()
	path := *out
	if path == "" {
		path = filepath.Join(cfg.ExportDir, fmt.Sprintf("page-%s.png", current.ID))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		err = export.WritePDF(f, current.Strokes, export.PDFOptions{Title: "Page " + current.ID})
	} else {
		var a *export.Artifact
		a, err = newPipeline(cfg, pages, log).Snapshot(nil)
		if err == nil {
			_, err = f.Write(a.PNG)
		}
	}
	if err != nil {
		return err
	}
	log.Info("Wrote page %s (%d strokes) to %s", current.ID, len(current.Strokes), path)
	return f.Close()
}

func runAnalyze(cfg *config.Config, log *logger.Logger, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	page := fs.String("page", "", "page id (default: first page)")
	target := fs.String("target", "guidance", "guidance, recommendations or both")
	fs.Parse(args)

	req := export.Request{}
	switch *target {
	case "guidance":
		req.Target = export.TargetGuidance
	case "recommendations":
		req.Target = export.TargetRecommendations
	case "both":
		req.Target = export.TargetBoth
	default:
		return fmt.Errorf("unknown target %q", *target)
	}

	pages, err := loadHeadless(cfg, log, *page)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Analysis.Timeout)
	defer cancel()

	res, err := newPipeline(cfg, pages, log).Run(ctx, req)
	if err != nil {
		return err
	}
	if res.Guidance != nil {
		fmt.Println(res.Guidance.Content)
	}
	if r := res.Recommendations; r != nil {
		fmt.Printf("Topic: %s\n", r.ExtractedTopic)
		for _, item := range r.Items {
			fmt.Printf("- %s: %s\n", item.Title, item.Link)
		}
	}
	return nil
}
