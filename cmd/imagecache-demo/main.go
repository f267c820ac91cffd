// Command imagecache-demo fetches a handful of images over HTTP, decodes
// them through pkg/imagecache, and renders the result to the terminal via
// pkg/imagerender, polling with a small Bubbletea program.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/tinyland/imagecache/pkg/config"
	"github.com/tinyland/imagecache/pkg/imagecache"
	"github.com/tinyland/imagecache/pkg/imagerender"
	"github.com/tinyland/imagecache/pkg/resource"
	"github.com/tinyland/imagecache/pkg/terminal"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config.toml (defaults to XDG search path)")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()
	urls := flag.Args()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	runID := uuid.New().String()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).With("run", runID)
	slog.SetDefault(logger)

	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "usage: imagecache-demo [-config path] [-v] <url> [url...]")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("imagecache-demo: failed to load config", "error", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: cfg.Resource.RequestTimeout.Duration}
	rs := resource.NewHTTPService(client, logger)
	defer rs.Exit()

	cache := imagecache.New(rs, imagecache.WithLogger(logger))
	defer cache.Exit()

	if cfg.Demo.MaxResident > 0 {
		// Evictor registers itself as a cache observer; the demo never
		// needs to call back into it directly.
		imagecache.NewSizeBoundedEvictor(cache, cfg.Demo.MaxResident)
	}

	caps := *terminal.DetectCapabilities()
	renderer := imagerender.NewRenderer(caps, imagerender.Config{
		Protocol:       cfg.Render.Protocol,
		MaxCacheSizeMB: cfg.Render.MaxCacheSizeMB,
	})

	for _, url := range urls {
		cache.Prefetch(url)
		cache.Decode(url)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) {
		if err := runHeadless(cache, renderer, urls, logger); err != nil {
			logger.Error("imagecache-demo: one or more URLs failed", "error", err)
			os.Exit(1)
		}
		return
	}

	m := newModel(cache, renderer, urls, cfg.Demo.PollInterval.Duration)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		logger.Error("imagecache-demo: tui exited with error", "error", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

// runHeadless is used when stdout is not a TTY (e.g. piped output or CI).
// Each URL blocks its own goroutine on WaitForImage via the synchronous
// wrapper; errgroup.Group collects the first render/fetch error across all
// of them while letting every URL settle independently rather than
// serializing on the slowest one.
func runHeadless(cache *imagecache.Cache, renderer *imagerender.Renderer, urls []string, logger *slog.Logger) error {
	sync := imagecache.NewSynchronousCache(cache)
	outputs := make([]string, len(urls))

	var g errgroup.Group
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			resp := sync.GetImage(url)
			switch r := resp.(type) {
			case imagecache.ImageReadyResponse:
				out, err := renderer.Render(r.Image, 40, 20)
				if err != nil {
					return fmt.Errorf("render %s: %w", url, err)
				}
				outputs[i] = out
				return nil
			case imagecache.ImageFailedResponse:
				return fmt.Errorf("%s: fetch or decode failed", url)
			default:
				return fmt.Errorf("%s: unexpected response %T", url, r)
			}
		})
	}

	err := g.Wait()
	for i, url := range urls {
		if outputs[i] == "" {
			continue
		}
		fmt.Println(url)
		fmt.Println(outputs[i])
	}
	return err
}
