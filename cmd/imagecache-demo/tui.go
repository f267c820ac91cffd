package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tinyland/imagecache/pkg/imagecache"
	"github.com/tinyland/imagecache/pkg/imagerender"
)

var (
	urlStyle    = lipgloss.NewStyle().Bold(true)
	statusStyle = lipgloss.NewStyle().Faint(true)
)

type tickMsg time.Time

// model polls Cache.GetImage for each URL every interval and renders
// whatever has settled. It never calls WaitForImage: a TUI event loop must
// not block, so it uses the non-blocking query and redraws on each tick
// until every URL reaches a terminal response.
type model struct {
	cache    *imagecache.Cache
	renderer *imagerender.Renderer
	urls     []string
	interval time.Duration
	spin     spinner.Model

	rendered map[string]string
	failed   map[string]bool
}

func newModel(cache *imagecache.Cache, renderer *imagerender.Renderer, urls []string, interval time.Duration) model {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = statusStyle

	return model{
		cache:    cache,
		renderer: renderer,
		urls:     urls,
		interval: interval,
		spin:     sp,
		rendered: make(map[string]string),
		failed:   make(map[string]bool),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tick(m.interval), m.spin.Tick)
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}

	case tickMsg:
		for _, url := range m.urls {
			if _, done := m.rendered[url]; done {
				continue
			}
			if m.failed[url] {
				continue
			}

			resp := m.cache.GetImage(url)
			switch r := resp.(type) {
			case imagecache.ImageReadyResponse:
				out, err := m.renderer.Render(r.Image, 40, 20)
				if err != nil {
					m.failed[url] = true
					continue
				}
				m.rendered[url] = out
			case imagecache.ImageFailedResponse:
				m.failed[url] = true
			case imagecache.ImageNotReadyResponse:
				// keep polling
			}
		}

		if m.allSettled() {
			return m, tea.Quit
		}
		return m, tick(m.interval)

	default:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m model) allSettled() bool {
	for _, url := range m.urls {
		if _, done := m.rendered[url]; done {
			continue
		}
		if m.failed[url] {
			continue
		}
		return false
	}
	return true
}

func (m model) View() string {
	var b strings.Builder
	for _, url := range m.urls {
		b.WriteString(urlStyle.Render(url))
		b.WriteString("\n")
		switch {
		case m.failed[url]:
			b.WriteString(statusStyle.Render("failed to load"))
		case m.rendered[url] != "":
			b.WriteString(m.rendered[url])
		default:
			b.WriteString(m.spin.View())
			b.WriteString(statusStyle.Render(" loading..."))
		}
		b.WriteString("\n\n")
	}
	b.WriteString(statusStyle.Render(fmt.Sprintf("%d url(s), q to quit", len(m.urls))))
	return b.String()
}
