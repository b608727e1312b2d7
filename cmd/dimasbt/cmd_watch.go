package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dimasbt/internal/behavior"
	"dimasbt/internal/tree"
	"dimasbt/internal/ui"
	"dimasbt/internal/xmlfactory"
)

// watchCmd runs a tree inside a live TUI, re-rendering node statuses every
// tick and rebuilding the tree whenever the XML file changes on disk.
var watchCmd = &cobra.Command{
	Use:   "watch <tree.xml>",
	Short: "Run a tree in a live view with XML hot-reload",
	Long: `Ticks the tree at the configured interval inside a terminal UI that
shows every node's current status. Saving the XML file rebuilds the
tree from scratch and restarts execution.

Keys: q quits, r resets the tree.`,
	Args: cobra.ExactArgs(1),
	RunE: watchTree,
}

func watchTree(cmd *cobra.Command, args []string) error {
	path := args[0]
	logger.Info("Watching tree", zap.String("file", path))

	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}
	factory := xmlfactory.New(registry)

	m := newWatchModel(factory, path, cfg.Agent.TickInterval)
	p := tea.NewProgram(m, tea.WithAltScreen())

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	defer watcher.Close()
	// Watch the directory, not the file: editors that write-and-rename
	// would otherwise drop the watch after the first save.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	go func() {
		base := filepath.Base(path)
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					p.Send(fileChangedMsg{})
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	_, err = p.Run()
	return err
}

type tickMsg time.Time

type fileChangedMsg struct{}

var (
	watchTitleStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	watchFooterStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	watchErrorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Padding(0, 1)
)

// watchModel is the Bubble Tea model behind watch: the factory and file
// it rebuilds from, the current tree (nil after a failed rebuild), and a
// viewport holding the rendered hierarchy.
type watchModel struct {
	factory  *xmlfactory.Factory
	path     string
	interval time.Duration

	bt       *tree.BehaviorTree
	last     behavior.Status
	buildErr error
	tickErr  error

	vp    viewport.Model
	ready bool
}

func newWatchModel(factory *xmlfactory.Factory, path string, interval time.Duration) watchModel {
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}
	m := watchModel{factory: factory, path: path, interval: interval}
	m.rebuild()
	return m
}

func (m *watchModel) rebuild() {
	if m.bt != nil {
		m.bt.Halt()
	}
	m.bt, m.buildErr = buildFromFile(m.factory, m.path)
	m.last = behavior.Idle
	m.tickErr = nil
}

func (m watchModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m watchModel) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.bt != nil {
				m.bt.Reset()
				m.last = behavior.Idle
				m.tickErr = nil
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		headerHeight := 2
		footerHeight := 2
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - headerHeight - footerHeight
		}
		m.refreshContent()
		return m, nil

	case fileChangedMsg:
		m.rebuild()
		m.refreshContent()
		return m, nil

	case tickMsg:
		if m.bt != nil && m.tickErr == nil && !m.last.IsCompleted() {
			status, err := m.bt.TickOnce()
			if err != nil {
				m.tickErr = err
			} else {
				m.last = status
			}
		}
		m.refreshContent()
		return m, m.tickCmd()
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m *watchModel) refreshContent() {
	if !m.ready {
		return
	}
	if m.bt == nil {
		m.vp.SetContent("")
		return
	}
	m.vp.SetContent(ui.RenderTree(m.bt.Root()))
}

func (m watchModel) View() string {
	if !m.ready {
		return "loading..."
	}
	header := watchTitleStyle.Render("dimasbt watch - "+m.path) + " " + ui.StatusString(m.last)
	footer := watchFooterStyle.Render("q: quit  r: reset")
	if m.buildErr != nil {
		footer = watchErrorStyle.Render("build failed: " + m.buildErr.Error())
	} else if m.tickErr != nil {
		footer = watchErrorStyle.Render("tick failed: " + m.tickErr.Error())
	}
	return header + "\n" + m.vp.View() + "\n" + footer
}
