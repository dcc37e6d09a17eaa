package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/fortune/internal/cli/formatter"
	"github.com/alexanderramin/fortune/internal/domain"
	"github.com/alexanderramin/fortune/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type boardKeyMap struct {
	Prev    key.Binding
	Next    key.Binding
	Advance key.Binding
	Emotion key.Binding
	Collect key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func defaultBoardKeys() boardKeyMap {
	return boardKeyMap{
		Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "older")),
		Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "newer")),
		Advance: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "advance mission")),
		Emotion: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "feeling")),
		Collect: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "collect star")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) help() string {
	bindings := []key.Binding{k.Prev, k.Next, k.Advance, k.Emotion, k.Collect, k.Refresh, k.Quit}
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+formatter.Dim(h.Desc))
	}
	return strings.Join(parts, "  ")
}

type boardLoadedMsg struct {
	overview service.Overview
	history  []domain.ProgressRecord
	err      error
}

type boardActionMsg struct {
	status string
	err    error
}

// boardModel shows today's record and lets the user step back through
// earlier days. Actions always apply to today.
type boardModel struct {
	ctx    context.Context
	ritual *service.RitualService
	debug  *service.DebugService

	keys    boardKeyMap
	spinner spinner.Model
	loading bool

	overview service.Overview
	past     []domain.ProgressRecord
	// back counts days shown before today; 0 is today.
	back int

	status string
	err    error
}

func newBoardModel(ctx context.Context, app *App) boardModel {
	return boardModel{
		ctx:     ctx,
		ritual:  app.Ritual,
		debug:   app.Debug,
		keys:    defaultBoardKeys(),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
		loading: true,
	}
}

func (m boardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m boardModel) load() tea.Cmd {
	ctx, ritual := m.ctx, m.ritual
	return func() tea.Msg {
		ov, err := ritual.Overview(ctx)
		if err != nil {
			return boardLoadedMsg{err: err}
		}
		hist, err := ritual.History(ctx)
		return boardLoadedMsg{overview: ov, history: hist, err: err}
	}
}

func (m boardModel) act(fn func(context.Context) (string, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		status, err := fn(ctx)
		return boardActionMsg{status: status, err: err}
	}
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case boardLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.overview = msg.overview
		var past []domain.ProgressRecord
		for _, rec := range msg.history {
			if rec.Day < msg.overview.Day {
				past = append(past, rec)
			}
		}
		m.past = past
		m.back = min(m.back, len(m.past))
		return m, nil

	case boardActionMsg:
		m.err = nil
		switch {
		case msg.err == nil:
			m.status = msg.status
		case formatter.StateMessage(msg.err) != "":
			m.status = formatter.StateMessage(msg.err)
		default:
			m.err = msg.err
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.load())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m boardModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}
	if m.loading {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Prev):
		m.back = min(m.back+1, len(m.past))
	case key.Matches(msg, m.keys.Next):
		m.back = max(m.back-1, 0)
	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.load())
	case key.Matches(msg, m.keys.Advance):
		m.back = 0
		ritual := m.ritual
		return m, m.act(func(ctx context.Context) (string, error) {
			stage, err := ritual.AdvanceMission(ctx)
			return "Mission " + string(stage), err
		})
	case key.Matches(msg, m.keys.Emotion):
		m.back = 0
		ritual := m.ritual
		return m, m.act(func(ctx context.Context) (string, error) {
			out, err := ritual.AnalyzeEmotion(ctx)
			return "Today's feeling: " + out.DisplayName, err
		})
	case key.Matches(msg, m.keys.Collect):
		m.back = 0
		ritual := m.ritual
		return m, m.act(func(ctx context.Context) (string, error) {
			out, err := ritual.CollectStar(ctx)
			return fmt.Sprintf("%s collected (%d/%d)", formatter.Star(out.Emotion), len(out.Ledger), domain.LedgerCapacity), err
		})
	}
	return m, nil
}

func (m boardModel) View() string {
	var b strings.Builder
	if m.loading && m.overview.Day == "" {
		b.WriteString(m.spinner.View() + " Loading...\n")
		return b.String()
	}

	if m.back == 0 {
		b.WriteString(formatter.FormatOverview(m.overview, m.debug.Offset()))
	} else {
		rec := m.past[len(m.past)-m.back]
		b.WriteString(formatter.Header(string(rec.Day)) + "  " + formatter.Dim(formatter.RelativeDay(rec.Day, m.overview.Day)) + "\n\n")
		b.WriteString(formatter.Steps(rec))
	}

	b.WriteString("\n")
	if m.loading {
		b.WriteString(m.spinner.View() + " ")
	}
	if m.err != nil {
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	b.WriteString("\n" + m.keys.help() + "\n")
	return b.String()
}

func newBoardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Browse days and act on today in a live view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return errors.New("board needs a terminal")
			}
			p := tea.NewProgram(newBoardModel(cmd.Context(), app),
				tea.WithContext(cmd.Context()),
				tea.WithAltScreen(),
			)
			_, err := p.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
}
