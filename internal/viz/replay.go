package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fountain/internal/dynamo"
)

const (
	defaultWidth  = 72
	defaultHeight = 24
	defaultFPS    = 30
)

type TickMsg time.Time

type ReplayOptions struct {
	Title      string
	Viewport   dynamo.Viewport
	XMin, XMax float64 // container walls
	Width      int     // canvas size in characters
	Height     int
	FPS        int
	Theme      string
}

// Replay plays back a recorded history in the terminal.
type Replay struct {
	history  dynamo.History
	heights  []float64
	opts     ReplayOptions
	canvas   *Canvas
	frame    int
	speed    int
	playing  bool
	theme    int
	showHelp bool
}

func NewReplay(h dynamo.History, opts ReplayOptions) *Replay {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.FPS <= 0 {
		opts.FPS = defaultFPS
	}
	if opts.Viewport.Width() <= 0 || opts.Viewport.Height() <= 0 {
		opts.Viewport = dynamo.Fit(h, 0.05)
	}

	theme := 0
	for i, t := range Themes {
		if t.Name == opts.Theme {
			theme = i
		}
	}

	return &Replay{
		history: h,
		heights: h.Series(dynamo.Snapshot.MaxY),
		opts:    opts,
		canvas:  NewCanvas(opts.Width, opts.Height),
		speed:   1,
		playing: len(h) > 1,
		theme:   theme,
	}
}

func (m *Replay) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m *Replay) Init() tea.Cmd {
	return m.tick()
}

func (m *Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ", "p":
			m.playing = !m.playing
			if m.playing && m.frame == len(m.history)-1 {
				m.frame = 0
			}
		case "]", "right", "l":
			m.playing = false
			m.seek(1)
		case "[", "left", "h":
			m.playing = false
			m.seek(-1)
		case "r":
			m.frame = 0
			m.playing = len(m.history) > 1
		case "+", "=":
			m.speed = min(m.speed*2, 64)
		case "-":
			m.speed = max(m.speed/2, 1)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.playing {
			m.seek(m.speed)
			if m.frame == len(m.history)-1 {
				m.playing = false
			}
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Replay) seek(n int) {
	m.frame = max(0, min(m.frame+n, len(m.history)-1))
}

// Frame is the index of the snapshot on screen.
func (m *Replay) Frame() int { return m.frame }

func (m *Replay) Playing() bool { return m.playing }

func (m *Replay) View() string {
	theme := Themes[m.theme]
	label := lipgloss.NewStyle().Foreground(theme.Muted).Width(12)
	value := lipgloss.NewStyle().Foreground(theme.Text)

	m.canvas.Clear()
	m.canvas.DrawContainer(m.opts.Viewport, m.opts.XMin, m.opts.XMax)

	var s strings.Builder
	title := m.opts.Title
	if title == "" {
		title = "CHAIN FOUNTAIN"
	}
	s.WriteString(HeaderStyle.Render(strings.ToUpper(title)) + "\n\n")

	if len(m.history) == 0 {
		s.WriteString(value.Render("no snapshots recorded") + "\n")
	} else {
		snap := m.history[m.frame]
		m.canvas.DrawChain(m.opts.Viewport, snap.Positions)

		status := "PAUSED"
		if m.playing {
			status = fmt.Sprintf("PLAYING x%d", m.speed)
		}
		s.WriteString(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(status) + "\n\n")
		s.WriteString(label.Render("Time") + value.Render(fmt.Sprintf("%.3fs", snap.Time)) + "\n")
		s.WriteString(label.Render("Frame") + value.Render(fmt.Sprintf("%d/%d", m.frame+1, len(m.history))) + "\n")
		s.WriteString(label.Render("Step") + value.Render(fmt.Sprintf("%d", snap.Step)) + "\n")
		s.WriteString(label.Render("Tip height") + value.Render(fmt.Sprintf("%.4fm", snap.Tip().Y)) + "\n")
		s.WriteString(label.Render("Top link") + value.Render(fmt.Sprintf("%.4fm", snap.MaxY())) + "\n")
		s.WriteString(ProgressBar(float64(m.frame+1)/float64(len(m.history)), 24) + "\n")

		if m.frame > 0 {
			chart := asciigraph.Plot(m.heights[:m.frame+1],
				asciigraph.Height(5), asciigraph.Width(24), asciigraph.Caption("Highest link (m)"))
			s.WriteString("\n" + lipgloss.NewStyle().Foreground(theme.Graph).Render(chart) + "\n")
		}
	}

	help := "SPACE:Play/Pause  [ ]:Step  R:Restart\n+ -:Speed  T:Theme  ?:Help  Q:Quit"
	if m.showHelp {
		help = "Space  play or pause\n" +
			"[ ]    step one frame back or forward\n" +
			"r      restart from the first frame\n" +
			"+ -    double or halve playback speed\n" +
			"t      cycle theme (" + strings.Join(ThemeNames(), ", ") + ")\n" +
			"q      quit"
	}
	s.WriteString("\n" + Subtle.Render(help))

	canvasView := lipgloss.NewStyle().Foreground(theme.Chain).Padding(1, 2).Render(m.canvas.String())
	statsView := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(theme.Muted).
		Padding(1, 2).
		Width(46).
		Render(s.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}

// RunReplay blocks until the user quits.
func RunReplay(h dynamo.History, opts ReplayOptions) error {
	_, err := tea.NewProgram(NewReplay(h, opts), tea.WithAltScreen()).Run()
	return err
}
