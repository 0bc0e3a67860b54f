package viz

import (
	"bytes"
	"image/gif"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/fountain/internal/dynamo"
	"github.com/san-kum/fountain/internal/sim"
)

func history(n int) dynamo.History {
	var h dynamo.History
	for i := 0; i < n; i++ {
		y := 0.01 * float64(i)
		h.Append(i*100, float64(i)*0.01, []r2.Vec{{X: 0, Y: y}, {X: 0.1, Y: 0.5 * y}, {X: 0.2, Y: 0}})
	}
	return h
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCanvasSetAndLine(t *testing.T) {
	c := NewCanvas(4, 2)
	w, h := c.Dots()
	if w != 8 || h != 8 {
		t.Fatalf("expected 8x8 dots, got %dx%d", w, h)
	}

	c.Set(-1, 0)
	c.Set(100, 100)
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal dot (%d,%d) not set", i, i)
		}
	}
	if c.IsSet(7, 0) {
		t.Error("unexpected dot off the diagonal")
	}

	c.Clear()
	if strings.Trim(c.String(), "\u2800\n") != "" {
		t.Error("clear left dots behind")
	}
}

func TestCanvasDrawChain(t *testing.T) {
	c := NewCanvas(10, 5)
	vp := dynamo.Viewport{XMin: 0, XMax: 1, YMin: 0, YMax: 1}
	c.DrawChain(vp, []r2.Vec{{X: 0.5, Y: 0.5}, {X: 1, Y: 0}})

	if !c.IsSet(10, 10) {
		t.Error("link 0 marker missing")
	}
	if !c.IsSet(19, 19) {
		t.Error("last link not reached")
	}
}

func TestReplayKeys(t *testing.T) {
	m := NewReplay(history(10), ReplayOptions{})
	if !m.Playing() {
		t.Fatal("replay should start playing")
	}

	m.Update(key(" "))
	if m.Playing() {
		t.Error("space should pause")
	}

	m.Update(key("]"))
	m.Update(key("]"))
	if m.Frame() != 2 {
		t.Errorf("expected frame 2, got %d", m.Frame())
	}

	m.Update(key("["))
	m.Update(key("["))
	m.Update(key("["))
	if m.Frame() != 0 {
		t.Errorf("scrubbing back should stop at 0, got %d", m.Frame())
	}

	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestReplayTicksToEnd(t *testing.T) {
	m := NewReplay(history(4), ReplayOptions{})
	for i := 0; i < 10; i++ {
		m.Update(TickMsg{})
	}
	if m.Frame() != 3 || m.Playing() {
		t.Errorf("expected to stop on last frame, frame=%d playing=%v", m.Frame(), m.Playing())
	}

	m.Update(key("r"))
	if m.Frame() != 0 || !m.Playing() {
		t.Error("restart should rewind and play")
	}
}

func TestReplayView(t *testing.T) {
	m := NewReplay(history(5), ReplayOptions{Title: "quick", XMin: 0, XMax: 0.2})
	m.Update(key("]"))
	view := m.View()
	for _, want := range []string{"QUICK", "Frame", "2/5", "Highest link"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	empty := NewReplay(nil, ReplayOptions{})
	if !strings.Contains(empty.View(), "no snapshots") {
		t.Error("empty history should say so")
	}
}

func TestWriteGIF(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGIF(&buf, history(6), ReplayOptions{Width: 20, Height: 10, XMax: 0.2}, 2, 5); err != nil {
		t.Fatal(err)
	}

	g, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Image) != 3 {
		t.Errorf("expected 3 frames, got %d", len(g.Image))
	}
	if b := g.Image[0].Bounds(); b.Dx() != 20*cellW || b.Dy() != 10*cellH {
		t.Errorf("unexpected frame size %v", b)
	}

	if err := WriteGIF(&buf, nil, ReplayOptions{}, 1, 5); err == nil {
		t.Error("expected error for empty history")
	}
}

func TestProgressObserver(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 200)
	for i := 0; i < 200; i++ {
		p.OnStep(sim.Frame{Step: i, Time: float64(i) * 1e-4})
	}

	out := buf.String()
	if n := strings.Count(out, "\r"); n != 100 {
		t.Errorf("expected one redraw per percent, got %d", n)
	}
	if !strings.Contains(out, "100%") || !strings.HasSuffix(out, "\n") {
		t.Error("final line should show 100% and end the line")
	}
}

func TestSparkline(t *testing.T) {
	if got := SparklineChart(nil, 4); got != "────" {
		t.Errorf("empty sparkline %q", got)
	}
	if got := SparklineChart([]float64{0, 1}, 2); got != "▁█" {
		t.Errorf("got %q", got)
	}
}

func TestThemes(t *testing.T) {
	if got := GetTheme("retro").Name; got != "retro" {
		t.Errorf("expected retro, got %s", got)
	}
	if got := GetTheme("neon").Name; got != Themes[0].Name {
		t.Errorf("unknown theme should fall back to %s, got %s", Themes[0].Name, got)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Errorf("expected %d theme names", len(Themes))
	}
}

func TestHexColor(t *testing.T) {
	c := hexColor("#00a8cc")
	if c.R != 0 || c.G != 0xa8 || c.B != 0xcc || c.A != 255 {
		t.Errorf("unexpected color %+v", c)
	}
	if c := hexColor("teal"); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("expected white fallback, got %+v", c)
	}
}
