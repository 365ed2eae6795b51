package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/biotree/pkg/engine"
	"github.com/matzehuels/biotree/pkg/errors"
	"github.com/matzehuels/biotree/pkg/hierarchy"
	"github.com/matzehuels/biotree/pkg/render"
	"github.com/matzehuels/biotree/pkg/render/term"
)

const (
	frameInterval = time.Second / 30
	statusRows    = 2
	panCells      = 4
	zoomStep      = 1.25
)

var (
	exploreStatusStyle = lipgloss.NewStyle().Foreground(colorWhite).Background(lipgloss.Color("236"))
	exploreHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
	explorePromptStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	exploreErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

const exploreHelp = "↑/↓ move  ←/→ parent/child  ⏎ toggle  e expand  c collapse  E expand all  / path  HJKL pan  +/- zoom  q quit"

// exploreCommand creates the interactive terminal viewer.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		lf    loadFlags
		focus string
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "explore [source]",
		Short: "Explore a hierarchy interactively in the terminal",
		Long: `Explore a hierarchy interactively in the terminal.

The focused node and its children are framed on screen and every change
animates. Move with the arrow keys, toggle with enter, type / to jump to a
path. The mouse works too: click a node to toggle and focus it, drag to pan,
scroll to zoom.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := c.location(args)
			if err != nil {
				return err
			}

			// The program owns the terminal; engine logs would tear the frame.
			ctx := cmd.Context()
			cmd.SetContext(withLogger(ctx, quietLogger()))
			e, err := c.load(cmd, location, &lf)
			if err != nil {
				return err
			}
			if focus != "" {
				if _, _, err := e.FocusPath(hierarchy.ParsePath(focus)); err != nil {
					return err
				}
			}

			var opts []term.Option
			if plain {
				opts = append(opts, term.WithPlain())
			}
			m := newExploreModel(e, term.New(opts...), time.Now)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}
	cmd.Flags().StringVar(&focus, "focus", "", "start focused on the node at this path")
	cmd.Flags().BoolVar(&plain, "plain", false, "draw without colors")
	lf.register(cmd)

	return cmd
}

// =============================================================================
// Model
// =============================================================================

// frameMsg advances the animation.
type frameMsg time.Time

// exploreModel is the bubbletea model of the terminal viewer. The cursor is
// always the engine's focused node.
type exploreModel struct {
	engine *engine.Engine
	canvas *term.Canvas
	theme  render.Theme
	now    func() time.Time

	scene         render.Scene
	width, height int

	prompt  bool   // reading a path after "/"
	input   string // path typed so far
	message string // one-shot status text
	err     error  // last failed action

	pressed      bool
	moved        bool
	lastX, lastY int

	quitting bool
}

func newExploreModel(e *engine.Engine, canvas *term.Canvas, now func() time.Time) *exploreModel {
	return &exploreModel{
		engine: e,
		canvas: canvas,
		theme:  render.DefaultTheme(),
		now:    now,
	}
}

func (m *exploreModel) Init() tea.Cmd {
	return frame()
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.scene = m.engine.Tick(time.Time(msg))
		return m, frame()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		size := m.canvas.PixelSize(msg.Width, max(1, msg.Height-statusRows))
		m.do(m.engine.Resize(size.W, size.H))

	case tea.KeyMsg:
		if m.prompt {
			m.updatePrompt(msg)
			break
		}
		if cmd := m.updateKey(msg); cmd != nil {
			return m, cmd
		}

	case tea.MouseMsg:
		m.updateMouse(msg)
	}

	m.scene = m.engine.Tick(m.now())
	return m, nil
}

func (m *exploreModel) updateKey(msg tea.KeyMsg) tea.Cmd {
	e := m.engine
	t := e.Tree()
	cur := e.Focused()
	m.message, m.err = "", nil

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return tea.Quit
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "left", "h":
		if p := t.Node(cur).Parent; p != hierarchy.None {
			m.do(e.Focus(p))
		}
	case "right", "l":
		n := t.Node(cur)
		if n.Pres.Kind() == hierarchy.KindCollapsed {
			_, err := e.Toggle(cur)
			m.do(err)
		}
		if kids := n.Pres.Children(); len(kids) > 0 {
			m.do(e.Focus(kids[0]))
		}
	case "enter", " ", "space":
		if _, err := e.Toggle(cur); err != nil {
			m.do(err)
			break
		}
		m.do(e.Focus(cur))
	case "e":
		m.do(e.ExpandToDepth(cur, t.Node(cur).Depth+2))
	case "c":
		m.do(e.CollapseAll(cur))
	case "E":
		m.do(e.ExpandAll(cur))
	case "r":
		m.do(e.Focus(cur))
	case "/":
		m.prompt, m.input = true, ""
	case "H":
		m.pan(-panCells, 0)
	case "L":
		m.pan(panCells, 0)
	case "K":
		m.pan(0, -panCells)
	case "J":
		m.pan(0, panCells)
	case "+", "=":
		m.zoom(zoomStep)
	case "-":
		m.zoom(1 / zoomStep)
	}
	return nil
}

func (m *exploreModel) updatePrompt(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.prompt = false
	case tea.KeyEnter:
		m.prompt = false
		path := hierarchy.ParsePath(m.input)
		if err := errors.ValidatePathSegments(path); err != nil {
			m.do(err)
			return
		}
		id, found, err := m.engine.FocusPath(path)
		if err != nil {
			m.do(err)
			return
		}
		if !found {
			t := m.engine.Tree()
			m.message = fmt.Sprintf("no node at %s (stopped at %s)", m.input, hierarchy.FormatPath(t.PathOf(id)))
		}
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.input += string(msg.Runes)
	}
}

func (m *exploreModel) updateMouse(msg tea.MouseMsg) {
	e := m.engine
	at := m.canvas.CellAt(msg.X, msg.Y)

	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.do(e.Zoom(zoomStep, at.X, at.Y))
	case msg.Button == tea.MouseButtonWheelDown:
		m.do(e.Zoom(1/zoomStep, at.X, at.Y))

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		var key hierarchy.StableID
		if id, ok := e.HitTest(at.X, at.Y); ok {
			key = e.Tree().Node(id).StableID
		}
		if err := e.BeginDrag(key); err != nil {
			m.do(err)
			return
		}
		m.pressed, m.moved = true, false
		m.lastX, m.lastY = msg.X, msg.Y

	case msg.Action == tea.MouseActionMotion && m.pressed:
		from, to := m.canvas.CellAt(m.lastX, m.lastY), at
		m.do(e.DragBy(to.X-from.X, to.Y-from.Y))
		m.moved = m.moved || msg.X != m.lastX || msg.Y != m.lastY
		m.lastX, m.lastY = msg.X, msg.Y

	case msg.Action == tea.MouseActionRelease && m.pressed:
		e.EndDrag()
		m.pressed = false
		if !m.moved {
			_, _, err := e.Click(at.X, at.Y)
			m.do(err)
		}
	}
}

// move focuses the visible node delta rows away from the cursor.
func (m *exploreModel) move(delta int) {
	visible := m.engine.Tree().Visible()
	cur := m.engine.Focused()
	i := 0
	for j, id := range visible {
		if id == cur {
			i = j
			break
		}
	}
	i = min(max(i+delta, 0), len(visible)-1)
	if visible[i] != cur {
		m.do(m.engine.Focus(visible[i]))
	}
}

func (m *exploreModel) pan(cols, rows int) {
	size := m.canvas.PixelSize(cols, rows)
	if err := m.engine.BeginDrag(0); err != nil {
		m.do(err)
		return
	}
	defer m.engine.EndDrag()
	m.do(m.engine.DragBy(size.W, size.H))
}

func (m *exploreModel) zoom(factor float64) {
	c := m.engine.Canvas()
	m.do(m.engine.Zoom(factor, c.W/2, c.H/2))
}

// do records the error of an action for the status line.
func (m *exploreModel) do(err error) {
	if err != nil {
		m.err = err
	}
}

func (m *exploreModel) View() string {
	if m.quitting {
		return ""
	}

	_ = render.Paint(m.canvas, m.scene, m.theme)
	var b strings.Builder
	b.WriteString(m.canvas.String())
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(exploreHelpStyle.Render(truncate(exploreHelp, m.width)))
	return b.String()
}

// statusLine shows the prompt, the last error or message, or the focused
// node.
func (m *exploreModel) statusLine() string {
	if m.prompt {
		return explorePromptStyle.Render("/") + m.input + "▏"
	}
	if m.err != nil {
		return exploreErrorStyle.Render(truncate(errors.UserMessage(m.err), m.width))
	}

	t := m.engine.Tree()
	id := m.engine.Focused()
	n := t.Node(id)
	line := fmt.Sprintf(" %s  %s  %d/%d visible", hierarchy.FormatPath(t.PathOf(id)), n.Pres.Kind(), len(m.scene.Nodes), t.Len())
	if m.message != "" {
		line += "  " + m.message
	}
	return exploreStatusStyle.Render(truncate(line, m.width))
}

// truncate cuts s to width runes; a non-positive width leaves it alone.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
