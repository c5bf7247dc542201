package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/rigidsim/internal/dynamo"
	"github.com/san-kum/rigidsim/internal/metrics"
	"github.com/san-kum/rigidsim/internal/physics"
	"github.com/san-kum/rigidsim/internal/sim"
)

const (
	canvasWidth     = 60
	canvasHeight    = 20
	historyCapacity = 120

	// PushForce is the magnitude applied per arrow key press, scaled by the
	// selected body's mass so every body gets the same kick.
	PushForce  = 400.0
	PushTorque = 40.0
)

type TickMsg time.Time

// Model is a bubbletea program that steps an engine on a timer. Key presses
// are pushed onto a physics.Queue and applied between steps.
type Model struct {
	eng      *physics.Engine
	queue    *physics.Queue
	ctrls    []sim.Controller
	ids      []physics.BodyID
	selected int
	dt       float64
	fps      int
	name     string

	running  bool
	follow   bool
	err      error
	inputErr error

	canvas   *Canvas
	viewport Viewport
	energy   *metrics.KineticEnergy
	history  []float64
	showHelp bool
}

// NewModel builds a live view over eng. Only bodies listed in ids can be
// selected; the viewport starts centred on their centroid.
func NewModel(name string, eng *physics.Engine, ids []physics.BodyID, dt float64, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	m := Model{
		eng:     eng,
		queue:   physics.NewQueue(),
		ids:     ids,
		dt:      dt,
		fps:     fps,
		name:    name,
		running: true,
		canvas:  NewCanvas(canvasWidth, canvasHeight),
		energy:  metrics.NewKineticEnergy(),
		history: make([]float64, 0, historyCapacity),
	}
	m.viewport = Viewport{Center: m.centroid(), Scale: 3}
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	id, hasSel := m.selectedID()

	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case " ", "p":
		if m.err == nil {
			m.running = !m.running
		}
	case "tab":
		if len(m.ids) > 0 {
			m.selected = (m.selected + 1) % len(m.ids)
		}
	case "f":
		m.follow = !m.follow
	case "+", "=":
		m.viewport.Scale *= 1.25
	case "-":
		m.viewport.Scale /= 1.25
	case "?":
		m.showHelp = !m.showHelp
	case "s":
		// single step while paused
		if !m.running && m.err == nil {
			m.advance()
		}
	}

	if !hasSel {
		return m, nil
	}
	mass := 1.0
	if b, err := m.eng.Body(id); err == nil {
		mass = b.Mass()
	}

	switch msg.String() {
	case "left":
		m.queue.ApplyForce(id, dynamo.Vec2{X: -PushForce * mass})
	case "right":
		m.queue.ApplyForce(id, dynamo.Vec2{X: PushForce * mass})
	case "up":
		m.queue.ApplyForce(id, dynamo.Vec2{Y: -PushForce * mass})
	case "down":
		m.queue.ApplyForce(id, dynamo.Vec2{Y: PushForce * mass})
	case "z":
		m.queue.ApplyTorque(id, -PushTorque*mass)
	case "x":
		m.queue.ApplyTorque(id, PushTorque*mass)
	case "0":
		m.queue.SetLinearVelocity(id, dynamo.Vec2{})
		m.queue.SetAngularVelocity(id, 0)
	}
	return m, nil
}

// advance flushes queued input and takes one engine step. A failed step
// pauses the view and keeps the error for display. Rejected input only
// shows a warning until the next flush.
func (m *Model) advance() {
	m.inputErr = m.queue.Flush(m.eng)

	for _, c := range m.ctrls {
		if err := c.Apply(m.eng, m.eng.Time()); err != nil {
			m.err = err
			m.running = false
			return
		}
	}
	if err := m.eng.Step(m.dt); err != nil {
		m.err = err
		m.running = false
		return
	}

	m.energy.Observe(sim.Frame{Time: m.eng.Time(), Bodies: m.eng.Snapshot()})
	if len(m.history) == historyCapacity {
		m.history = m.history[1:]
	}
	m.history = append(m.history, m.energy.Last())
}

func (m Model) selectedID() (physics.BodyID, bool) {
	if len(m.ids) == 0 {
		return 0, false
	}
	return m.ids[m.selected], true
}

func (m Model) centroid() dynamo.Vec2 {
	var sum dynamo.Vec2
	n := 0
	for _, b := range m.eng.Bodies() {
		sum = sum.Add(b.Position())
		n++
	}
	if n == 0 {
		return sum
	}
	return sum.Scale(1 / float64(n))
}

// WithControllers returns a copy of m that runs ctrls before every step.
func (m Model) WithControllers(ctrls ...sim.Controller) Model {
	m.ctrls = append(m.ctrls[:len(m.ctrls):len(m.ctrls)], ctrls...)
	return m
}

func (m Model) Pending() int { return m.queue.Len() }

func (m Model) Running() bool { return m.running }

func (m Model) Err() error { return m.err }

// InputErr is the error from the last flush of queued input, if any.
func (m Model) InputErr() error { return m.inputErr }

func (m Model) View() string {
	vp := m.viewport
	selID, hasSel := m.selectedID()
	if m.follow && hasSel {
		if b, err := m.eng.Body(selID); err == nil {
			vp.Center = b.Position()
		}
	}

	m.canvas.Clear()
	for _, b := range m.eng.Snapshot() {
		m.canvas.DrawBody(vp, b)
	}

	status := StatusRunning.Render("● running")
	switch {
	case m.err != nil:
		status = StatusError.Render("✕ " + m.err.Error())
	case !m.running:
		status = StatusPaused.Render("❚❚ paused")
	}

	header := Title.Render("rigidsim · "+m.name) + "  " + status
	if m.inputErr != nil {
		header += "\n" + StatusPaused.Render("input rejected: "+m.inputErr.Error())
	}

	var stats strings.Builder
	stats.WriteString(Metric("time", fmt.Sprintf("%.2fs", m.eng.Time())) + "\n")
	stats.WriteString(Metric("steps", fmt.Sprintf("%d", m.eng.Steps())) + "\n")
	stats.WriteString(Metric("bodies", fmt.Sprintf("%d", m.eng.Len())) + "\n\n")

	if hasSel {
		if b, err := m.eng.Body(selID); err == nil {
			stats.WriteString(Selected.Render(fmt.Sprintf("body %v (%v)", b.ID(), b.Shape())) + "\n")
			stats.WriteString(Metric("pos", fmt.Sprintf("%7.2f %7.2f", b.Position().X, b.Position().Y)) + "\n")
			stats.WriteString(Metric("vel", fmt.Sprintf("%7.2f %7.2f", b.Velocity().X, b.Velocity().Y)) + "\n")
			stats.WriteString(Metric("angle", fmt.Sprintf("%7.2f", b.Angle())) + "\n")
			stats.WriteString(Metric("spin", fmt.Sprintf("%7.2f", b.AngularVelocity())) + "\n")
		}
	}
	stats.WriteString("\n" + MetricLabel.Render("energy") + "\n" + Sparkline(m.history, 24))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		Panel.Render(m.canvas.String()),
		Panel.Width(30).Render(stats.String()),
	)

	help := KeyHint.Render("←↑↓→ push · z/x spin · 0 stop · tab select · space pause · ? help · q quit")
	if m.showHelp {
		help = KeyHint.Render(strings.Join([]string{
			"arrows  apply a force to the selected body",
			"z / x   apply torque",
			"0       zero its velocity",
			"tab     select next body",
			"f       follow selected body",
			"+ / -   zoom",
			"space   pause, s steps once while paused",
			"q       quit",
		}, "\n"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, help)
}

func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
