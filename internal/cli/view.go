package cli

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/procmap/pkg/dag"
	"github.com/matzehuels/procmap/pkg/graph"
	"github.com/matzehuels/procmap/pkg/layout"
	"github.com/matzehuels/procmap/pkg/pipeline"
)

const (
	// defaultMoveStep is how far one arrow key press moves a node, in pixels.
	defaultMoveStep = 10.0

	// cellWidth is the width of one grid column in the viewer.
	cellWidth = 14
)

// Viewer styles
var (
	viewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Reverse(true)
	viewProcessStyle  = lipgloss.NewStyle().Foreground(colorLane).Bold(true)
	viewNormalStyle   = lipgloss.NewStyle().Foreground(colorText)
	viewDimStyle      = lipgloss.NewStyle().Foreground(colorFaint)
	viewMovedStyle    = lipgloss.NewStyle().Foreground(colorWarn)
)

// viewCommand creates the interactive layout viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		output string
		step   float64
		flags  layoutFlags
	)

	cmd := &cobra.Command{
		Use:   "view [input.json|input.yaml]",
		Short: "Explore a layout interactively",
		Long: `Explore a layout interactively.

Select a node with tab, move it with the arrow keys and watch the edges
routed through it being redrawn. Press r to restore the initial layout and
w to write the current layout, including moved nodes, to a file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], output, step, flags)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file written by 'w' (default: <input>.layout.json)")
	cmd.Flags().Float64Var(&step, "step", defaultMoveStep, "pixels moved per key press")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runView(ctx context.Context, input, output string, step float64, flags layoutFlags) error {
	in, err := pipeline.ParseFile(ctx, input)
	if err != nil {
		return fmt.Errorf("load input %s: %w", input, err)
	}
	if output == "" {
		output = basePath("", input) + ".layout.json"
	}

	e := pipeline.NewEngine(ctx, in, c.options(flags))
	m := newViewModel(e, output, step)
	if len(m.order) == 0 {
		c.out().warning("Nothing to show: the input has no paths")
		return nil
	}

	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return fmt.Errorf("run viewer: %w", err)
	}
	if vm, ok := final.(viewModel); ok && vm.written != "" {
		p := c.out()
		p.success("Layout written")
		p.file(vm.written)
	}
	return nil
}

// =============================================================================
// viewModel - Interactive layout editing
// =============================================================================

// viewModel is the bubbletea model of the layout viewer. The engine is
// shared between copies of the model; bubbletea runs Update on a single
// goroutine.
type viewModel struct {
	engine *layout.Engine
	names  map[dag.NodeID]string
	order  []dag.NodeID // selectable nodes by rank, then column
	cursor int
	step   float64
	output string

	status  string
	written string
	width   int
}

// newViewModel initializes e and builds the model around its result.
func newViewModel(e *layout.Engine, output string, step float64) viewModel {
	res := e.Init()
	e.DrawEdges()

	m := viewModel{
		engine: e,
		names:  make(map[dag.NodeID]string, len(res.Nodes)),
		step:   step,
		output: output,
	}
	if m.step <= 0 {
		m.step = defaultMoveStep
	}
	for _, el := range res.Nodes {
		m.names[dag.NodeID(el.ID)] = el.Name
	}

	if g := e.Graph(); g != nil {
		nodes := slices.Clone(g.Nodes())
		slices.SortFunc(nodes, func(a, b *dag.Node) int {
			return cmp.Or(cmp.Compare(a.Rank, b.Rank), cmp.Compare(a.Column, b.Column))
		})
		for _, n := range nodes {
			if !n.IsSynthetic() {
				m.order = append(m.order, n.ID)
			}
		}
	}
	return m
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "n":
			if len(m.order) > 0 {
				m.cursor = (m.cursor + 1) % len(m.order)
			}
		case "shift+tab", "p":
			if len(m.order) > 0 {
				m.cursor = (m.cursor + len(m.order) - 1) % len(m.order)
			}
		case "up", "k":
			m.move(0, -m.step)
		case "down", "j":
			m.move(0, m.step)
		case "left", "h":
			m.move(-m.step, 0)
		case "right", "l":
			m.move(m.step, 0)
		case "r":
			lines := m.engine.Reset()
			m.status = fmt.Sprintf("reset, redrew %d lines", len(lines))
		case "w":
			if err := graph.WriteLayoutFile(m.engine.Export(), m.output); err != nil {
				m.status = "write failed: " + err.Error()
			} else {
				m.written = m.output
				m.status = "wrote " + m.output
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// move shifts the selected node by (dx, dy) pixels.
func (m *viewModel) move(dx, dy float64) {
	id, ok := m.selected()
	if !ok {
		return
	}
	n, ok := m.engine.Graph().Node(id)
	if !ok {
		return
	}
	at := n.Geometry.Translate
	lines := m.engine.MoveNode(id, at.X+dx, at.Y+dy)
	m.status = fmt.Sprintf("moved %s, redrew %d lines", m.names[id], len(lines))
}

func (m viewModel) selected() (dag.NodeID, bool) {
	if m.cursor < 0 || m.cursor >= len(m.order) {
		return 0, false
	}
	return m.order[m.cursor], true
}

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Process Layout"))
	b.WriteString("\n")
	b.WriteString(viewDimStyle.Render("tab select  ←↑↓→ move  r reset  w write  q quit"))
	b.WriteString("\n\n")
	b.WriteString(m.grid())
	b.WriteString("\n")

	if id, ok := m.selected(); ok {
		if n, ok := m.engine.Graph().Node(id); ok {
			at := n.Geometry.Translate
			writeKV(&b, "Node", m.names[id])
			writeKV(&b, "Grid", fmt.Sprintf("rank %d, column %d", n.Rank, n.Column))
			writeKV(&b, "Position", fmt.Sprintf("%.0f, %.0f", at.X, at.Y))
		}
	}
	writeKV(&b, "Moved", fmt.Sprintf("%d nodes", len(m.engine.Moved())))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(viewDimStyle.Render(m.status))
	}

	out := b.String()
	if m.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(m.width).Render(out)
	}
	return out
}

// grid draws one line per rank with every node in its column cell.
// Synthetic nodes are drawn as dots.
func (m viewModel) grid() string {
	g := m.engine.Graph()
	if g == nil {
		return ""
	}
	sel, _ := m.selected()
	moved := m.engine.Moved()

	rows := map[int][]*dag.Node{}
	maxRank := 0
	for _, n := range g.Nodes() {
		rows[n.Rank] = append(rows[n.Rank], n)
		maxRank = max(maxRank, n.Rank)
	}

	var b strings.Builder
	for rank := 0; rank <= maxRank; rank++ {
		nodes := rows[rank]
		slices.SortFunc(nodes, func(a, c *dag.Node) int { return cmp.Compare(a.Column, c.Column) })

		col := 0
		for _, n := range nodes {
			if n.Column > col {
				b.WriteString(strings.Repeat(" ", (n.Column-col)*cellWidth))
				col = n.Column
			}
			if n.Column < col {
				continue
			}
			b.WriteString(m.cell(n, n.ID == sel, slices.Contains(moved, n.ID)))
			col++
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m viewModel) cell(n *dag.Node, selected, moved bool) string {
	label := "·"
	if !n.IsSynthetic() {
		label = m.names[n.ID]
		if moved {
			label = "*" + label
		}
	}
	if r := []rune(label); len(r) > cellWidth-2 {
		label = string(r[:cellWidth-3]) + "…"
	}
	text := fmt.Sprintf("%-*s", cellWidth, label)

	switch {
	case selected:
		return viewSelectedStyle.Render(text)
	case n.IsSynthetic():
		return viewDimStyle.Render(text)
	case moved:
		return viewMovedStyle.Render(text)
	case n.Process:
		return viewProcessStyle.Render(text)
	default:
		return viewNormalStyle.Render(text)
	}
}

func writeKV(b *strings.Builder, key, value string) {
	b.WriteString(styleKey.Render(key) + " " + StyleValue.Render(value) + "\n")
}
