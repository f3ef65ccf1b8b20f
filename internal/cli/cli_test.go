package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	perrors "github.com/matzehuels/procmap/pkg/errors"
	"github.com/matzehuels/procmap/pkg/graph"
	"github.com/matzehuels/procmap/pkg/pipeline"
)

const testInput = `{
  "nodes": [
    {"name": "Start", "type": "start"},
    {"name": "Register"},
    {"name": "Approve"},
    {"name": "Reject"},
    {"name": "End", "type": "end"}
  ],
  "edges": [
    {"from": 0, "to": 1},
    {"from": 1, "to": 2},
    {"from": 1, "to": 3},
    {"from": 2, "to": 4},
    {"from": 3, "to": 4}
  ],
  "paths": [{"path": [1, 2]}]
}`

// testEnv points the config directory at a temp dir and writes the test
// input there.
func testEnv(t *testing.T) (dir, input string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	input = filepath.Join(dir, "process.json")
	if err := os.WriteFile(input, []byte(testInput), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, input
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	want := []string{"cache", "completion", "layout", "render", "serve", "view"}
	// cobra adds help lazily, so only the registered commands are listed.
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("subcommands mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,dot,graphviz", []string{"svg", "dot", "graphviz"}},
		{" json , png ,", []string{"json", "png"}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, parseFormats(tt.input)); diff != "" {
			t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/process.json", "data/process"},
		{"", "process.yaml", "process"},
		{"out.svg", "process.json", "out"},
		{"out.graphviz.svg", "process.json", "out"},
		{"out.dot", "process.json", "out"},
		{"out", "process.json", "out"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOptionsFlagsOverrideConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.Config.Layout.Width = 200
	c.Config.Layout.Gap = 30

	opts := c.options(layoutFlags{height: 60, refresh: true})
	if opts.Rect.Width != 200 || opts.Rect.Height != 60 || opts.Rect.Gap != 30 {
		t.Errorf("options().Rect = %+v, want width 200, height 60, gap 30", opts.Rect)
	}
	if !opts.Refresh {
		t.Error("options().Refresh = false, want true")
	}
}

func TestStatsLine(t *testing.T) {
	line := statsLine(5, 6, 2, true)
	for _, want := range []string{"5 nodes", "6 edges", "2 waypoints", "cached"} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine() = %q, missing %q", line, want)
		}
	}
	if strings.Contains(statsLine(5, 6, 0, false), "waypoints") {
		t.Error("statsLine() shows waypoints when there are none")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestLayoutCommand(t *testing.T) {
	dir, input := testEnv(t)

	if err := execute(t, "layout", input); err != nil {
		t.Fatalf("layout error = %v", err)
	}
	l, err := graph.ReadLayoutFile(filepath.Join(dir, "process.layout.json"))
	if err != nil {
		t.Fatalf("ReadLayoutFile() error = %v", err)
	}
	if l.Start != 0 || l.End != 4 {
		t.Errorf("layout start, end = %d, %d, want 0, 4", l.Start, l.End)
	}

	out := filepath.Join(dir, "custom.json")
	if err := execute(t, "layout", input, "-o", out, "--width", "120"); err != nil {
		t.Fatalf("layout -o error = %v", err)
	}
	l, err = graph.ReadLayoutFile(out)
	if err != nil {
		t.Fatal(err)
	}
	for _, n := range l.Nodes {
		if !n.Fake && n.CSS.Width != 120 {
			t.Errorf("node %s width = %v, want 120", n.Name, n.CSS.Width)
		}
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	dir, _ := testEnv(t)

	err := execute(t, "layout", filepath.Join(dir, "missing.json"))
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("layout missing.json error = %v, want FILE_NOT_FOUND", err)
	}

	err = execute(t, "layout", filepath.Join(dir, "process.txt"))
	if !perrors.Is(err, perrors.ErrCodeInvalidPath) {
		t.Errorf("layout process.txt error = %v, want INVALID_PATH", err)
	}
}

func TestRenderCommand(t *testing.T) {
	dir, input := testEnv(t)
	base := filepath.Join(dir, "out", "process")
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, "render", input, "-f", "svg,dot,json", "-o", base, "--no-cache"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	for _, format := range []string{"svg", "dot", "json"} {
		path := base + pipeline.Extension(format)
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("missing %s output: %v", format, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s is empty", path)
		}
	}

	single := filepath.Join(dir, "single.svg")
	if err := execute(t, "render", input, "-o", single); err != nil {
		t.Fatalf("render single error = %v", err)
	}
	data, err := os.ReadFile(single)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), ">Register</text>") {
		t.Error("single.svg does not contain the Register node")
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	_, input := testEnv(t)
	err := execute(t, "render", input, "-f", "gif")
	if !perrors.Is(err, perrors.ErrCodeInvalidFormat) {
		t.Errorf("render -f gif error = %v, want INVALID_FORMAT", err)
	}
}

func TestConfigFlag(t *testing.T) {
	dir, input := testEnv(t)

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[layout]\nwidth = -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "--config", bad, "layout", input); !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
		t.Errorf("--config bad.toml error = %v, want INVALID_CONFIG", err)
	}

	good := filepath.Join(dir, "good.toml")
	cfg := "[layout]\nwidth = 90\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(good, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "--config", good, "layout", input); err != nil {
		t.Fatalf("--config good.toml error = %v", err)
	}
	l, err := graph.ReadLayoutFile(filepath.Join(dir, "process.layout.json"))
	if err != nil {
		t.Fatal(err)
	}
	if l.Nodes[0].CSS.Width != 90 {
		t.Errorf("width = %v, want 90 from config", l.Nodes[0].CSS.Width)
	}
}

func TestCacheCommands(t *testing.T) {
	dir, input := testEnv(t)
	cacheDir := filepath.Join(dir, "config", "procmap", "cache")

	if err := execute(t, "render", input, "-f", "svg"); err != nil {
		t.Fatalf("render error = %v", err)
	}
	if n := countFiles(t, cacheDir); n == 0 {
		t.Fatal("render did not populate the cache")
	}

	for _, args := range [][]string{{"cache", "path"}, {"cache", "info"}, {"cache", "prune"}} {
		if err := execute(t, args...); err != nil {
			t.Errorf("%v error = %v", args, err)
		}
	}
	if err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear error = %v", err)
	}
	if n := countFiles(t, cacheDir); n != 0 {
		t.Errorf("cache clear left %d files", n)
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return n
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		if err := execute(t, "completion", shell); err != nil {
			t.Errorf("completion %s error = %v", shell, err)
		}
	}
	if err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh succeeded, want error")
	}
}

// =============================================================================
// Viewer
// =============================================================================

func newTestViewModel(t *testing.T) viewModel {
	t.Helper()
	in, err := graph.UnmarshalInput([]byte(testInput))
	if err != nil {
		t.Fatal(err)
	}
	e := pipeline.NewEngine(context.Background(), in, pipeline.Options{})
	return newViewModel(e, filepath.Join(t.TempDir(), "view.layout.json"), 10)
}

func press(m viewModel, keys ...tea.KeyMsg) viewModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(viewModel)
	}
	return m
}

var (
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestViewModelSelectsRealNodesInRankOrder(t *testing.T) {
	m := newTestViewModel(t)
	if len(m.order) != 5 {
		t.Fatalf("order has %d nodes, want 5", len(m.order))
	}
	if id, _ := m.selected(); id != 0 {
		t.Errorf("initial selection = %d, want start node 0", id)
	}
	m = press(m, keyTab)
	if id, _ := m.selected(); id != 1 {
		t.Errorf("selection after tab = %d, want 1", id)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	if id, _ := m.selected(); id != 4 {
		t.Errorf("selection after wrapping back = %d, want end node 4", id)
	}
}

func TestViewModelMoveAndReset(t *testing.T) {
	m := newTestViewModel(t)
	m = press(m, keyTab)
	id, _ := m.selected()
	n, _ := m.engine.Graph().Node(id)
	before := n.Geometry.Translate

	m = press(m, keyRight, keyRight, keyDown)
	after := n.Geometry.Translate
	if after.X != before.X+20 || after.Y != before.Y+10 {
		t.Errorf("translate after moves = %+v, want %+v shifted by (20, 10)", after, before)
	}
	if got := len(m.engine.Moved()); got != 1 {
		t.Errorf("Moved() = %d nodes, want 1", got)
	}
	if !strings.Contains(m.View(), "*Register") {
		t.Error("View() does not mark the moved node")
	}

	m = press(m, keyRune('r'))
	if n.Geometry.Translate != before {
		t.Errorf("translate after reset = %+v, want %+v", n.Geometry.Translate, before)
	}
	if len(m.engine.Moved()) != 0 {
		t.Error("Moved() not empty after reset")
	}
}

func TestViewModelWrite(t *testing.T) {
	m := newTestViewModel(t)
	m = press(m, keyTab, keyRight, keyRune('w'))
	if m.written != m.output {
		t.Fatalf("written = %q, want %q (status %q)", m.written, m.output, m.status)
	}
	l, err := graph.ReadLayoutFile(m.output)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Nodes) == 0 || len(l.Edges) != 5 {
		t.Errorf("written layout has %d nodes, %d lines", len(l.Nodes), len(l.Edges))
	}
}

func TestViewModelQuit(t *testing.T) {
	m := newTestViewModel(t)
	_, cmd := m.Update(keyRune('q'))
	if cmd == nil {
		t.Fatal("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not quit")
	}
}
