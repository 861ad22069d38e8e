package testing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-drift/marquee/pkg/display"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// Snapshot is a trace of scene states sampled over a choreography run.
type Snapshot struct {
	Frames []SceneFrame `json:"frames"`
}

// SceneFrame is the scene tree at one point in time.
type SceneFrame struct {
	// At is the sample time relative to the start of the trace.
	At    string     `json:"at"`
	Scene *SceneNode `json:"scene"`
}

// SceneNode represents a node in the serialized scene tree.
type SceneNode struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Position [2]int       `json:"pos"`
	Frame    *int         `json:"frame,omitempty"`
	Palette  string       `json:"palette,omitempty"`
	Hidden   bool         `json:"hidden,omitempty"`
	Children []*SceneNode `json:"children,omitempty"`
}

// CaptureScene serializes the tree rooted at root.
func CaptureScene(root display.Node) *SceneNode {
	if root == nil {
		return nil
	}
	return captureSceneNode(root, &typeCounter{})
}

// Record appends the current state of root, sampled at offset at.
func (s *Snapshot) Record(at time.Duration, root display.Node) {
	s.Frames = append(s.Frames, SceneFrame{
		At:    at.String(),
		Scene: CaptureScene(root),
	})
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When MARQUEE_UPDATE_SNAPSHOTS=1
// is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv("MARQUEE_UPDATE_SNAPSHOTS") == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	expected, err := LoadSnapshot(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: MARQUEE_UPDATE_SNAPSHOTS=1 go test -run %s", path, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(expected); diff != "" {
		t.Errorf("snapshot mismatch: %s\n%s\n\nTo update: MARQUEE_UPDATE_SNAPSHOTS=1 go test -run %s", path, diff, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := marshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Diff returns a line diff between this snapshot and other. Returns
// empty string if equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	a, _ := marshalSnapshot(s)
	b, _ := marshalSnapshot(other)
	if bytes.Equal(a, b) {
		return ""
	}
	return unifiedDiff(string(b), string(a))
}

// LoadSnapshot reads a snapshot written by UpdateFile.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("invalid snapshot JSON: %w", err)
	}
	return &snap, nil
}

// typeCounter assigns stable IDs like "TileGrid#0", "TileGrid#1".
type typeCounter struct {
	counts map[string]int
}

func (c *typeCounter) next(typeName string) string {
	if c.counts == nil {
		c.counts = make(map[string]int)
	}
	n := c.counts[typeName]
	c.counts[typeName] = n + 1
	return fmt.Sprintf("%s#%d", typeName, n)
}

func captureSceneNode(n display.Node, counter *typeCounter) *SceneNode {
	typeName := nodeTypeName(n)
	x, y := n.Position()
	node := &SceneNode{
		ID:       counter.next(typeName),
		Type:     typeName,
		Position: [2]int{x, y},
	}

	switch v := n.(type) {
	case *display.TileGrid:
		frame := v.Frame()
		node.Frame = &frame
		node.Palette = paletteKey(v)
		node.Hidden = v.Hidden
	case *display.Group:
		node.Hidden = v.Hidden
		for _, child := range v.Children() {
			node.Children = append(node.Children, captureSceneNode(child, counter))
		}
	}
	return node
}

func nodeTypeName(n display.Node) string {
	t := reflect.TypeOf(n)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// paletteKey identifies a palette by its first opaque entry, which is the
// body color for sheets and the hue for recolored variants.
func paletteKey(tg *display.TileGrid) string {
	p := tg.Palette()
	if p == nil {
		return ""
	}
	for i := 0; i < p.Len(); i++ {
		if c, transparent := p.At(i); !transparent {
			return fmt.Sprintf("#%06x", c.RGB24())
		}
	}
	return "clear"
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// unifiedDiff produces a simple line-oriented diff.
func unifiedDiff(expected, actual string) string {
	expectedLines := strings.Split(expected, "\n")
	actualLines := strings.Split(actual, "\n")

	var buf strings.Builder
	buf.WriteString("--- expected\n+++ actual\n")

	maxLen := max(len(expectedLines), len(actualLines))
	for i := 0; i < maxLen; i++ {
		var e, a string
		if i < len(expectedLines) {
			e = expectedLines[i]
		}
		if i < len(actualLines) {
			a = actualLines[i]
		}
		if e != a {
			if i < len(expectedLines) {
				fmt.Fprintf(&buf, "-%s\n", e)
			}
			if i < len(actualLines) {
				fmt.Fprintf(&buf, "+%s\n", a)
			}
		}
	}

	return buf.String()
}
