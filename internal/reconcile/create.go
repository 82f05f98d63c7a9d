package reconcile

import (
	"strconv"

	"github.com/loomkit/loom/internal/tree"
)

// textContent coerces the raw values the engine accepts as text children.
func textContent(v any) (string, bool) {
	switch c := v.(type) {
	case string:
		return c, true
	case tree.Text:
		return string(c), true
	case int:
		return strconv.Itoa(c), true
	case int32:
		return strconv.FormatInt(int64(c), 10), true
	case int64:
		return strconv.FormatInt(c, 10), true
	case float32:
		return strconv.FormatFloat(float64(c), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(c, 'g', -1, 64), true
	default:
		return "", false
	}
}

// createFromDescription fabricates a fresh work node (no alternate) for a
// description. Lazy descriptions must be resolved before this point.
func createFromDescription(parent *tree.Node, desc tree.Description) *tree.Node {
	var n *tree.Node
	switch d := desc.(type) {
	case tree.Text:
		n = &tree.Node{Tag: tree.TagText, Text: string(d)}
	case tree.Element:
		n = &tree.Node{Tag: tree.TagElement, Type: d.Type, Key: d.Key, Props: d.Props, Children: d.Children}
	case tree.Fragment:
		n = &tree.Node{Tag: tree.TagFragment, Key: d.Key, Children: d.Children}
	case tree.Portal:
		n = &tree.Node{Tag: tree.TagPortal, Key: d.Key, ContainerID: d.ContainerID, Children: d.Children}
	default:
		// Lazy is unwrapped by callers; reaching here is an engine bug.
		panic("reconcile: unhandled description variant")
	}
	n.Parent = parent
	return n
}

// shallowEqualProps compares prop maps one level deep. Values that are
// not comparable (maps, slices, funcs) are treated as changed.
func shallowEqualProps(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !isScalar(av) || !isScalar(bv) {
			return false
		}
		if av != bv {
			return false
		}
	}
	return true
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	default:
		return false
	}
}
