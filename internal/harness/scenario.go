package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/loomkit/loom/internal/tree"
)

// Scenario defines one before/after update of a child tree.
// Running a scenario mounts Before under the root, diffs After against
// it, and captures the resulting mutation trace.
type Scenario struct {
	// Name uniquely identifies this scenario. Doubles as the golden file
	// name.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Root is the element type of the synthetic root. Defaults to "root".
	Root string `yaml:"root,omitempty"`

	// Before is the committed child tree the update starts from.
	// May be empty for pure-mount scenarios.
	Before []ChildSpec `yaml:"before,omitempty"`

	// After is the child tree the update renders.
	After []ChildSpec `yaml:"after"`

	// Expect optionally lists the exact mutation trace the update must
	// produce. Golden files cover the full trace; Expect keeps the
	// crucial ops visible in the scenario itself.
	Expect []ExpectedOp `yaml:"expect,omitempty"`

	// PassToken is an optional fixed token for deterministic recording.
	// If empty, the harness's TokenGenerator supplies one.
	PassToken string `yaml:"pass_token,omitempty"`
}

// ChildSpec describes one child slot. Exactly one of Text, Type or Omit
// must be set: a text node, an element, or an intentionally empty slot
// (renders nothing but still consumes an index).
type ChildSpec struct {
	// Key is the explicit identity key. Elements only.
	Key string `yaml:"key,omitempty"`

	// Type names an element type.
	Type string `yaml:"type,omitempty"`

	// Text makes this slot a text node. Pointer so the empty string is
	// still a valid text payload.
	Text *string `yaml:"text,omitempty"`

	// Props carries element props.
	Props map[string]any `yaml:"props,omitempty"`

	// Omit renders the slot as nil.
	Omit bool `yaml:"omit,omitempty"`

	// Children nests the next level under an element.
	Children []ChildSpec `yaml:"children,omitempty"`
}

// ExpectedOp is one expected mutation trace entry.
type ExpectedOp struct {
	// Op is the flag set string, e.g. "placement" or "update|content-reset".
	Op string `yaml:"op"`

	// Key is the expected node key.
	Key string `yaml:"key,omitempty"`

	// Content is the expected text payload, text nodes only.
	Content string `yaml:"content,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses a scenario document from raw bytes. Used by
// LoadScenario and by replay, which re-runs stored scenario blobs.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields (catches typos)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if err := validateChildren("before", s.Before); err != nil {
		return err
	}
	if err := validateChildren("after", s.After); err != nil {
		return err
	}

	for i, op := range s.Expect {
		if op.Op == "" {
			return fmt.Errorf("expect[%d]: op is required", i)
		}
	}

	return nil
}

func validateChildren(path string, specs []ChildSpec) error {
	for i, spec := range specs {
		at := fmt.Sprintf("%s[%d]", path, i)

		variants := 0
		if spec.Text != nil {
			variants++
		}
		if spec.Type != "" {
			variants++
		}
		if spec.Omit {
			variants++
		}
		if variants != 1 {
			return fmt.Errorf("%s: exactly one of text, type or omit is required", at)
		}

		if spec.Text != nil || spec.Omit {
			if spec.Key != "" {
				return fmt.Errorf("%s: key is only valid on elements", at)
			}
			if len(spec.Children) > 0 {
				return fmt.Errorf("%s: children are only valid on elements", at)
			}
			if len(spec.Props) > 0 {
				return fmt.Errorf("%s: props are only valid on elements", at)
			}
		}

		if err := validateChildren(at+".children", spec.Children); err != nil {
			return err
		}
	}
	return nil
}

// buildChildren converts specs into the value the diff engine consumes.
func buildChildren(specs []ChildSpec) []any {
	out := make([]any, len(specs))
	for i, spec := range specs {
		out[i] = buildChild(spec)
	}
	return out
}

func buildChild(spec ChildSpec) any {
	if spec.Omit {
		return nil
	}
	if spec.Text != nil {
		return *spec.Text
	}

	var children any
	if len(spec.Children) > 0 {
		children = buildChildren(spec.Children)
	}
	return tree.Element{
		Type:     spec.Type,
		Key:      spec.Key,
		Props:    spec.Props,
		Children: children,
	}
}
