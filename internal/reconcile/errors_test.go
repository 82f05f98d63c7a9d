package reconcile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomkit/loom/internal/tree"
)

func TestContractError_Message(t *testing.T) {
	parent := &tree.Node{Tag: tree.TagElement, Type: "list"}
	err := newInvalidChildError(parent, struct{}{})

	assert.Contains(t, err.Error(), "INVALID_CHILD")
	assert.Contains(t, err.Error(), "list")
}

func TestContractError_Predicates(t *testing.T) {
	parent := &tree.Node{Tag: tree.TagFragment}

	invalid := newInvalidChildError(parent, 'x')
	undefined := newUndefinedRenderError(parent)

	assert.True(t, IsInvalidChild(invalid))
	assert.False(t, IsInvalidChild(undefined))
	assert.True(t, IsUndefinedRender(undefined))
	assert.False(t, IsUndefinedRender(invalid))

	wrapped := fmt.Errorf("mounting root: %w", undefined)
	assert.True(t, IsUndefinedRender(wrapped), "predicates see through wrapping")

	assert.False(t, IsInvalidChild(nil))
}
