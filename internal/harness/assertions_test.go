package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomkit/loom/internal/trace"
)

func placement(key string) trace.Effect {
	return trace.Effect{Op: "placement", Tag: "element", Key: key, NodeType: "item"}
}

func TestCheckExpectations_ExactMatch(t *testing.T) {
	s := &Scenario{Expect: []ExpectedOp{
		{Op: "placement", Key: "a"},
		{Op: "placement", Key: "b"},
	}}
	r := &Result{Effects: []trace.Effect{placement("a"), placement("b")}}

	assert.Empty(t, CheckExpectations(s, r))
}

func TestCheckExpectations_NoExpectListAlwaysPasses(t *testing.T) {
	s := &Scenario{}
	r := &Result{Effects: []trace.Effect{placement("a")}}

	assert.Empty(t, CheckExpectations(s, r))
}

func TestCheckExpectations_WrongOp(t *testing.T) {
	s := &Scenario{Expect: []ExpectedOp{{Op: "deletion", Key: "a"}}}
	r := &Result{Effects: []trace.Effect{placement("a")}}

	errs := CheckExpectations(s, r)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "deletion")
}

func TestCheckExpectations_TraceTooShort(t *testing.T) {
	s := &Scenario{Expect: []ExpectedOp{
		{Op: "placement", Key: "a"},
		{Op: "placement", Key: "b"},
	}}
	r := &Result{Effects: []trace.Effect{placement("a")}}

	errs := CheckExpectations(s, r)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "trace ended")
}

func TestCheckExpectations_TrailingEffectsFlagged(t *testing.T) {
	s := &Scenario{Expect: []ExpectedOp{{Op: "placement", Key: "a"}}}
	r := &Result{Effects: []trace.Effect{placement("a"), placement("extra")}}

	errs := CheckExpectations(s, r)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs[0], "trailing")
}

func TestCheckExpectations_ContentMatchForText(t *testing.T) {
	s := &Scenario{Expect: []ExpectedOp{{Op: "update|content-reset", Content: "new"}}}
	r := &Result{Effects: []trace.Effect{
		{Op: "update|content-reset", Tag: "text", Content: "new"},
	}}

	assert.Empty(t, CheckExpectations(s, r))
}
