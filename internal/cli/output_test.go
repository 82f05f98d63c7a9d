package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain error")))

	wrapped := fmt.Errorf("context: %w", NewExitError(ExitCommandError, "inner"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))
}

func TestExitError_Unwrap(t *testing.T) {
	inner := errors.New("root cause")
	err := WrapExitError(ExitCommandError, "outer", inner)

	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "outer")
	assert.Contains(t, err.Error(), "root cause")
}

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	assert.NoError(t, f.Success(map[string]int{"n": 1}))
	assert.Contains(t, buf.String(), `"status":"ok"`)
	assert.Contains(t, buf.String(), `"n":1`)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	assert.NoError(t, f.Error("E001", "bad input", nil))
	assert.Contains(t, buf.String(), `"status":"error"`)
	assert.Contains(t, buf.String(), `"code":"E001"`)
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	var out, errOut bytes.Buffer

	quiet := &OutputFormatter{Format: "text", Writer: &out, ErrWriter: &errOut}
	quiet.VerboseLog("hidden %d", 1)
	assert.Empty(t, errOut.String())

	verbose := &OutputFormatter{Format: "text", Writer: &out, ErrWriter: &errOut, Verbose: true}
	verbose.VerboseLog("shown %d", 2)
	assert.Equal(t, "shown 2\n", errOut.String())
	assert.Empty(t, out.String(), "verbose output goes to the diagnostic writer")
}
