package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeValidate(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewValidateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestValidateExpression(t *testing.T) {
	out, err := executeValidate(t, "text", "sin(x)^2 / (x + 1)")
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}

func TestValidateExpressionJSON(t *testing.T) {
	out, err := executeValidate(t, "json", "x^2")
	require.NoError(t, err)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "expression", resp.Kind)
	assert.Equal(t, "x^2", resp.Target)
}

func TestValidateBadExpression(t *testing.T) {
	_, err := executeValidate(t, "text", "bogus(x)")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestValidateSuiteDirectory(t *testing.T) {
	dir := writeSuiteDir(t, passingSuite)

	out, err := executeValidate(t, "text", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2 jobs")
}

func TestValidateSuiteDirectoryJSON(t *testing.T) {
	dir := writeSuiteDir(t, passingSuite)

	out, err := executeValidate(t, "json", dir)
	require.NoError(t, err)

	var resp ValidateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "suite", resp.Kind)
	assert.Equal(t, []string{"flat", "parabola"}, resp.Jobs)
}

func TestValidateBrokenSuite(t *testing.T) {
	dir := writeSuiteDir(t, "package jobs\n\njobs: j: {fn: \"oops(\", from: 0, to: 1, samples: 10}\n")

	_, err := executeValidate(t, "text", dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
