package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/quadra-dev/quadra/internal/store"
)

func executeEstimate(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewEstimateCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestEstimateText(t *testing.T) {
	out, err := executeEstimate(t, "text",
		"x^2", "--from", "0", "--to", "1", "--samples", "100000")
	require.NoError(t, err)

	assert.Contains(t, out, "∫ x^2 dx over [0, 1]")
	assert.Contains(t, out, "estimate 0.33")
	assert.Contains(t, out, "seed 1291")
}

func TestEstimateJSON(t *testing.T) {
	out, err := executeEstimate(t, "json",
		"1", "--from", "0", "--to", "1", "--samples", "1000")
	require.NoError(t, err)

	var resp EstimateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "1", resp.Expr)
	assert.Equal(t, 1.0, resp.Estimate)
	assert.Equal(t, 0.0, resp.Variance)
	assert.Equal(t, int64(1291), resp.Seed)
}

func TestEstimateYAML(t *testing.T) {
	out, err := executeEstimate(t, "yaml",
		"1", "--from", "0", "--to", "1", "--samples", "1000")
	require.NoError(t, err)

	var resp EstimateResponse
	require.NoError(t, yaml.Unmarshal([]byte(out), &resp))
	assert.Equal(t, 1.0, resp.Estimate)
}

func TestEstimateDeterministicAcrossInvocations(t *testing.T) {
	first, err := executeEstimate(t, "text",
		"sin(x)", "--from", "0", "--to", "3", "--samples", "50000", "--seed", "7")
	require.NoError(t, err)
	second, err := executeEstimate(t, "text",
		"sin(x)", "--from", "0", "--to", "3", "--samples", "50000", "--seed", "7")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEstimateRecordsRun(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out, err := executeEstimate(t, "json",
		"x^2", "--from", "0", "--to", "1", "--samples", "1000", "--db", dbPath)
	require.NoError(t, err)

	var resp EstimateResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotEmpty(t, resp.RunID)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, err := st.GetRun(context.Background(), resp.RunID)
	require.NoError(t, err)
	assert.Equal(t, "x^2", run.Expr)
	assert.Equal(t, resp.Estimate, run.Estimate)
}

func TestEstimateInvalidRange(t *testing.T) {
	_, err := executeEstimate(t, "text",
		"x", "--from", "1", "--to", "0", "--samples", "100")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "INVALID_RANGE")
}

func TestEstimateInvalidSampleCount(t *testing.T) {
	_, err := executeEstimate(t, "text",
		"x", "--from", "0", "--to", "1", "--samples", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_SAMPLE_COUNT")
}

func TestEstimateInvalidExpression(t *testing.T) {
	_, err := executeEstimate(t, "text",
		"not_a_function(x)", "--from", "0", "--to", "1", "--samples", "100")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INVALID_FUNCTION")
}

func TestEstimateMissingRequiredFlags(t *testing.T) {
	_, err := executeEstimate(t, "text", "x")
	require.Error(t, err)
}
