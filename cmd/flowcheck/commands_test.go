package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukex/flowcheck/pkg/engine"
	"github.com/dukex/flowcheck/pkg/models"
	"github.com/dukex/flowcheck/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cleanDocument = `{
  "id": "wf-clean",
  "name": "Invoice Export",
  "nodes": [
    {"id": "a", "name": "Collect Invoices", "type": "n8n-nodes-base.set", "position": [0, 0], "notes": "Builds rows"}
  ],
  "connections": {},
  "settings": {"description": "Exports invoices"}
}`

const duplicateDocument = `{
  "id": "wf-dup",
  "name": "Customer Sync",
  "nodes": [
    {"id": "a", "name": "Fetch", "type": "n8n-nodes-base.set", "position": [0, 0]},
    {"id": "b", "name": "Fetch", "type": "n8n-nodes-base.set", "position": [1, 1]}
  ],
  "connections": {}
}`

func writeDocument(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "workflow.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	app := newApp()
	app.Writer = &out
	app.Reader = strings.NewReader(stdin)

	err := app.Run(context.Background(), append([]string{"flowcheck", "--log-level", "error"}, args...))

	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "", "validate", "--category", "naming", writeDocument(t, cleanDocument))
	require.NoError(t, err)

	var report engine.Report

	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Passed)
	assert.Equal(t, 100, report.Score)
	assert.Len(t, report.Categories, 1)
}

func TestValidateCommand_Fails(t *testing.T) {
	out, err := run(t, "", "validate", "-c", "naming", writeDocument(t, duplicateDocument))
	require.ErrorIs(t, err, ErrValidationFailed)

	var report engine.Report

	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 1, report.CriticalIssues)
	assert.Equal(t, 70, report.Categories[models.CategoryNaming].Score)
}

func TestValidateCommand_StructureOnlyFromStdin(t *testing.T) {
	document := `{"id": "wf", "name": "Dangling", "nodes": [],
		"connections": {"ghost": {"main": []}}}`

	out, err := run(t, document, "validate", "--structure-only", "-")
	require.ErrorIs(t, err, ErrValidationFailed)

	var result validation.StructureResult

	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"Connection source node ghost not found"}, result.Errors)
}

func TestValidateCommand_StructureOnlyReportsShapeErrors(t *testing.T) {
	document := `{"id": "w", "name": "Shape Test", "nodes": {}, "connections": []}`

	out, err := run(t, document, "validate", "--structure-only", "-")
	require.ErrorIs(t, err, ErrValidationFailed)

	var result validation.StructureResult

	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 3)
	assert.Contains(t, strings.Join(result.Errors, "\n"), "nodes")
	assert.Contains(t, strings.Join(result.Errors, "\n"), "connections")
	assert.Contains(t, result.Errors[2], "cannot be decoded")
}

func TestValidateCommand_Errors(t *testing.T) {
	_, err := run(t, "", "validate")
	assert.ErrorIs(t, err, ErrMissingFile)

	_, err = run(t, "", "validate", "--strictness", "extreme", writeDocument(t, cleanDocument))
	assert.ErrorContains(t, err, "invalid strictness")

	_, err = run(t, "", "validate", "-c", "style", writeDocument(t, cleanDocument))
	assert.ErrorIs(t, err, engine.ErrUnknownCategory)

	_, err = run(t, "", "validate", writeDocument(t, "{"))
	assert.ErrorIs(t, err, validation.ErrMalformedInput)
}

func TestAnalyzeCommand(t *testing.T) {
	out, err := run(t, "", "analyze", "--patterns", writeDocument(t, cleanDocument))
	require.NoError(t, err)

	var report engine.AnalysisReport

	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "wf-clean", report.WorkflowID)
	assert.InDelta(t, 10.0, report.Scores.Performance, 0.001)
	assert.InDelta(t, 10.0, report.Scores.Security, 0.001)
}

func TestConfidenceCommand(t *testing.T) {
	out, err := run(t, "", "confidence", "-f", "exact:0.5:true", "-f", "suffix:0.5:false")
	require.NoError(t, err)

	var score models.ConfidenceScore

	require.NoError(t, json.Unmarshal([]byte(out), &score))
	assert.InDelta(t, 0.5, score.Value, 0.0001)
	assert.Equal(t, "Medium", score.Band)
	assert.Equal(t, "Medium confidence: 1 of 2 factors matched", score.Reason)

	out, err = run(t, "", "confidence", "--query", "slack", "--node-type", "n8n-nodes-base.slack")
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal([]byte(out), &score))
	assert.GreaterOrEqual(t, score.Value, 0.8)
}

func TestParseFactor(t *testing.T) {
	tests := []struct {
		input    string
		expected models.ConfidenceFactor
		wantErr  bool
	}{
		{input: "exact:0.4:true", expected: models.ConfidenceFactor{Name: "exact", Weight: 0.4, Matched: true}},
		{input: "partial:1:false", expected: models.ConfidenceFactor{Name: "partial", Weight: 1}},
		{input: "missing:0.4", wantErr: true},
		{input: ":0.4:true", wantErr: true},
		{input: "bad:x:true", wantErr: true},
		{input: "bad:1:maybe", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			factor, err := parseFactor(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidFactor)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, factor)
		})
	}
}
