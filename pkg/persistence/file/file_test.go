package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/flowcheck/pkg/persistence"
	"github.com/dukex/flowcheck/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPersistence(t *testing.T) {
	fp := NewPersistence("/tmp/test")
	assert.Equal(t, "/tmp/test", fp.root)

	fp = NewPersistence("file:///tmp/test")
	assert.Equal(t, "/tmp/test", fp.root)
}

func TestPersistence_Close(t *testing.T) {
	err := NewPersistence("./test-data").Close(t.Context())
	assert.NoError(t, err)
}

func TestPersistence_HealthCheck(t *testing.T) {
	assert.NoError(t, NewPersistence(t.TempDir()).HealthCheck(t.Context()))
	assert.ErrorIs(t, NewPersistence(filepath.Join(t.TempDir(), "missing")).HealthCheck(t.Context()), os.ErrNotExist)
}

func TestPersistence_SaveAndLoad(t *testing.T) {
	testDir := t.TempDir()
	fp := NewPersistence(testDir)

	workflow := testutil.CreateTestWorkflowWithNodes()
	workflow.ID = "wf-1"

	require.NoError(t, fp.SaveWorkflow(t.Context(), workflow))
	assert.FileExists(t, filepath.Join(testDir, "workflows", "wf-1.json"))

	loaded, err := fp.WorkflowByID(t.Context(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, workflow.Name, loaded.Name)
	assert.Equal(t, workflow.Connections, loaded.Connections)
	require.Len(t, loaded.Nodes, 2)
	assert.Equal(t, "Start", loaded.Nodes[0].Name)
	assert.Equal(t, []float64{100, 200}, loaded.Nodes[1].Position)
}

func TestPersistence_SaveReplaces(t *testing.T) {
	fp := NewPersistence(t.TempDir())

	workflow := testutil.CreateTestWorkflow()
	workflow.ID = "wf-1"
	require.NoError(t, fp.SaveWorkflow(t.Context(), workflow))

	workflow.Name = "Renamed"
	require.NoError(t, fp.SaveWorkflow(t.Context(), workflow))

	all, err := fp.Workflows(t.Context())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Renamed", all[0].Name)
}

func TestPersistence_Workflows(t *testing.T) {
	fp := NewPersistence(t.TempDir())

	empty, err := fp.Workflows(t.Context())
	require.NoError(t, err)
	assert.Empty(t, empty)

	for id, name := range map[string]string{"b": "Beta", "a": "Alpha", "c": "Alpha"} {
		workflow := testutil.CreateTestWorkflow()
		workflow.ID = id
		workflow.Name = name
		require.NoError(t, fp.SaveWorkflow(t.Context(), workflow))
	}

	all, err := fp.Workflows(t.Context())
	require.NoError(t, err)

	ids := make([]string, 0, len(all))
	for _, workflow := range all {
		ids = append(ids, workflow.ID)
	}

	assert.Equal(t, []string{"a", "c", "b"}, ids)
}

func TestPersistence_NotFound(t *testing.T) {
	fp := NewPersistence(t.TempDir())

	_, err := fp.WorkflowByID(t.Context(), "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))

	err = fp.DeleteWorkflow(t.Context(), "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestPersistence_Delete(t *testing.T) {
	fp := NewPersistence(t.TempDir())

	workflow := testutil.CreateTestWorkflow()
	workflow.ID = "wf-1"
	require.NoError(t, fp.SaveWorkflow(t.Context(), workflow))

	require.NoError(t, fp.DeleteWorkflow(t.Context(), "wf-1"))

	_, err := fp.WorkflowByID(t.Context(), "wf-1")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestPersistence_RejectsPathIDs(t *testing.T) {
	fp := NewPersistence(t.TempDir())

	for _, id := range []string{"", "../escape", "a/b", ".hidden"} {
		workflow := testutil.CreateTestWorkflow()
		workflow.ID = id

		err := fp.SaveWorkflow(t.Context(), workflow)
		assert.True(t, persistence.IsInvalidWorkflowID(err), id)
	}
}
