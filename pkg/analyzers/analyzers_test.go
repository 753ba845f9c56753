package analyzers

import (
	"fmt"
	"testing"

	"github.com/dukex/flowcheck/pkg/models"
	"github.com/dukex/flowcheck/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func httpNode(id, name string, params models.Parameters) models.Node {
	return testutil.CreateTestNode(
		testutil.WithID(id),
		testutil.WithName(name),
		testutil.WithType(testutil.TypeHTTPRequest),
		testutil.WithParameters(params),
	)
}

func TestParseStrictness(t *testing.T) {
	tests := []struct {
		input    string
		expected Strictness
		wantErr  bool
	}{
		{input: "", expected: StrictnessMedium},
		{input: "low", expected: StrictnessLow},
		{input: " HIGH ", expected: StrictnessHigh},
		{input: "medium", expected: StrictnessMedium},
		{input: "extreme", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStrictness(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStrictness)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestStrictness_AtLeast(t *testing.T) {
	assert.True(t, StrictnessHigh.AtLeast(StrictnessMedium))
	assert.True(t, StrictnessMedium.AtLeast(StrictnessMedium))
	assert.False(t, StrictnessLow.AtLeast(StrictnessMedium))
	assert.False(t, StrictnessMedium.AtLeast(StrictnessHigh))
}

func TestRegistry_CoversAllCategories(t *testing.T) {
	for _, category := range models.AllCategories() {
		analyzer, ok := ForCategory(category)
		require.True(t, ok, category)
		assert.Equal(t, category, analyzer.Category())
	}

	_, ok := ForCategory("style")
	assert.False(t, ok)
}

func TestAnalyzers_CleanWorkflowPasses(t *testing.T) {
	workflow := testutil.CreateTestWorkflowWithNodes()

	for _, analyzer := range []Analyzer{Naming{}, Security{}, Performance{}, Documentation{}} {
		t.Run(string(analyzer.Category()), func(t *testing.T) {
			result := analyzer.Analyze(workflow, StrictnessHigh)

			assert.True(t, result.Passed, result.Issues)
			assert.Equal(t, 100, result.Score)
			assert.Empty(t, result.Issues)
			assert.NotNil(t, result.Suggestions)
		})
	}
}

func TestNaming_DuplicateNodeName(t *testing.T) {
	workflow := testutil.CreateTestWorkflowWithNodes()
	workflow.Nodes = append(workflow.Nodes, testutil.CreateTestNode(testutil.WithID("C"), testutil.WithName("Prepare Payload")))

	result := Naming{}.Analyze(workflow, StrictnessLow)

	assert.False(t, result.Passed)
	assert.GreaterOrEqual(t, result.Critical, 1)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "duplicate node name")
	assert.Equal(t, 70, result.Score)
}

func TestNaming_OneCriticalPerDuplicatedName(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(testutil.WithNodes(
		testutil.CreateTestNode(testutil.WithName("Fetch")),
		testutil.CreateTestNode(testutil.WithName("Fetch")),
		testutil.CreateTestNode(testutil.WithName("Fetch")),
		testutil.CreateTestNode(testutil.WithName("Store")),
		testutil.CreateTestNode(testutil.WithName("Store")),
	))

	result := Naming{}.Analyze(workflow, StrictnessLow)

	assert.Equal(t, 2, result.Critical)
	assert.Equal(t, 40, result.Score)
}

func TestNaming_Monotonic(t *testing.T) {
	clean := testutil.CreateTestWorkflowWithNodes()
	dirty := clean.Clone()
	dirty.Nodes = append(dirty.Nodes, testutil.CreateTestNode(testutil.WithName("Start")))

	for _, strictness := range []Strictness{StrictnessLow, StrictnessMedium, StrictnessHigh} {
		before := Naming{}.Analyze(clean, strictness)
		after := Naming{}.Analyze(dirty, strictness)

		assert.LessOrEqual(t, after.Score, before.Score, strictness)
	}
}

func TestNaming_DefaultNodeName(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(testutil.WithNodes(
		httpNode("h", "HTTP Request", models.Parameters{"authentication": "predefinedCredentialType"}),
	))

	medium := Naming{}.Analyze(workflow, StrictnessMedium)
	require.Len(t, medium.Issues, 1)
	assert.Contains(t, medium.Issues[0], "default name")
	assert.Equal(t, 0, medium.Critical)
	assert.Equal(t, 85, medium.Score)

	low := Naming{}.Analyze(workflow, StrictnessLow)
	assert.True(t, low.Passed)
}

func TestNaming_WorkflowName(t *testing.T) {
	tests := []struct {
		name       string
		workflow   string
		strictness Strictness
		issues     int
	}{
		{name: "missing at low", workflow: "", strictness: StrictnessLow, issues: 1},
		{name: "short at low", workflow: "abc", strictness: StrictnessLow, issues: 0},
		{name: "short at medium", workflow: "abc", strictness: StrictnessMedium, issues: 1},
		{name: "long enough", workflow: "Sync CRM", strictness: StrictnessHigh, issues: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workflow := testutil.CreateTestWorkflow()
			workflow.Name = tt.workflow

			result := Naming{}.Analyze(workflow, tt.strictness)
			assert.Len(t, result.Issues, tt.issues)
		})
	}
}

func TestNaming_ScoreFloorsAtZero(t *testing.T) {
	var nodes []models.Node
	for i := range 5 {
		name := fmt.Sprintf("Step %d", i)
		nodes = append(nodes,
			testutil.CreateTestNode(testutil.WithName(name)),
			testutil.CreateTestNode(testutil.WithName(name)),
		)
	}

	result := Naming{}.Analyze(testutil.CreateTestWorkflow(testutil.WithNodes(nodes...)), StrictnessLow)

	assert.Equal(t, 5, result.Critical)
	assert.Equal(t, 0, result.Score)
}

func TestSecurity_HTTPWithoutAuthentication(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(testutil.WithNodes(
		httpNode("h", "Fetch Orders", models.Parameters{"url": "https://api.example.com/orders", "method": "GET"}),
	))

	result := Security{}.Analyze(workflow, StrictnessHigh)

	assert.False(t, result.Passed)
	assert.Equal(t, 0, result.Critical)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "without authentication")
	assert.Equal(t, 80, result.Score)
}

func TestSecurity_AuthenticationNone(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(testutil.WithNodes(
		httpNode("h", "Fetch Orders", models.Parameters{"url": "https://api.example.com", "authentication": "none"}),
	))

	assert.Len(t, Security{}.Analyze(workflow, StrictnessMedium).Issues, 1)
	assert.Empty(t, Security{}.Analyze(workflow, StrictnessLow).Issues)
}

func TestHasHardcodedSecret_IgnoresCredentialSelectors(t *testing.T) {
	tests := []struct {
		name     string
		params   models.Parameters
		expected bool
	}{
		{name: "authentication none", params: models.Parameters{"authentication": "none"}, expected: false},
		{name: "generic auth type", params: models.Parameters{"authentication": "genericCredentialType", "genericAuthType": "httpHeaderAuth"}, expected: false},
		{name: "node credential type", params: models.Parameters{"nodeCredentialType": "githubApi"}, expected: false},
		{name: "selector next to a literal token", params: models.Parameters{"authentication": "none", "token": "abc123"}, expected: true},
		{name: "nested authentication key is scanned", params: models.Parameters{"options": map[string]any{"authentication": "basic"}}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := testutil.CreateTestNode(testutil.WithParameters(tt.params))

			assert.Equal(t, tt.expected, HasHardcodedSecret(node))
		})
	}
}

func TestSecurity_AuthenticationNoneIsNotCritical(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(testutil.WithNodes(
		httpNode("h", "Fetch Orders", models.Parameters{"url": "https://api.example.com", "authentication": "none"}),
	))

	result := Security{}.Analyze(workflow, StrictnessHigh)

	assert.Equal(t, 0, result.Critical)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "without authentication")
}

func TestSecurity_AuthenticatedHTTPPasses(t *testing.T) {
	workflow := testutil.CreateTestWorkflow(testutil.WithNodes(
		testutil.CreateTestNode(testutil.WithName("Fetch Orders"), testutil.WithHTTPRequest("https://api.example.com")),
	))

	result := Security{}.Analyze(workflow, StrictnessHigh)

	assert.True(t, result.Passed, result.Issues)
}

func TestSecurity_HardcodedSecrets(t *testing.T) {
	tests := []struct {
		name     string
		params   models.Parameters
		critical int
	}{
		{name: "literal password", params: models.Parameters{"password": "hunter2"}, critical: 1},
		{name: "nested api key", params: models.Parameters{"headers": map[string]any{"x-api-key": "abc123"}}, critical: 1},
		{name: "expression reference", params: models.Parameters{"token": "={{ $credentials.token }}"}, critical: 0},
		{name: "dollar reference", params: models.Parameters{"secret": "$env.SECRET"}, critical: 0},
		{name: "no keyword", params: models.Parameters{"value": "hello"}, critical: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workflow := testutil.CreateTestWorkflow(testutil.WithNodes(
				testutil.CreateTestNode(testutil.WithName("Store"), testutil.WithParameters(tt.params)),
			))

			result := Security{}.Analyze(workflow, StrictnessLow)

			assert.Equal(t, tt.critical, result.Critical)
			assert.Equal(t, 100-40*tt.critical, result.Score)
		})
	}
}

func TestPerformance_UnboundedLoop(t *testing.T) {
	loop := testutil.CreateTestNode(testutil.WithName("Each Order"), testutil.WithType(testutil.TypeLoop), testutil.WithParameters(nil))
	bounded := testutil.CreateTestNode(
		testutil.WithName("Each Batch"),
		testutil.WithType(testutil.TypeLoop),
		testutil.WithParameters(models.Parameters{"options": map[string]any{"batchSize": 10}}),
	)

	result := Performance{}.Analyze(testutil.CreateTestWorkflow(testutil.WithNodes(loop, bounded)), StrictnessLow)

	assert.Equal(t, 1, result.Critical)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], "Each Order")
	assert.Equal(t, 70, result.Score)
}

func TestPerformance_HTTPBurst(t *testing.T) {
	var nodes []models.Node
	for i := range 4 {
		nodes = append(nodes, testutil.CreateTestNode(
			testutil.WithName(fmt.Sprintf("Call %d", i)),
			testutil.WithHTTPRequest("https://api.example.com"),
		))
	}

	workflow := testutil.CreateTestWorkflow(testutil.WithNodes(nodes...))

	assert.Len(t, Performance{}.Analyze(workflow, StrictnessMedium).Issues, 1)
	assert.Empty(t, Performance{}.Analyze(workflow, StrictnessLow).Issues)

	parallel := workflow.Clone()
	parallel.Settings[models.SettingParallelExecution] = true
	assert.Empty(t, Performance{}.Analyze(parallel, StrictnessMedium).Issues)
}

func TestPerformance_NodeCountOnlyAtHigh(t *testing.T) {
	var nodes []models.Node
	for i := range 51 {
		nodes = append(nodes, testutil.CreateTestNode(testutil.WithName(fmt.Sprintf("Step %d", i))))
	}

	workflow := testutil.CreateTestWorkflow(testutil.WithNodes(nodes...))

	assert.Len(t, Performance{}.Analyze(workflow, StrictnessHigh).Issues, 1)
	assert.Empty(t, Performance{}.Analyze(workflow, StrictnessMedium).Issues)
}

func TestErrorHandling(t *testing.T) {
	unsafeHTTP := httpNode("h", "Fetch", models.Parameters{"authentication": "predefinedCredentialType"})
	errorTrigger := testutil.CreateTestNode(testutil.WithName("On Error"), testutil.WithType(testutil.TypeErrorTrigger))

	tests := []struct {
		name       string
		workflow   *models.Workflow
		strictness Strictness
		issues     int
	}{
		{
			name:       "no handling at low",
			workflow:   testutil.CreateTestWorkflow(testutil.WithNodes(unsafeHTTP)),
			strictness: StrictnessLow,
			issues:     0,
		},
		{
			name:       "no handling at medium",
			workflow:   testutil.CreateTestWorkflow(testutil.WithNodes(unsafeHTTP)),
			strictness: StrictnessMedium,
			issues:     2,
		},
		{
			name:       "no handling at high",
			workflow:   testutil.CreateTestWorkflow(testutil.WithNodes(unsafeHTTP)),
			strictness: StrictnessHigh,
			issues:     3,
		},
		{
			name: "fully handled at high",
			workflow: testutil.CreateTestWorkflow(
				testutil.WithNodes(errorTrigger, testutil.CreateTestNode(testutil.WithName("Fetch"), testutil.WithHTTPRequest("https://x.io"))),
				testutil.WithSetting(models.SettingErrorWorkflow, "wf-errors"),
			),
			strictness: StrictnessHigh,
			issues:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ErrorHandling{}.Analyze(tt.workflow, tt.strictness)

			assert.Len(t, result.Issues, tt.issues, result.Issues)
			assert.Equal(t, 100-20*tt.issues, result.Score)
		})
	}
}

func TestDocumentation(t *testing.T) {
	undocumented := testutil.CreateTestWorkflow(testutil.WithNodes(
		testutil.CreateTestNode(testutil.WithName("One")),
		testutil.CreateTestNode(testutil.WithName("Two"), testutil.WithNotes("")),
		testutil.CreateTestNode(testutil.WithName("Three"), testutil.WithNotes(" ")),
		testutil.CreateTestNode(testutil.WithName("Note"), testutil.WithType(testutil.TypeStickyNote), testutil.WithNotes("")),
	))
	delete(undocumented.Settings, models.SettingDescription)

	medium := Documentation{}.Analyze(undocumented, StrictnessMedium)
	assert.Equal(t, []string{"Workflow has no description"}, medium.Issues)

	high := Documentation{}.Analyze(undocumented, StrictnessHigh)
	require.Len(t, high.Issues, 2)
	assert.Equal(t, "Only 33% of nodes have notes", high.Issues[1])
	assert.Equal(t, 70, high.Score)

	assert.True(t, Documentation{}.Analyze(undocumented, StrictnessLow).Passed)
}

func TestAnalyzers_DoNotMutateInput(t *testing.T) {
	workflow := testutil.CreateTestWorkflowWithNodes()
	snapshot := workflow.Clone()

	for _, analyzer := range Registry() {
		analyzer.Analyze(workflow, StrictnessHigh)
	}

	assert.Equal(t, snapshot, workflow)
}
