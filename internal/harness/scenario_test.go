package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/trisynk/internal/demo"
)

func TestLoadScenario_Valid(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/accumulate_wrap.yaml")
	require.NoError(t, err)

	assert.Equal(t, "accumulate_wrap", s.Name)
	require.Len(t, s.Steps, 2)
	assert.Equal(t, demo.OpAccumulate, s.Steps[0].Op)
	require.NotNil(t, s.Steps[0].Expect)
	assert.Equal(t, int64(-9223372036854775808), *s.Steps[0].Expect)
	require.Len(t, s.Assertions, 2)
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/nope.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte(`
name: typo
description: "has a typo"
steps:
  - op: increment
    valu: 1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Validation(t *testing.T) {
	tests := map[string]struct {
		yaml string
		want string
	}{
		"missing name": {
			yaml: "description: d\nsteps: [{op: increment}]\n",
			want: "name is required",
		},
		"missing description": {
			yaml: "name: n\nsteps: [{op: increment}]\n",
			want: "description is required",
		},
		"no steps": {
			yaml: "name: n\ndescription: d\nsteps: []\n",
			want: "steps list is required",
		},
		"unknown op": {
			yaml: "name: n\ndescription: d\nsteps: [{op: multiply}]\n",
			want: `unknown op "multiply"`,
		},
		"byte out of range": {
			yaml: "name: n\ndescription: d\nsteps: [{op: consume_slice, bytes: [1, 256]}]\n",
			want: "out of byte range",
		},
		"values and workload": {
			yaml: "name: n\ndescription: d\nsteps: [{op: accumulate, values: [1], workload: 3}]\n",
			want: "mutually exclusive",
		},
		"negative workload": {
			yaml: "name: n\ndescription: d\nsteps: [{op: accumulate, workload: -1}]\n",
			want: "workload must be non-negative",
		},
		"unknown assertion": {
			yaml: "name: n\ndescription: d\nsteps: [{op: increment}]\nassertions: [{type: final_state}]\n",
			want: `unknown assertion type "final_state"`,
		},
		"trace_count without op": {
			yaml: "name: n\ndescription: d\nsteps: [{op: increment}]\nassertions: [{type: trace_count, count: 1}]\n",
			want: "op is required for trace_count",
		},
		"trace_order without ops": {
			yaml: "name: n\ndescription: d\nsteps: [{op: increment}]\nassertions: [{type: trace_order}]\n",
			want: "ops list is required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStepArgs(t *testing.T) {
	args, err := Step{Op: demo.OpAccumulate, Workload: 4}.Args()
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 1, 2, 3}, args.Values)

	args, err = Step{Op: demo.OpConsumeSlice, Text: "héllo"}.Args()
	require.NoError(t, err)
	assert.Len(t, args.Bytes, 6)

	args, err = Step{Op: demo.OpConsumeSlice, Bytes: []int{0, 255}}.Args()
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 255}, args.Bytes)
}

func TestFindScenarios(t *testing.T) {
	files, err := FindScenarios("testdata/scenarios", "")
	require.NoError(t, err)
	assert.Len(t, files, 6)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "accumulate_empty.yaml"), files[0])

	filtered, err := FindScenarios("testdata/scenarios", "accumulate_*")
	require.NoError(t, err)
	assert.Len(t, filtered, 4)
}

func TestFindScenarios_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("x"), 0644))

	files, err := FindScenarios(dir, "")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.yaml"), filepath.Join(dir, "b.yml")}, files)
}

func TestFindScenarios_BadFilter(t *testing.T) {
	_, err := FindScenarios("testdata/scenarios", "[")
	assert.Error(t, err)
}
