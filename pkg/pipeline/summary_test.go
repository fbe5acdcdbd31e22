package pipeline

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errUtils "github.com/cloudposse/artifactor/errors"
	"github.com/cloudposse/artifactor/pkg/schema"
)

func TestRenderSummary(t *testing.T) {
	stepErr := errUtils.Build(errUtils.ErrStepFailed).
		WithMessagef("Step %q failed. Error", "Build image").
		WithCause(errors.New("exit status 1\nno space left on device")).
		Err()

	tests := []struct {
		name        string
		result      *Result
		expected    string
		contains    []string
		notContains []string
	}{
		{
			name: "success with outputs",
			result: &Result{
				Success: true,
				Steps: []StepResult{
					{Name: "Resolve version", Success: true, Duration: 1500 * time.Millisecond},
					{Name: "Compute image tag", Success: true, Duration: 2*time.Millisecond + 300*time.Microsecond},
				},
				Outputs: []Output{
					{Key: OutputVersion, Value: "2.0.0"},
					{Key: OutputImageTag, Value: "svc:main"},
				},
			},
			expected: "### svc build succeeded\n\n" +
				"| Step | Status | Duration |\n" +
				"|------|--------|----------|\n" +
				"| Resolve version | ✅ | 1.5s |\n" +
				"| Compute image tag | ✅ | 2ms |\n" +
				"\n| Output | Value |\n" +
				"|--------|-------|\n" +
				"| `" + OutputVersion + "` | `2.0.0` |\n" +
				"| `" + OutputImageTag + "` | `svc:main` |\n",
		},
		{
			name: "failure quotes the failing step",
			result: &Result{
				Steps: []StepResult{
					{Name: "Resolve version", Success: true},
					{Name: "Build image", Err: stepErr},
				},
				Outputs: []Output{{Key: OutputVersion, Value: "2.0.0"}},
			},
			contains: []string{
				"### svc build failed\n",
				"| Resolve version | ✅ | 0s |\n",
				"| Build image | ❌ | 0s |\n",
				"| `" + OutputVersion + "` | `2.0.0` |\n",
				"\n> Step \"Build image\" failed. Error: exit status 1 no space left on device\n",
			},
		},
		{
			name: "failure before any output",
			result: &Result{
				Steps: []StepResult{{Name: "Resolve version", Err: stepErr}},
			},
			contains:    []string{"### svc build failed\n", "| Resolve version | ❌ | 0s |\n", "\n> Step \"Build image\" failed"},
			notContains: []string{"| Output | Value |"},
		},
		{
			name:        "no steps",
			result:      &Result{Success: true},
			contains:    []string{"### svc build succeeded\n", "|------|--------|----------|\n"},
			notContains: []string{"| Output | Value |", "> "},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderSummary(&schema.Configuration{AppName: "svc"}, tt.result)

			if tt.expected != "" {
				assert.Equal(t, tt.expected, got)
			}
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}
