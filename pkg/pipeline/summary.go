package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/cloudposse/artifactor/pkg/schema"
)

// RenderSummary renders the run as Markdown for the job summary.
func RenderSummary(config *schema.Configuration, result *Result) string {
	var b strings.Builder

	status := "succeeded"
	if !result.Success {
		status = "failed"
	}
	fmt.Fprintf(&b, "### %s build %s\n\n", config.AppName, status)

	b.WriteString("| Step | Status | Duration |\n")
	b.WriteString("|------|--------|----------|\n")
	for _, step := range result.Steps {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", step.Name, stepStatus(step), step.Duration.Round(time.Millisecond))
	}

	if len(result.Outputs) > 0 {
		b.WriteString("\n| Output | Value |\n")
		b.WriteString("|--------|-------|\n")
		rows := lo.Map(result.Outputs, func(o Output, _ int) string {
			return fmt.Sprintf("| `%s` | `%s` |\n", o.Key, o.Value)
		})
		b.WriteString(strings.Join(rows, ""))
	}

	if failed, ok := lo.Find(result.Steps, func(s StepResult) bool { return !s.Success }); ok && failed.Err != nil {
		fmt.Fprintf(&b, "\n> %s\n", strings.ReplaceAll(failed.Err.Error(), "\n", " "))
	}

	return b.String()
}

func stepStatus(step StepResult) string {
	if step.Success {
		return "✅"
	}
	return "❌"
}
