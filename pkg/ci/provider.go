// Package ci provides CI/CD provider abstractions and integrations.
package ci

//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -source=provider.go -destination=mock_provider.go -package=ci

// Provider represents a CI/CD provider (GitHub Actions, a local shell, etc.).
type Provider interface {
	// Name returns the provider name (e.g., "github-actions", "generic").
	Name() string

	// Detect returns true if this provider is active in the current environment.
	Detect() bool

	// Context returns metadata about the triggering event.
	Context() (*Context, error)

	// OutputWriter returns a writer for step outputs ($GITHUB_OUTPUT, etc.).
	OutputWriter() OutputWriter

	// AddPath prepends dir to the executable search path of this process and
	// of later steps in the same job.
	AddPath(dir string) error

	// Fail marks the run as failed with message.
	Fail(message string)
}

// OutputWriter writes CI outputs (step outputs, job summaries, etc.).
type OutputWriter interface {
	// WriteOutput writes a key-value pair to CI outputs (e.g., $GITHUB_OUTPUT).
	WriteOutput(key, value string) error

	// WriteSummary writes content to the job summary (e.g., $GITHUB_STEP_SUMMARY).
	WriteSummary(content string) error
}

// Context contains metadata about the event that triggered the run.
type Context struct {
	// Provider is the provider name.
	Provider string

	// EventPath is the path of the JSON file describing the event.
	EventPath string

	// Ref is the triggering reference (e.g., "refs/heads/main", "refs/pull/42/merge").
	Ref string

	// SHA is the commit that triggered the run.
	SHA string

	// Repository is "owner/repo".
	Repository string
}
