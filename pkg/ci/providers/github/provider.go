// Package github implements the CI provider for GitHub Actions.
package github

import (
	"fmt"
	"io"
	"os"

	"github.com/cloudposse/artifactor/pkg/ci"
	"github.com/cloudposse/artifactor/pkg/perf"
)

const (
	// ProviderName is the name of the GitHub Actions provider.
	ProviderName = "github-actions"
)

// Provider implements ci.Provider for GitHub Actions.
type Provider struct {
	getenv func(string) string
	out    io.Writer
}

// NewProvider creates a GitHub Actions provider reading the process environment.
func NewProvider() *Provider {
	defer perf.Track(nil, "github.NewProvider")()

	return &Provider{getenv: os.Getenv, out: os.Stdout}
}

// NewProviderWithEnv creates a provider with a custom environment lookup and
// workflow command stream.
func NewProviderWithEnv(getenv func(string) string, out io.Writer) *Provider {
	defer perf.Track(nil, "github.NewProviderWithEnv")()

	if getenv == nil {
		getenv = os.Getenv
	}
	if out == nil {
		out = os.Stdout
	}
	return &Provider{getenv: getenv, out: out}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return ProviderName
}

// Detect returns true if running in GitHub Actions.
func (p *Provider) Detect() bool {
	defer perf.Track(nil, "github.Provider.Detect")()

	return p.getenv("GITHUB_ACTIONS") == "true"
}

// Context returns CI metadata from GitHub Actions environment variables.
func (p *Provider) Context() (*ci.Context, error) {
	defer perf.Track(nil, "github.Provider.Context")()

	return &ci.Context{
		Provider:   ProviderName,
		EventPath:  p.getenv("GITHUB_EVENT_PATH"),
		Ref:        p.getenv("GITHUB_REF"),
		SHA:        p.getenv("GITHUB_SHA"),
		Repository: p.getenv("GITHUB_REPOSITORY"),
	}, nil
}

// OutputWriter returns an OutputWriter for $GITHUB_OUTPUT and $GITHUB_STEP_SUMMARY.
func (p *Provider) OutputWriter() ci.OutputWriter {
	defer perf.Track(nil, "github.Provider.OutputWriter")()

	return ci.NewFileOutputWriter(
		p.getenv("GITHUB_OUTPUT"),
		p.getenv("GITHUB_STEP_SUMMARY"),
	)
}

// AddPath prepends dir to PATH for this process and appends it to $GITHUB_PATH
// so that later steps of the job see it too.
func (p *Provider) AddPath(dir string) error {
	defer perf.Track(nil, "github.Provider.AddPath")()

	if pathFile := p.getenv("GITHUB_PATH"); pathFile != "" {
		if err := ci.AppendPathFile(pathFile, dir); err != nil {
			return err
		}
	}
	return ci.PrependProcessPath(dir)
}

// Fail emits an error annotation, which marks the step as failed in the run UI.
func (p *Provider) Fail(message string) {
	defer perf.Track(nil, "github.Provider.Fail")()

	fmt.Fprintf(p.out, "::error::%s\n", EscapeCommandData(message))
}

func init() {
	p := NewProvider()
	if p.Detect() {
		ci.Register(p)
	}
}
