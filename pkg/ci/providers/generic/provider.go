// Package generic implements the fallback CI provider used for local runs and
// CI systems without a dedicated integration.
package generic

import (
	"io"
	"os"

	"github.com/cloudposse/artifactor/pkg/ci"
	"github.com/cloudposse/artifactor/pkg/git"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
)

// ProviderName is the name of the generic provider.
const ProviderName = "generic"

// Provider prints outputs to a stream and reports failures through the logger.
type Provider struct {
	getenv  func(string) string
	out     io.Writer
	repoDir string
}

// NewProvider creates a generic provider writing outputs to stdout.
func NewProvider() *Provider {
	defer perf.Track(nil, "generic.NewProvider")()

	return &Provider{getenv: os.Getenv, out: os.Stdout, repoDir: "."}
}

// NewProviderWithEnv creates a generic provider with a custom environment and output stream.
func NewProviderWithEnv(getenv func(string) string, out io.Writer) *Provider {
	defer perf.Track(nil, "generic.NewProviderWithEnv")()

	if getenv == nil {
		getenv = os.Getenv
	}
	if out == nil {
		out = os.Stdout
	}
	return &Provider{getenv: getenv, out: out, repoDir: "."}
}

// WithRepoDir sets the directory whose git checkout fills in a missing ref.
func (p *Provider) WithRepoDir(dir string) *Provider {
	p.repoDir = dir
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return ProviderName
}

// Detect always returns false. The generic provider is selected explicitly as
// the fallback when no other provider is detected.
func (p *Provider) Detect() bool {
	return false
}

// Context builds the run context from the same variables GitHub Actions uses,
// so a local run can simulate any ref by exporting GITHUB_REF. Without
// GITHUB_REF the ref and commit of the local git checkout are used.
func (p *Provider) Context() (*ci.Context, error) {
	defer perf.Track(nil, "generic.Provider.Context")()

	runContext := &ci.Context{
		Provider:   ProviderName,
		EventPath:  p.getenv("GITHUB_EVENT_PATH"),
		Ref:        p.getenv("GITHUB_REF"),
		SHA:        p.getenv("GITHUB_SHA"),
		Repository: p.getenv("GITHUB_REPOSITORY"),
	}

	if runContext.Ref == "" || runContext.Repository == "" {
		p.fillFromCheckout(runContext)
	}

	return runContext, nil
}

// fillFromCheckout completes runContext from the local repository. A missing
// repository leaves the context as is.
func (p *Provider) fillFromCheckout(runContext *ci.Context) {
	repo, err := git.OpenRepo(p.repoDir)
	if err != nil {
		log.Debug("No git checkout found", "dir", p.repoDir, "error", err)
		return
	}

	if runContext.Ref == "" {
		head, err := git.ResolveHead(repo)
		if err != nil {
			log.Debug("Could not resolve HEAD", "error", err)
		} else {
			runContext.Ref = head.Ref
			if runContext.SHA == "" {
				runContext.SHA = head.SHA
			}
			log.Debug("Using ref of the local checkout", "ref", head.Ref, "sha", head.SHA)
		}
	}

	if runContext.Repository == "" {
		if slug, err := git.RepoSlug(repo); err != nil {
			log.Debug("Could not parse the remote URL", "error", err)
		} else {
			runContext.Repository = slug
		}
	}
}

// OutputWriter returns a writer printing key=value lines.
func (p *Provider) OutputWriter() ci.OutputWriter {
	return ci.NewStreamOutputWriter(p.out)
}

// AddPath prepends dir to PATH for this process only.
func (p *Provider) AddPath(dir string) error {
	defer perf.Track(nil, "generic.Provider.AddPath")()

	return ci.PrependProcessPath(dir)
}

// Fail logs message at error level.
func (p *Provider) Fail(message string) {
	log.Error(message)
}

// Resolve returns the detected CI provider, or a generic provider reading the
// checkout in repoDir when none is detected.
func Resolve(repoDir string) ci.Provider {
	defer perf.Track(nil, "generic.Resolve")()

	if p := ci.Detect(); p != nil {
		return p
	}
	log.Debug("No CI provider detected, using generic provider")
	return NewProvider().WithRepoDir(repoDir)
}
