// Package config resolves the run configuration from flags, GitHub Actions
// inputs, environment variables and an optional .artifactor.yaml file.
package config

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	errUtils "github.com/cloudposse/artifactor/errors"
	log "github.com/cloudposse/artifactor/pkg/logger"
	"github.com/cloudposse/artifactor/pkg/perf"
	"github.com/cloudposse/artifactor/pkg/schema"
)

const (
	// ConfigFileName is the config file looked up in the working directory, without extension.
	ConfigFileName = ".artifactor"

	// EnvPrefix prefixes the environment variable of every option.
	EnvPrefix = "ARTIFACTOR"

	// InputEnvPrefix is how GitHub Actions exposes action inputs to the step.
	InputEnvPrefix = "INPUT_"
)

// Option describes one configuration key.
type Option struct {
	Key          string
	DefaultValue any
	Description  string
}

// Options lists every key of schema.Configuration.
var Options = []Option{
	{Key: "app-name", DefaultValue: "", Description: "Application name used for the image and the artifact"},
	{Key: "build-configuration", DefaultValue: "", Description: "Build configuration passed to the image build as BUILD_CONFIGURATION"},
	{Key: "registry", DefaultValue: "", Description: "Registry host prefixed to the image name"},
	{Key: "working-directory", DefaultValue: schema.DefaultWorkingDirectory, Description: "Directory searched for version.json and the Dockerfile"},
	{Key: "extract-mode", DefaultValue: schema.ExtractModeCombined, Description: "How artifacts are extracted from the image: combined or separate"},
	{Key: "container-path", DefaultValue: "", Description: "Directory inside the image holding the artifacts"},
	{Key: "extract-dir", DefaultValue: schema.DefaultExtractDir, Description: "Local directory the artifacts are copied into"},
	{Key: "container-name", DefaultValue: schema.DefaultExtractContainerName, Description: "Name of the temporary extract container"},
	{Key: "artifact-backend", DefaultValue: schema.ArtifactBackendAuto, Description: "Where artifacts are uploaded: auto, github or local"},
	{Key: "artifact-dir", DefaultValue: schema.DefaultArtifactDir, Description: "Root directory of the local artifact backend"},
	{Key: "retention-days", DefaultValue: 0, Description: "Artifact retention in days, 0 keeps the repository default"},
	{Key: "push", DefaultValue: false, Description: "Push the image tags after the build"},
	{Key: "strict-stderr", DefaultValue: false, Description: "Fail when the version tool writes to stderr"},
	{Key: "skip-tool-install", DefaultValue: false, Description: "Do not install the version tool"},
	{Key: "dry-run", DefaultValue: false, Description: "Log external commands instead of running them"},
	{Key: "profile", DefaultValue: false, Description: "Record step timings and log them at the end of the run"},
	{Key: "container-runtime", DefaultValue: "", Description: "Container runtime to use: docker or podman"},
	{Key: "log-level", DefaultValue: string(log.LogLevelInfo), Description: "Log level: Trace, Debug, Info, Warning or Off"},
}

// Handler owns the viper instance the configuration is resolved from.
type Handler struct {
	v *viper.Viper
}

// New creates a Handler with defaults and environment bindings for every option.
func New() (*Handler, error) {
	defer perf.Track(nil, "config.New")()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetTypeByDefaultValue(true)

	for _, opt := range Options {
		v.SetDefault(opt.Key, opt.DefaultValue)
		// The first variable that is set and non-empty wins.
		if err := v.BindEnv(opt.Key, InputEnvNames(opt.Key)...); err != nil {
			return nil, fmt.Errorf("failed to bind env vars for %s: %w", opt.Key, err)
		}
	}

	return &Handler{v: v}, nil
}

// InputEnvNames returns the environment variables read for key, highest priority first.
func InputEnvNames(key string) []string {
	upper := strings.ToUpper(key)
	underscored := strings.ReplaceAll(upper, "-", "_")

	return []string{
		InputEnvPrefix + upper,
		InputEnvPrefix + underscored,
		EnvPrefix + "_" + underscored,
	}
}

// RegisterFlags adds a flag per option to flags, skipping flags already present.
func RegisterFlags(flags *pflag.FlagSet) error {
	for _, opt := range Options {
		if flags.Lookup(opt.Key) != nil {
			continue
		}
		switch value := opt.DefaultValue.(type) {
		case string:
			flags.String(opt.Key, value, opt.Description)
		case int:
			flags.Int(opt.Key, value, opt.Description)
		case bool:
			flags.Bool(opt.Key, value, opt.Description)
		default:
			return fmt.Errorf("unsupported type for key %s", opt.Key)
		}
	}

	return nil
}

// BindFlags binds the option flags of flags, registering any that are missing.
// A flag set on the command line overrides every other source.
func (h *Handler) BindFlags(flags *pflag.FlagSet) error {
	defer perf.Track(nil, "config.Handler.BindFlags")()

	if err := RegisterFlags(flags); err != nil {
		return err
	}

	for _, opt := range Options {
		if err := h.v.BindPFlag(opt.Key, flags.Lookup(opt.Key)); err != nil {
			return fmt.Errorf("failed to bind %s: %w", opt.Key, err)
		}
	}

	return nil
}

// Load reads the config file and returns the validated configuration.
// An empty configFile looks for .artifactor.{yaml,yml} in the current directory;
// a missing default file is not an error.
func (h *Handler) Load(configFile string) (*schema.Configuration, error) {
	defer perf.Track(nil, "config.Handler.Load")()

	if err := h.readConfigFile(configFile); err != nil {
		return nil, err
	}

	var cfg schema.Configuration
	if err := h.v.Unmarshal(&cfg); err != nil {
		return nil, errUtils.Build(errUtils.ErrInvalidInput).
			WithCause(err).
			WithHint("Check the types of the values in the config file").
			Err()
	}

	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ConfigFileUsed returns the config file that was read, if any.
func (h *Handler) ConfigFileUsed() string {
	return h.v.ConfigFileUsed()
}

func (h *Handler) readConfigFile(configFile string) error {
	if configFile != "" {
		h.v.SetConfigFile(configFile)
	} else {
		h.v.SetConfigName(ConfigFileName)
		h.v.AddConfigPath(".")
	}

	err := h.v.ReadInConfig()
	if err == nil {
		log.Debug("Loaded config file", "file", h.v.ConfigFileUsed())
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if configFile == "" && errors.As(err, &notFound) {
		log.Trace("No config file found, using flags and environment only")
		return nil
	}

	return errUtils.Build(errUtils.ErrConfigFile).
		WithCause(err).
		WithContext("file", configFile).
		Err()
}

func normalize(cfg *schema.Configuration) {
	cfg.AppName = strings.TrimSpace(cfg.AppName)
	cfg.Registry = strings.TrimSpace(cfg.Registry)
	cfg.Extract.Mode = strings.ToLower(strings.TrimSpace(cfg.Extract.Mode))
	cfg.Artifact.Backend = strings.ToLower(strings.TrimSpace(cfg.Artifact.Backend))
	cfg.Runtime = strings.ToLower(strings.TrimSpace(cfg.Runtime))

	if cfg.WorkingDirectory == "" {
		cfg.WorkingDirectory = schema.DefaultWorkingDirectory
	}
	if cfg.Extract.Mode == "" {
		cfg.Extract.Mode = schema.ExtractModeCombined
	}
	if cfg.Extract.Dir == "" {
		cfg.Extract.Dir = schema.DefaultExtractDir
	}
	if cfg.Extract.ContainerName == "" {
		cfg.Extract.ContainerName = schema.DefaultExtractContainerName
	}
	if cfg.Artifact.Backend == "" {
		cfg.Artifact.Backend = schema.ArtifactBackendAuto
	}
	if cfg.Artifact.Dir == "" {
		cfg.Artifact.Dir = schema.DefaultArtifactDir
	}
}
