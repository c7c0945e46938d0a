package v1alpha1

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Defaults applied by NewConfig.
const (
	DefaultProject         = "gcping"
	DefaultLogLevel        = "info"
	DefaultConcurrency     = 8
	DefaultDeadline        = 10 * time.Minute
	DefaultRetryTimeout    = 2 * time.Minute
	DefaultRetryBase       = time.Second
	DefaultContainerImage  = "ghcr.io/gcping/ping:latest"
	DefaultContainerPort   = 8080
	DefaultServerType      = "cx22"
	DefaultServerImage     = "docker-ce"
	DefaultEndpointScheme  = "http"
	DefaultEndpointPath    = "/ping"
	DefaultDefaultDocument = "index.html"
	DefaultObjectPrefix    = ""
)

// Config is the gcping configuration, loaded once at startup and injected into every component.
type Config struct {
	APIVersion string `json:"apiVersion,omitzero" mapstructure:"apiVersion"`
	Kind       string `json:"kind,omitzero"       mapstructure:"kind"`

	// Project names the deployment and prefixes every provisioned resource.
	Project string `json:"project" jsonschema:"description=Name prefix and ownership label for provisioned resources" mapstructure:"project"` //nolint:lll
	// LogLevel is the logrus level for structured logs.
	LogLevel string `json:"logLevel,omitzero" mapstructure:"logLevel"`
	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `json:"metricsFile,omitzero" mapstructure:"metricsFile"`

	Regions   RegionsSpec   `json:"regions"   mapstructure:"regions"`
	Provider  ProviderSpec  `json:"provider"  mapstructure:"provider"`
	Reconcile ReconcileSpec `json:"reconcile" mapstructure:"reconcile"`
	Emit      EmitSpec      `json:"emit"      mapstructure:"emit"`
}

// RegionsSpec configures the desired region set.
type RegionsSpec struct {
	Source     Source   `json:"source"            mapstructure:"source"`
	File       string   `json:"file,omitzero"     mapstructure:"file"`
	Include    []string `json:"include,omitzero"  mapstructure:"include"`
	Exclude    []string `json:"exclude,omitzero"  mapstructure:"exclude"`
	ZoneSuffix string   `json:"zoneSuffix"        mapstructure:"zoneSuffix"`
}

// ProviderSpec configures the provisioning collaborator.
type ProviderSpec struct {
	Kind Provider `json:"kind" mapstructure:"kind"`
	// Token authenticates against the provider API. Falls back to HCLOUD_TOKEN.
	Token string `json:"token,omitzero" mapstructure:"token"`
	// ServerType is the instance size.
	ServerType string `json:"serverType" mapstructure:"serverType"`
	// ServerImage is the OS image instances boot from.
	ServerImage string `json:"serverImage" mapstructure:"serverImage"`
	// ContainerImage is the ping service image started on every instance.
	ContainerImage string `json:"containerImage" mapstructure:"containerImage"`
	// ContainerPort is the port the ping container listens on.
	ContainerPort int `json:"containerPort" mapstructure:"containerPort"`
	// StateFile persists the Memory provider sandbox between runs.
	StateFile string `json:"stateFile,omitzero" mapstructure:"stateFile"`
}

// ReconcileSpec configures reconciliation runs.
type ReconcileSpec struct {
	Concurrency  int           `json:"concurrency"      mapstructure:"concurrency"`
	Deadline     time.Duration `json:"deadline"         mapstructure:"deadline"`
	RetryTimeout time.Duration `json:"retryTimeout"     mapstructure:"retryTimeout"`
	RetryBase    time.Duration `json:"retryBase"        mapstructure:"retryBase"`
	Replace      []string      `json:"replace,omitzero" mapstructure:"replace"`
}

// EmitSpec configures the config emitter and its publisher.
type EmitSpec struct {
	Format          Format    `json:"format"                  mapstructure:"format"`
	Publisher       Publisher `json:"publisher"               mapstructure:"publisher"`
	OutputDir       string    `json:"outputDir,omitzero"      mapstructure:"outputDir"`
	Bucket          string    `json:"bucket,omitzero"         mapstructure:"bucket"`
	ObjectPrefix    string    `json:"objectPrefix,omitzero"   mapstructure:"objectPrefix"`
	DefaultDocument string    `json:"defaultDocument,omitzero" mapstructure:"defaultDocument"`
	Scheme          string    `json:"scheme"                  mapstructure:"scheme"`
	Path            string    `json:"path"                    mapstructure:"path"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		APIVersion: APIVersion,
		Kind:       Kind,
		Project:    DefaultProject,
		LogLevel:   DefaultLogLevel,
		Regions: RegionsSpec{
			Source:     SourceProvider,
			ZoneSuffix: DefaultZoneSuffix,
		},
		Provider: ProviderSpec{
			Kind:           ProviderHetzner,
			ServerType:     DefaultServerType,
			ServerImage:    DefaultServerImage,
			ContainerImage: DefaultContainerImage,
			ContainerPort:  DefaultContainerPort,
		},
		Reconcile: ReconcileSpec{
			Concurrency:  DefaultConcurrency,
			Deadline:     DefaultDeadline,
			RetryTimeout: DefaultRetryTimeout,
			RetryBase:    DefaultRetryBase,
		},
		Emit: EmitSpec{
			Format:          FormatJSON,
			Publisher:       PublisherStdout,
			DefaultDocument: DefaultDefaultDocument,
			ObjectPrefix:    DefaultObjectPrefix,
			Scheme:          DefaultEndpointScheme,
			Path:            DefaultEndpointPath,
		},
	}
}

// Normalize canonicalizes enum spelling so that "hetzner" and "Hetzner" compare equal.
// Invalid values are left untouched for Validate to report.
func (c *Config) Normalize() {
	_ = c.Regions.Source.Set(string(c.Regions.Source))
	_ = c.Provider.Kind.Set(string(c.Provider.Kind))
	_ = c.Emit.Format.Set(string(c.Emit.Format))
	_ = c.Emit.Publisher.Set(string(c.Emit.Publisher))

	c.Regions.Include = trimAll(c.Regions.Include)
	c.Regions.Exclude = trimAll(c.Regions.Exclude)
	c.Reconcile.Replace = trimAll(c.Reconcile.Replace)
}

// Validate checks the configuration and returns every problem found, joined.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Project) == "" {
		errs = append(errs, ErrProjectRequired)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidLogLevel, c.LogLevel))
	}

	errs = append(errs, c.validateEnums()...)

	if c.Regions.Source == SourceFile && c.Regions.File == "" {
		errs = append(errs, ErrRegionsFileRequired)
	}

	if c.Provider.ContainerImage == "" {
		errs = append(errs, ErrImageRequired)
	}

	if c.Reconcile.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidConcurrency, c.Reconcile.Concurrency))
	}

	for name, value := range map[string]time.Duration{
		"reconcile.deadline":     c.Reconcile.Deadline,
		"reconcile.retryTimeout": c.Reconcile.RetryTimeout,
		"reconcile.retryBase":    c.Reconcile.RetryBase,
	} {
		if value < 0 {
			errs = append(errs, fmt.Errorf("%w: %s=%s", ErrInvalidDuration, name, value))
		}
	}

	switch c.Emit.Publisher {
	case PublisherGCS:
		if c.Emit.Bucket == "" {
			errs = append(errs, ErrBucketRequired)
		}
	case PublisherFile:
		if c.Emit.OutputDir == "" {
			errs = append(errs, ErrOutputDirRequired)
		}
	case PublisherStdout:
	}

	return errors.Join(errs...)
}

func (c *Config) validateEnums() []error {
	var errs []error

	checks := []struct {
		value string
		valid []string
		err   error
	}{
		{string(c.Regions.Source), enumStrings(ValidSources()), ErrInvalidSource},
		{string(c.Provider.Kind), enumStrings(ValidProviders()), ErrInvalidProvider},
		{string(c.Emit.Format), enumStrings(ValidFormats()), ErrInvalidFormat},
		{string(c.Emit.Publisher), enumStrings(ValidPublishers()), ErrInvalidPublisher},
	}

	for _, check := range checks {
		if !slices.Contains(check.valid, check.value) {
			errs = append(errs, fmt.Errorf("%w: %q", check.err, check.value))
		}
	}

	return errs
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))

	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
