package configmanager

import (
	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
)

// FieldSelector binds a configuration field to a CLI flag.
type FieldSelector[T any] struct {
	// Selector returns a pointer to the field.
	Selector func(*T) any
	// Flag overrides the flag name derived from the field name.
	Flag string
	// Description is the flag usage text.
	Description string
	// DefaultValue is applied when neither file, environment nor flag set the field.
	DefaultValue any
}

// ProjectFieldSelector selects the deployment name.
func ProjectFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:     func(c *v1alpha1.Config) any { return &c.Project },
		Description:  "Deployment name used to prefix and label provisioned resources",
		DefaultValue: v1alpha1.DefaultProject,
	}
}

// LogLevelFieldSelector selects the structured log level.
func LogLevelFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:     func(c *v1alpha1.Config) any { return &c.LogLevel },
		Description:  "Log level (trace, debug, info, warn, error)",
		DefaultValue: v1alpha1.DefaultLogLevel,
	}
}

// MetricsFileFieldSelector selects the Prometheus textfile path.
func MetricsFileFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:    func(c *v1alpha1.Config) any { return &c.MetricsFile },
		Description: "Write Prometheus metrics to this textfile after the run",
	}
}

// SourceFieldSelector selects where desired regions come from.
func SourceFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:     func(c *v1alpha1.Config) any { return &c.Regions.Source },
		Description:  "Source of the desired regions (Provider, File)",
		DefaultValue: v1alpha1.SourceProvider,
	}
}

// RegionsFileFieldSelector selects the static regions file.
func RegionsFileFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:    func(c *v1alpha1.Config) any { return &c.Regions.File },
		Flag:        "regions-file",
		Description: "YAML or JSON file listing the desired regions (with --source File)",
	}
}

// IncludeFieldSelector selects the region allow list.
func IncludeFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:    func(c *v1alpha1.Config) any { return &c.Regions.Include },
		Description: "Only deploy these regions",
	}
}

// ExcludeFieldSelector selects the region deny list.
func ExcludeFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:    func(c *v1alpha1.Config) any { return &c.Regions.Exclude },
		Description: "Never deploy these regions",
	}
}

// ZoneSuffixFieldSelector selects the suffix deriving zones from region IDs.
func ZoneSuffixFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:     func(c *v1alpha1.Config) any { return &c.Regions.ZoneSuffix },
		Description:  "Suffix appended to a region ID to derive its zone",
		DefaultValue: v1alpha1.DefaultZoneSuffix,
	}
}

// ProviderFieldSelector selects the provisioning backend.
func ProviderFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:     func(c *v1alpha1.Config) any { return &c.Provider.Kind },
		Flag:         "provider",
		Description:  "Provisioning backend (Hetzner, Memory)",
		DefaultValue: v1alpha1.ProviderHetzner,
	}
}

// ContainerImageFieldSelector selects the ping container image.
func ContainerImageFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:     func(c *v1alpha1.Config) any { return &c.Provider.ContainerImage },
		Flag:         "image",
		Description:  "Container image of the ping service",
		DefaultValue: v1alpha1.DefaultContainerImage,
	}
}

// StateFileFieldSelector selects the Memory provider state file.
func StateFileFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:    func(c *v1alpha1.Config) any { return &c.Provider.StateFile },
		Description: "Persist the Memory provider sandbox in this file",
	}
}

// ConcurrencyFieldSelector selects the number of regions reconciled at once.
func ConcurrencyFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:     func(c *v1alpha1.Config) any { return &c.Reconcile.Concurrency },
		Description:  "Maximum number of regions reconciled concurrently",
		DefaultValue: v1alpha1.DefaultConcurrency,
	}
}

// DeadlineFieldSelector selects the soft deadline of a run.
func DeadlineFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:     func(c *v1alpha1.Config) any { return &c.Reconcile.Deadline },
		Description:  "Stop waiting after this long and report unfinished regions as pending (0 waits)",
		DefaultValue: v1alpha1.DefaultDeadline,
	}
}

// RetryTimeoutFieldSelector selects the per-operation retry budget.
func RetryTimeoutFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:     func(c *v1alpha1.Config) any { return &c.Reconcile.RetryTimeout },
		Description:  "Retry budget for operations failing with a transient provider error",
		DefaultValue: v1alpha1.DefaultRetryTimeout,
	}
}

// ReplaceFieldSelector selects regions whose instance is recreated.
func ReplaceFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:    func(c *v1alpha1.Config) any { return &c.Reconcile.Replace },
		Description: "Recreate the instance of these regions on their existing address",
	}
}

// FormatFieldSelector selects the config artifact format.
func FormatFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:     func(c *v1alpha1.Config) any { return &c.Emit.Format },
		Description:  "Config artifact format (JSON, JS)",
		DefaultValue: v1alpha1.FormatJSON,
	}
}

// PublisherFieldSelector selects where the config artifact goes.
func PublisherFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:     func(c *v1alpha1.Config) any { return &c.Emit.Publisher },
		Description:  "Config artifact destination (Stdout, File, GCS)",
		DefaultValue: v1alpha1.PublisherStdout,
	}
}

// OutputDirFieldSelector selects the File publisher directory.
func OutputDirFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:    func(c *v1alpha1.Config) any { return &c.Emit.OutputDir },
		Description: "Directory receiving the config artifact (with --publisher File)",
	}
}

// BucketFieldSelector selects the GCS publisher bucket.
func BucketFieldSelector() FieldSelector[v1alpha1.Config] {
	return FieldSelector[v1alpha1.Config]{
		Selector:    func(c *v1alpha1.Config) any { return &c.Emit.Bucket },
		Description: "Bucket receiving the config artifact (with --publisher GCS)",
	}
}

// CommonFieldSelectors are exposed by every command.
func CommonFieldSelectors() []FieldSelector[v1alpha1.Config] {
	return []FieldSelector[v1alpha1.Config]{
		ProjectFieldSelector(),
		LogLevelFieldSelector(),
		ProviderFieldSelector(),
		StateFileFieldSelector(),
	}
}

// RegionFieldSelectors are exposed by commands reading the desired region set.
func RegionFieldSelectors() []FieldSelector[v1alpha1.Config] {
	return append(CommonFieldSelectors(),
		SourceFieldSelector(),
		RegionsFileFieldSelector(),
		IncludeFieldSelector(),
		ExcludeFieldSelector(),
		ZoneSuffixFieldSelector(),
	)
}

// ReconcileFieldSelectors are exposed by commands applying a plan.
func ReconcileFieldSelectors() []FieldSelector[v1alpha1.Config] {
	return append(RegionFieldSelectors(),
		ContainerImageFieldSelector(),
		ConcurrencyFieldSelector(),
		DeadlineFieldSelector(),
		RetryTimeoutFieldSelector(),
		ReplaceFieldSelector(),
		MetricsFileFieldSelector(),
	)
}

// EmitFieldSelectors are exposed by commands emitting the config artifact.
func EmitFieldSelectors() []FieldSelector[v1alpha1.Config] {
	return []FieldSelector[v1alpha1.Config]{
		FormatFieldSelector(),
		PublisherFieldSelector(),
		OutputDirFieldSelector(),
		BucketFieldSelector(),
	}
}
