package v1alpha1_test

import (
	"testing"
	"time"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_DefaultsAreValid(t *testing.T) {
	t.Parallel()

	cfg := v1alpha1.NewConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, v1alpha1.APIVersion, cfg.APIVersion)
	assert.Equal(t, v1alpha1.SourceProvider, cfg.Regions.Source)
	assert.Equal(t, v1alpha1.DefaultZoneSuffix, cfg.Regions.ZoneSuffix)
	assert.Equal(t, v1alpha1.DefaultConcurrency, cfg.Reconcile.Concurrency)
}

func TestConfig_Normalize(t *testing.T) {
	t.Parallel()

	cfg := v1alpha1.NewConfig()
	cfg.Provider.Kind = "memory"
	cfg.Emit.Format = "js"
	cfg.Regions.Include = []string{" fsn1 ", "", "nbg1"}

	cfg.Normalize()

	assert.Equal(t, v1alpha1.ProviderMemory, cfg.Provider.Kind)
	assert.Equal(t, v1alpha1.FormatJS, cfg.Emit.Format)
	assert.Equal(t, []string{"fsn1", "nbg1"}, cfg.Regions.Include)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*v1alpha1.Config)
		want   error
	}{
		{
			name:   "MissingProject",
			mutate: func(c *v1alpha1.Config) { c.Project = "" },
			want:   v1alpha1.ErrProjectRequired,
		},
		{
			name:   "BadLogLevel",
			mutate: func(c *v1alpha1.Config) { c.LogLevel = "chatty" },
			want:   v1alpha1.ErrInvalidLogLevel,
		},
		{
			name:   "FileSourceWithoutFile",
			mutate: func(c *v1alpha1.Config) { c.Regions.Source = v1alpha1.SourceFile },
			want:   v1alpha1.ErrRegionsFileRequired,
		},
		{
			name:   "ZeroConcurrency",
			mutate: func(c *v1alpha1.Config) { c.Reconcile.Concurrency = 0 },
			want:   v1alpha1.ErrInvalidConcurrency,
		},
		{
			name:   "NegativeDeadline",
			mutate: func(c *v1alpha1.Config) { c.Reconcile.Deadline = -time.Second },
			want:   v1alpha1.ErrInvalidDuration,
		},
		{
			name:   "GCSWithoutBucket",
			mutate: func(c *v1alpha1.Config) { c.Emit.Publisher = v1alpha1.PublisherGCS },
			want:   v1alpha1.ErrBucketRequired,
		},
		{
			name:   "FileWithoutDir",
			mutate: func(c *v1alpha1.Config) { c.Emit.Publisher = v1alpha1.PublisherFile },
			want:   v1alpha1.ErrOutputDirRequired,
		},
		{
			name:   "UnknownProvider",
			mutate: func(c *v1alpha1.Config) { c.Provider.Kind = "gce" },
			want:   v1alpha1.ErrInvalidProvider,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cfg := v1alpha1.NewConfig()
			testCase.mutate(cfg)

			require.ErrorIs(t, cfg.Validate(), testCase.want)
		})
	}
}
