package regionstore_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/svc/provider/memory"
	"github.com/devantler-tech/gcping/pkg/svc/regionstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errProviderDown = errors.New("connection refused")

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestFileSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		file     string
		content  string
		expected []v1alpha1.Region
	}{
		{
			name: "YAMLDocument",
			file: "regions.yaml",
			content: `regions:
  - id: us-east1
    displayName: South Carolina
  - europe-west1
`,
			expected: []v1alpha1.Region{
				{ID: "us-east1", DisplayName: "South Carolina"},
				{ID: "europe-west1"},
			},
		},
		{
			name:    "JSONList",
			file:    "regions.json",
			content: `[{"id":"asia-east1","displayName":"Taiwan"},"us-west1"]`,
			expected: []v1alpha1.Region{
				{ID: "asia-east1", DisplayName: "Taiwan"},
				{ID: "us-west1"},
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			source := regionstore.FileSource{Path: writeFile(t, testCase.file, testCase.content)}

			regions, err := source.Regions(context.Background())
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, regions)
		})
	}

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()

		source := regionstore.FileSource{Path: writeFile(t, "empty.yaml", "regions: []\n")}

		_, err := source.Regions(context.Background())
		require.ErrorIs(t, err, regionstore.ErrNoRegionsInFile)
	})

	t.Run("Missing", func(t *testing.T) {
		t.Parallel()

		source := regionstore.FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")}

		_, err := source.Regions(context.Background())
		require.ErrorIs(t, err, os.ErrNotExist)
		assert.False(t, provider.IsUnavailable(err))
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("AppliesFiltersAndZones", func(t *testing.T) {
		t.Parallel()

		prov := memory.NewProvider(
			v1alpha1.Region{ID: "us-east1"},
			v1alpha1.Region{ID: "us-west1"},
			v1alpha1.Region{ID: "europe-west1"},
		)

		store := regionstore.New(regionstore.ProviderSource{Provisioner: prov}, prov, regionstore.Options{
			Include:    []string{"us-east1", "US-WEST1"},
			Exclude:    []string{"us-west1"},
			ZoneSuffix: "-c",
		})

		set, err := store.Load(context.Background())
		require.NoError(t, err)
		require.Len(t, set, 1)

		assert.Equal(t, "us-east1", set[0].ID)
		assert.Equal(t, "us-east1-c", set[0].Zone)
		assert.Equal(t, v1alpha1.StatusAbsent, set[0].Status)
	})

	t.Run("RejectsDuplicates", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "dup.yaml", "- us-east1\n- us-east1\n")
		store := regionstore.New(regionstore.FileSource{Path: path}, nil, regionstore.Options{})

		_, err := store.Load(context.Background())
		require.ErrorIs(t, err, v1alpha1.ErrDuplicateRegion)
	})

	t.Run("ProviderFailureIsUnavailable", func(t *testing.T) {
		t.Parallel()

		prov := provider.NewMockProvisioner()
		prov.On("ListRegions", mock.Anything).Return(nil, errProviderDown)

		store := regionstore.New(regionstore.ProviderSource{Provisioner: prov}, prov, regionstore.Options{})

		set, err := store.Load(context.Background())
		require.Error(t, err)
		assert.Nil(t, set)
		assert.True(t, provider.IsUnavailable(err))
		require.ErrorIs(t, err, errProviderDown)
	})
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := v1alpha1.NewConfig()
	cfg.Regions.Source = v1alpha1.SourceFile
	cfg.Regions.File = writeFile(t, "regions.yaml", "regions: [us-east1, us-west1]\n")
	cfg.Regions.Exclude = []string{"us-west1"}

	set, err := regionstore.NewFromConfig(cfg, memory.NewProvider()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"us-east1"}, set.IDs())
	assert.Equal(t, "us-east1-b", set[0].Zone)
}

func TestAddresses(t *testing.T) {
	t.Parallel()

	t.Run("MapsRegionToIP", func(t *testing.T) {
		t.Parallel()

		prov := memory.NewProvider()
		prov.SeedAddress("us-east1", "192.0.2.1")
		prov.SeedAddress("us-west1", "192.0.2.2")

		store := regionstore.New(regionstore.ProviderSource{Provisioner: prov}, prov, regionstore.Options{})

		addresses, err := store.Addresses(context.Background())
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"us-east1": "192.0.2.1", "us-west1": "192.0.2.2"}, addresses)
	})

	t.Run("FailureIsUnavailable", func(t *testing.T) {
		t.Parallel()

		prov := provider.NewMockProvisioner()
		prov.On("ListAddresses", mock.Anything).Return(nil, errProviderDown)

		store := regionstore.New(regionstore.ProviderSource{Provisioner: prov}, prov, regionstore.Options{})

		addresses, err := store.Addresses(context.Background())
		require.Error(t, err)
		assert.Nil(t, addresses)
		assert.True(t, provider.IsUnavailable(err))
	})
}

func TestObserveAndMerge(t *testing.T) {
	t.Parallel()

	prov := memory.NewProvider()
	prov.SeedAddress("us-east1", "192.0.2.1")
	prov.SeedInstance("us-east1", true)
	prov.SeedAddress("us-west1", "192.0.2.2")
	prov.SeedAddress("asia-east1", "192.0.2.3")
	prov.SeedInstance("asia-east1", false)

	store := regionstore.New(regionstore.ProviderSource{Provisioner: prov}, prov, regionstore.Options{})

	state, err := store.Observe(context.Background())
	require.NoError(t, err)

	assert.Equal(t, v1alpha1.StatusInstanceRunning, state.Status("us-east1"))
	assert.Equal(t, v1alpha1.StatusAddressReserved, state.Status("us-west1"))
	assert.Equal(t, v1alpha1.StatusAddressReserved, state.Status("asia-east1"))
	assert.Equal(t, v1alpha1.StatusAbsent, state.Status("europe-west1"))

	desired, err := v1alpha1.NewRegionSet(
		v1alpha1.Region{ID: "us-west1", DisplayName: "Oregon"},
		v1alpha1.Region{ID: "europe-west1"},
		v1alpha1.Region{ID: "us-east1"},
	)
	require.NoError(t, err)

	merged := regionstore.Merge(desired, state, "")

	assert.Equal(t, []string{"us-west1", "europe-west1", "us-east1", "asia-east1"}, merged.IDs())
	assert.Equal(t, "Oregon", merged[0].DisplayName)
	assert.Equal(t, "192.0.2.2", merged[0].Address)
	assert.Empty(t, merged[1].Address)
	assert.Equal(t, "asia-east1-b", merged[3].Zone)
	assert.Equal(t, []string{"us-east1"}, merged.Running().IDs())
}

func TestObserveFailure(t *testing.T) {
	t.Parallel()

	prov := memory.NewProvider()
	prov.InjectFault(memory.OpListInstances, "", errProviderDown)

	store := regionstore.New(regionstore.ProviderSource{Provisioner: prov}, prov, regionstore.Options{})

	_, err := store.Observe(context.Background())
	require.Error(t, err)
	assert.True(t, provider.IsUnavailable(err))
}
