package provisioner_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/svc/provider/hetzner"
	"github.com/devantler-tech/gcping/pkg/svc/provider/memory"
	"github.com/devantler-tech/gcping/pkg/svc/provisioner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFactoryCreate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		mutate       func(*v1alpha1.Config)
		expectedType any
		errorIs      error
	}{
		{
			name: "hetzner with token",
			mutate: func(cfg *v1alpha1.Config) {
				cfg.Provider.Token = "token"
			},
			expectedType: &hetzner.Provider{},
		},
		{
			name:    "hetzner without token",
			mutate:  func(cfg *v1alpha1.Config) { cfg.Provider.Token = "" },
			errorIs: provisioner.ErrTokenRequired,
		},
		{
			name:         "memory",
			mutate:       func(cfg *v1alpha1.Config) { cfg.Provider.Kind = v1alpha1.ProviderMemory },
			expectedType: &memory.Provider{},
		},
		{
			name:    "unsupported",
			mutate:  func(cfg *v1alpha1.Config) { cfg.Provider.Kind = "Nimbus" },
			errorIs: provider.ErrUnsupportedProvider,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			cfg := v1alpha1.NewConfig()
			testCase.mutate(cfg)

			prov, err := provisioner.DefaultFactory{}.Create(context.Background(), cfg)

			if testCase.errorIs != nil {
				require.ErrorIs(t, err, testCase.errorIs)
				assert.Nil(t, prov)

				return
			}

			require.NoError(t, err)
			assert.IsType(t, testCase.expectedType, prov)
		})
	}
}

func TestDefaultFactoryNilConfig(t *testing.T) {
	t.Parallel()

	_, err := provisioner.DefaultFactory{}.Create(context.Background(), nil)
	require.ErrorIs(t, err, provisioner.ErrConfigRequired)
}

func TestDefaultFactoryMemoryCatalog(t *testing.T) {
	t.Parallel()

	cfg := v1alpha1.NewConfig()
	cfg.Provider.Kind = v1alpha1.ProviderMemory

	prov, err := provisioner.DefaultFactory{}.Create(context.Background(), cfg)
	require.NoError(t, err)

	regions, err := prov.ListRegions(context.Background())
	require.NoError(t, err)
	assert.Len(t, regions, len(memory.DefaultCatalog()))

	custom := provisioner.DefaultFactory{Catalog: []v1alpha1.Region{{ID: "lab1"}}}

	prov, err = custom.Create(context.Background(), cfg)
	require.NoError(t, err)

	regions, err = prov.ListRegions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []v1alpha1.Region{{ID: "lab1"}}, regions)
}

func TestDefaultFactoryMemoryStateFile(t *testing.T) {
	t.Parallel()

	cfg := v1alpha1.NewConfig()
	cfg.Provider.Kind = v1alpha1.ProviderMemory
	cfg.Provider.StateFile = filepath.Join(t.TempDir(), "sandbox.json")

	first, err := provisioner.DefaultFactory{}.Create(context.Background(), cfg)
	require.NoError(t, err)

	reserved, err := first.ReserveAddress(context.Background(), "us-east1")
	require.NoError(t, err)

	second, err := provisioner.DefaultFactory{}.Create(context.Background(), cfg)
	require.NoError(t, err)

	addresses, err := second.ListAddresses(context.Background())
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Equal(t, reserved.IP, addresses[0].IP)
}
