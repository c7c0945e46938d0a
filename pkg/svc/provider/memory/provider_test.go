package memory_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/svc/provider/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func TestReserveAddress(t *testing.T) {
	t.Parallel()

	t.Run("allocates distinct addresses", func(t *testing.T) {
		t.Parallel()

		prov := memory.NewProvider()

		first, err := prov.ReserveAddress(context.Background(), "us-east1")
		require.NoError(t, err)

		second, err := prov.ReserveAddress(context.Background(), "us-west1")
		require.NoError(t, err)

		assert.Equal(t, "us-east1", first.Region)
		assert.NotEmpty(t, first.IP)
		assert.NotEqual(t, first.IP, second.IP)
	})

	t.Run("returns conflict carrying the existing address", func(t *testing.T) {
		t.Parallel()

		prov := memory.NewProvider()
		prov.SeedAddress("us-east1", "192.0.2.10")

		_, err := prov.ReserveAddress(context.Background(), "us-east1")
		require.Error(t, err)
		assert.True(t, provider.IsConflict(err))

		existing, ok := provider.ConflictAddress(err)
		require.True(t, ok)
		assert.Equal(t, "192.0.2.10", existing.IP)
	})

	t.Run("rejects regions outside the catalog", func(t *testing.T) {
		t.Parallel()

		prov := memory.NewProvider(memory.DefaultCatalog()...)

		_, err := prov.ReserveAddress(context.Background(), "mars-north1")
		require.ErrorIs(t, err, provider.ErrUnknownRegion)
	})
}

func TestCreateInstance(t *testing.T) {
	t.Parallel()

	t.Run("requires a reserved address", func(t *testing.T) {
		t.Parallel()

		prov := memory.NewProvider()

		_, err := prov.CreateInstance(context.Background(), provider.InstanceSpec{Region: "us-east1"})
		require.Error(t, err)
		assert.False(t, provider.IsConflict(err))
	})

	t.Run("binds the instance to the reserved address", func(t *testing.T) {
		t.Parallel()

		prov := memory.NewProvider()
		prov.SeedAddress("us-east1", "192.0.2.10")

		instance, err := prov.CreateInstance(context.Background(), provider.InstanceSpec{
			Region:  "us-east1",
			Address: "192.0.2.10",
		})
		require.NoError(t, err)
		assert.True(t, instance.Running)
		assert.Equal(t, "192.0.2.10", instance.Address)

		addresses, err := prov.ListAddresses(context.Background())
		require.NoError(t, err)
		require.Len(t, addresses, 1)
		assert.True(t, addresses[0].InUse)
	})

	t.Run("returns conflict when an instance exists", func(t *testing.T) {
		t.Parallel()

		prov := memory.NewProvider()
		prov.SeedAddress("us-east1", "192.0.2.10")
		prov.SeedInstance("us-east1", true)

		_, err := prov.CreateInstance(context.Background(), provider.InstanceSpec{Region: "us-east1"})
		assert.True(t, provider.IsConflict(err))
	})
}

func TestDeleteAndRelease(t *testing.T) {
	t.Parallel()

	prov := memory.NewProvider()
	prov.SeedAddress("us-east1", "192.0.2.10")
	prov.SeedInstance("us-east1", false)

	require.NoError(t, prov.DeleteInstance(context.Background(), "us-east1"))
	require.NoError(t, prov.ReleaseAddress(context.Background(), "us-east1"))

	assert.True(t, provider.IsConflict(prov.DeleteInstance(context.Background(), "us-east1")))
	assert.True(t, provider.IsConflict(prov.ReleaseAddress(context.Background(), "us-east1")))

	snapshot := prov.Snapshot()
	assert.Empty(t, snapshot.Addresses)
	assert.Empty(t, snapshot.Instances)
}

func TestInjectFault(t *testing.T) {
	t.Parallel()

	prov := memory.NewProvider()
	prov.InjectFault(memory.OpReserveAddress, "us-east1", provider.NewUnavailableError("reserve", errBoom))

	_, err := prov.ReserveAddress(context.Background(), "us-east1")
	require.Error(t, err)
	assert.True(t, provider.IsUnavailable(err))

	_, err = prov.ReserveAddress(context.Background(), "us-east1")
	require.NoError(t, err)

	assert.Equal(t,
		[]string{memory.OpReserveAddress, memory.OpReserveAddress},
		prov.CallsFor("us-east1"),
	)
}

func TestSetHook(t *testing.T) {
	t.Parallel()

	prov := memory.NewProvider()

	var seen []string

	prov.SetHook(func(_ context.Context, op, region string) {
		seen = append(seen, op+"/"+region)
	})

	_, err := prov.ListInstances(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{memory.OpListInstances + "/"}, seen)
}

func TestNewProviderWithStateFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sandbox.json")

	first, err := memory.NewProviderWithStateFile(path, memory.DefaultCatalog()...)
	require.NoError(t, err)

	reserved, err := first.ReserveAddress(context.Background(), "europe-west1")
	require.NoError(t, err)

	second, err := memory.NewProviderWithStateFile(path)
	require.NoError(t, err)

	addresses, err := second.ListAddresses(context.Background())
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Equal(t, reserved.IP, addresses[0].IP)

	regions, err := second.ListRegions(context.Background())
	require.NoError(t, err)
	assert.Len(t, regions, len(memory.DefaultCatalog()))

	// Allocation continues after the restored counter.
	next, err := second.ReserveAddress(context.Background(), "europe-west2")
	require.NoError(t, err)
	assert.NotEqual(t, reserved.IP, next.IP)
}
