package provider

import (
	"context"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/stretchr/testify/mock"
)

// MockProvisioner is a mock implementation of the Provisioner interface for testing.
type MockProvisioner struct {
	mock.Mock
}

// NewMockProvisioner creates a new MockProvisioner instance.
func NewMockProvisioner() *MockProvisioner {
	return &MockProvisioner{}
}

// ListRegions mocks listing regions.
func (m *MockProvisioner) ListRegions(ctx context.Context) ([]v1alpha1.Region, error) {
	args := m.Called(ctx)

	result, _ := args.Get(0).([]v1alpha1.Region)

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ListAddresses mocks listing addresses.
func (m *MockProvisioner) ListAddresses(ctx context.Context) ([]Address, error) {
	args := m.Called(ctx)

	result, _ := args.Get(0).([]Address)

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ReserveAddress mocks reserving an address.
func (m *MockProvisioner) ReserveAddress(ctx context.Context, region string) (Address, error) {
	args := m.Called(ctx, region)

	result, _ := args.Get(0).(Address)

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ReleaseAddress mocks releasing an address.
func (m *MockProvisioner) ReleaseAddress(ctx context.Context, region string) error {
	args := m.Called(ctx, region)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}

// ListInstances mocks listing instances.
func (m *MockProvisioner) ListInstances(ctx context.Context) ([]Instance, error) {
	args := m.Called(ctx)

	result, _ := args.Get(0).([]Instance)

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// CreateInstance mocks creating an instance.
func (m *MockProvisioner) CreateInstance(ctx context.Context, spec InstanceSpec) (Instance, error) {
	args := m.Called(ctx, spec)

	result, _ := args.Get(0).(Instance)

	return result, args.Error(1) //nolint:wrapcheck // Mock function, wrapping not needed
}

// DeleteInstance mocks deleting an instance.
func (m *MockProvisioner) DeleteInstance(ctx context.Context, region string) error {
	args := m.Called(ctx, region)

	return args.Error(0) //nolint:wrapcheck // Mock function, wrapping not needed
}
