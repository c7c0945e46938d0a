package provisioner

import (
	"context"
	"errors"
	"fmt"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/svc/provider/hetzner"
	"github.com/devantler-tech/gcping/pkg/svc/provider/memory"
)

// ErrTokenRequired is returned when the Hetzner backend is selected without an API token.
var ErrTokenRequired = errors.New("hetzner cloud token is required (set provider.token or HCLOUD_TOKEN)")

// ErrConfigRequired is returned when Create is called without a configuration.
var ErrConfigRequired = errors.New("configuration is required")

// DefaultFactory creates the provisioner selected by cfg.Provider.Kind.
type DefaultFactory struct {
	// Catalog seeds the Memory backend. Defaults to memory.DefaultCatalog.
	Catalog []v1alpha1.Region
}

// Compile-time interface compliance verification.
var _ provider.Factory = DefaultFactory{}

// Create returns the configured provisioner.
func (f DefaultFactory) Create(_ context.Context, cfg *v1alpha1.Config) (provider.Provisioner, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	switch cfg.Provider.Kind {
	case v1alpha1.ProviderHetzner:
		if cfg.Provider.Token == "" {
			return nil, ErrTokenRequired
		}

		return hetzner.NewProviderFromToken(cfg.Provider.Token, hetzner.Options{
			Project:       cfg.Project,
			ServerType:    cfg.Provider.ServerType,
			ServerImage:   cfg.Provider.ServerImage,
			ContainerPort: cfg.Provider.ContainerPort,
		}), nil
	case v1alpha1.ProviderMemory:
		catalog := f.Catalog
		if catalog == nil {
			catalog = memory.DefaultCatalog()
		}

		if cfg.Provider.StateFile == "" {
			return memory.NewProvider(catalog...), nil
		}

		prov, err := memory.NewProviderWithStateFile(cfg.Provider.StateFile, catalog...)
		if err != nil {
			return nil, fmt.Errorf("failed to open memory provider state: %w", err)
		}

		return prov, nil
	default:
		return nil, fmt.Errorf("%w: %s", provider.ErrUnsupportedProvider, cfg.Provider.Kind)
	}
}
