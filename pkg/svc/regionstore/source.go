package regionstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"sigs.k8s.io/yaml"
)

// ErrNoRegionsInFile is returned when a regions file parses but lists nothing.
var ErrNoRegionsInFile = errors.New("regions file lists no regions")

// Source yields the unfiltered desired regions.
type Source interface {
	Regions(ctx context.Context) ([]v1alpha1.Region, error)
}

// FileSource reads regions from a YAML or JSON file.
//
// Both a document with a top-level "regions" list and a bare list are accepted.
// Entries are either objects ({id, displayName}) or plain region identifiers.
type FileSource struct {
	Path string
}

type fileEntry struct {
	v1alpha1.Region
}

// UnmarshalJSON accepts a plain string as shorthand for {"id": "..."}.
func (e *fileEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		return json.Unmarshal(trimmed, &e.ID) //nolint:wrapcheck // Decoder adds context
	}

	return json.Unmarshal(trimmed, &e.Region) //nolint:wrapcheck // Decoder adds context
}

type fileDocument struct {
	Regions []fileEntry `json:"regions"`
}

// Regions parses the file.
func (s FileSource) Regions(_ context.Context) ([]v1alpha1.Region, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read regions file %s: %w", s.Path, err)
	}

	entries, err := parseRegionsFile(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse regions file %s: %w", s.Path, err)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRegionsInFile, s.Path)
	}

	regions := make([]v1alpha1.Region, 0, len(entries))
	for _, entry := range entries {
		regions = append(regions, v1alpha1.Region{ID: entry.ID, DisplayName: entry.DisplayName})
	}

	return regions, nil
}

func parseRegionsFile(data []byte) ([]fileEntry, error) {
	var list []fileEntry

	listErr := yaml.Unmarshal(data, &list)
	if listErr == nil {
		return list, nil
	}

	var document fileDocument

	err := yaml.Unmarshal(data, &document)
	if err != nil {
		return nil, errors.Join(err, listErr)
	}

	return document.Regions, nil
}

// ProviderSource lists the regions the provider can serve.
type ProviderSource struct {
	Provisioner provider.Provisioner
}

// Regions queries the provisioner. Failures are returned as provider.UnavailableError.
func (s ProviderSource) Regions(ctx context.Context) ([]v1alpha1.Region, error) {
	if s.Provisioner == nil {
		return nil, provider.NewUnavailableError("list regions", provider.ErrProviderUnavailable)
	}

	regions, err := s.Provisioner.ListRegions(ctx)
	if err != nil {
		return nil, unavailable("list regions", err)
	}

	return regions, nil
}

// unavailable wraps err as an UnavailableError unless it already is one.
func unavailable(op string, err error) error {
	if provider.IsUnavailable(err) {
		return err
	}

	return provider.NewUnavailableError(op, err)
}
