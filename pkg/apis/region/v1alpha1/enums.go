package v1alpha1

import (
	"fmt"
	"strings"
)

// setEnum matches value case-insensitively against valid and stores the canonical value.
func setEnum[T ~string](target *T, value string, valid []T, sentinel error) error {
	for _, candidate := range valid {
		if strings.EqualFold(value, string(candidate)) {
			*target = candidate

			return nil
		}
	}

	names := make([]string, 0, len(valid))
	for _, candidate := range valid {
		names = append(names, string(candidate))
	}

	return fmt.Errorf("%w: %s (valid options: %s)", sentinel, value, strings.Join(names, ", "))
}

func enumStrings[T ~string](values []T) []string {
	names := make([]string, 0, len(values))
	for _, value := range values {
		names = append(names, string(value))
	}

	return names
}

// --- Status Types ---

// Status is the deployment status of a region.
type Status string

const (
	// StatusAbsent means nothing is provisioned for the region.
	StatusAbsent Status = "Absent"
	// StatusAddressReserved means a static address exists but no instance serves it.
	StatusAddressReserved Status = "AddressReserved"
	// StatusInstanceRunning means the ping instance is running on the reserved address.
	StatusInstanceRunning Status = "InstanceRunning"
	// StatusDeleted means the region was torn down.
	StatusDeleted Status = "Deleted"
)

// ValidStatuses returns all supported region statuses.
func ValidStatuses() []Status {
	return []Status{StatusAbsent, StatusAddressReserved, StatusInstanceRunning, StatusDeleted}
}

// Set for Status (pflag.Value interface).
func (s *Status) Set(value string) error {
	return setEnum(s, value, ValidStatuses(), ErrInvalidStatus)
}

// String returns the string representation of the Status.
func (s *Status) String() string {
	return string(*s)
}

// Type returns the type of the Status.
func (s *Status) Type() string {
	return "Status"
}

// ValidValues returns all valid Status values as strings.
func (s *Status) ValidValues() []string {
	return enumStrings(ValidStatuses())
}

// --- Source Types ---

// Source selects where the desired region set is read from.
type Source string

const (
	// SourceProvider queries the provider's list of available regions.
	SourceProvider Source = "Provider"
	// SourceFile reads a static list of regions from a YAML or JSON file.
	SourceFile Source = "File"
)

// ValidSources returns all supported region sources.
func ValidSources() []Source {
	return []Source{SourceProvider, SourceFile}
}

// Set for Source (pflag.Value interface).
func (s *Source) Set(value string) error {
	return setEnum(s, value, ValidSources(), ErrInvalidSource)
}

// String returns the string representation of the Source.
func (s *Source) String() string {
	return string(*s)
}

// Type returns the type of the Source.
func (s *Source) Type() string {
	return "Source"
}

// Default returns the default value for Source (Provider).
func (s *Source) Default() any {
	return SourceProvider
}

// ValidValues returns all valid Source values as strings.
func (s *Source) ValidValues() []string {
	return enumStrings(ValidSources())
}

// --- Provider Types ---

// Provider selects the provisioning collaborator.
type Provider string

const (
	// ProviderHetzner provisions primary IPs and servers in Hetzner Cloud.
	ProviderHetzner Provider = "Hetzner"
	// ProviderMemory provisions into an in-process sandbox, optionally persisted to a state file.
	ProviderMemory Provider = "Memory"
)

// ValidProviders returns all supported providers.
func ValidProviders() []Provider {
	return []Provider{ProviderHetzner, ProviderMemory}
}

// Set for Provider (pflag.Value interface).
func (p *Provider) Set(value string) error {
	return setEnum(p, value, ValidProviders(), ErrInvalidProvider)
}

// String returns the string representation of the Provider.
func (p *Provider) String() string {
	return string(*p)
}

// Type returns the type of the Provider.
func (p *Provider) Type() string {
	return "Provider"
}

// Default returns the default value for Provider (Hetzner).
func (p *Provider) Default() any {
	return ProviderHetzner
}

// ValidValues returns all valid Provider values as strings.
func (p *Provider) ValidValues() []string {
	return enumStrings(ValidProviders())
}

// --- Format Types ---

// Format is the serialization of the client-facing config artifact.
type Format string

const (
	// FormatJSON renders a JSON document.
	FormatJSON Format = "JSON"
	// FormatJS renders a config.js script assigning the document to a constant.
	FormatJS Format = "JS"
)

// ValidFormats returns all supported artifact formats.
func ValidFormats() []Format {
	return []Format{FormatJSON, FormatJS}
}

// Set for Format (pflag.Value interface).
func (f *Format) Set(value string) error {
	return setEnum(f, value, ValidFormats(), ErrInvalidFormat)
}

// String returns the string representation of the Format.
func (f *Format) String() string {
	return string(*f)
}

// Type returns the type of the Format.
func (f *Format) Type() string {
	return "Format"
}

// Default returns the default value for Format (JSON).
func (f *Format) Default() any {
	return FormatJSON
}

// ValidValues returns all valid Format values as strings.
func (f *Format) ValidValues() []string {
	return enumStrings(ValidFormats())
}

// --- Publisher Types ---

// Publisher selects where the rendered config artifact is delivered.
type Publisher string

const (
	// PublisherStdout writes the artifact to standard output.
	PublisherStdout Publisher = "Stdout"
	// PublisherFile writes the artifact into a local directory.
	PublisherFile Publisher = "File"
	// PublisherGCS uploads the artifact to a Google Cloud Storage bucket.
	PublisherGCS Publisher = "GCS"
)

// ValidPublishers returns all supported publishers.
func ValidPublishers() []Publisher {
	return []Publisher{PublisherStdout, PublisherFile, PublisherGCS}
}

// Set for Publisher (pflag.Value interface).
func (p *Publisher) Set(value string) error {
	return setEnum(p, value, ValidPublishers(), ErrInvalidPublisher)
}

// String returns the string representation of the Publisher.
func (p *Publisher) String() string {
	return string(*p)
}

// Type returns the type of the Publisher.
func (p *Publisher) Type() string {
	return "Publisher"
}

// Default returns the default value for Publisher (Stdout).
func (p *Publisher) Default() any {
	return PublisherStdout
}

// ValidValues returns all valid Publisher values as strings.
func (p *Publisher) ValidValues() []string {
	return enumStrings(ValidPublishers())
}

// EnumValuer is implemented by enum types that can list their valid values.
type EnumValuer interface {
	ValidValues() []string
}
