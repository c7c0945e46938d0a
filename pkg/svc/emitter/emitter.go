package emitter

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
)

// Artifact names and content types.
const (
	JSONFileName    = "config.json"
	JSFileName      = "config.js"
	JSVariable      = "GCPING_REGIONS"
	ContentTypeJSON = "application/json"
	ContentTypeJS   = "text/javascript; charset=utf-8"

	jsHeader = "// Code generated by gcping. DO NOT EDIT.\n"
)

// ErrMissingAddress is returned when a running region has no address to publish.
var ErrMissingAddress = errors.New("running region has no address")

// Endpoint describes how a client reaches one region.
type Endpoint struct {
	Address     string `json:"address"`
	URL         string `json:"url"`
	DisplayName string `json:"displayName"`
}

// Document is the config consumed by the client page.
// Regions is keyed by region ID; encoding/json writes map keys in sorted order.
type Document struct {
	Regions map[string]Endpoint `json:"regions"`
}

// Artifact is a rendered config ready to publish.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
	// Digest is the hex SHA-256 of Data.
	Digest string
	// Regions lists the published region IDs, sorted.
	Regions []string
}

// Options configures rendering.
type Options struct {
	Format v1alpha1.Format
	// Scheme and Path build each endpoint URL around the region address.
	Scheme string
	Path   string
}

// Emitter renders region sets into artifacts.
type Emitter struct {
	opts Options
}

// New creates an Emitter.
func New(opts Options) *Emitter {
	if opts.Format == "" {
		opts.Format = v1alpha1.FormatJSON
	}

	if opts.Scheme == "" {
		opts.Scheme = v1alpha1.DefaultEndpointScheme
	}

	return &Emitter{opts: opts}
}

// NewFromConfig creates an Emitter with the configured format and endpoint shape.
func NewFromConfig(cfg *v1alpha1.Config) *Emitter {
	return New(Options{
		Format: cfg.Emit.Format,
		Scheme: cfg.Emit.Scheme,
		Path:   cfg.Emit.Path,
	})
}

// Document builds the config document from the running regions.
func (e *Emitter) Document(regions v1alpha1.RegionSet) (Document, error) {
	document := Document{Regions: make(map[string]Endpoint)}

	for _, region := range regions.Running().Sorted() {
		if !region.HasAddress() {
			return Document{}, fmt.Errorf("%w: %s", ErrMissingAddress, region.ID)
		}

		displayName := region.DisplayName
		if displayName == "" {
			displayName = region.ID
		}

		document.Regions[region.ID] = Endpoint{
			Address:     region.Address,
			URL:         e.endpointURL(region.Address),
			DisplayName: displayName,
		}
	}

	return document, nil
}

// Emit renders the running regions into an artifact.
// Regions in any other status are left out; an empty set yields a valid empty document.
func (e *Emitter) Emit(regions v1alpha1.RegionSet) (Artifact, error) {
	document, err := e.Document(regions)
	if err != nil {
		return Artifact{}, err
	}

	data, err := json.MarshalIndent(document, "", "  ")
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to marshal config: %w", err)
	}

	artifact := Artifact{
		Name:        JSONFileName,
		ContentType: ContentTypeJSON,
		Regions:     regions.Running().Sorted().IDs(),
	}

	switch e.opts.Format {
	case v1alpha1.FormatJS:
		var buf bytes.Buffer

		buf.WriteString(jsHeader)
		buf.WriteString("const " + JSVariable + " = ")
		buf.Write(data)
		buf.WriteString(";\n")

		artifact.Name = JSFileName
		artifact.ContentType = ContentTypeJS
		artifact.Data = buf.Bytes()
	case v1alpha1.FormatJSON:
		artifact.Data = append(data, '\n')
	default:
		return Artifact{}, fmt.Errorf("%w: %s", v1alpha1.ErrInvalidFormat, e.opts.Format)
	}

	sum := sha256.Sum256(artifact.Data)
	artifact.Digest = hex.EncodeToString(sum[:])

	return artifact, nil
}

func (e *Emitter) endpointURL(address string) string {
	host := address
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	endpoint := url.URL{Scheme: e.opts.Scheme, Host: host, Path: e.opts.Path}

	return endpoint.String()
}
