package emitter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
)

const (
	// dirPermissions is the permission mode for output directories.
	dirPermissions = 0o755
	// filePermissions is the permission mode for published files.
	filePermissions = 0o644
	// cacheControl keeps clients from measuring against a stale region list.
	cacheControl = "no-cache, max-age=0"
	// digestMetadataKey stores the artifact digest on uploaded objects.
	digestMetadataKey = "sha256"
)

// Publisher delivers artifacts to their consumers.
type Publisher interface {
	Publish(ctx context.Context, artifact Artifact) error
}

// WriterPublisher writes the artifact to an io.Writer.
type WriterPublisher struct {
	Writer io.Writer
}

// Publish writes the artifact data.
func (p WriterPublisher) Publish(_ context.Context, artifact Artifact) error {
	_, err := p.Writer.Write(artifact.Data)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", artifact.Name, err)
	}

	return nil
}

// FilePublisher writes the artifact into a directory, replacing the previous file atomically.
type FilePublisher struct {
	Dir string
}

// Publish writes Dir/<artifact name>. An identical existing file is left untouched.
func (p FilePublisher) Publish(_ context.Context, artifact Artifact) error {
	target := filepath.Join(p.Dir, artifact.Name)

	existing, err := os.ReadFile(target)
	if err == nil && bytes.Equal(existing, artifact.Data) {
		return nil
	}

	err = os.MkdirAll(p.Dir, dirPermissions)
	if err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", p.Dir, err)
	}

	tmp, err := os.CreateTemp(p.Dir, artifact.Name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpName := tmp.Name()

	defer func() { _ = os.Remove(tmpName) }()

	_, err = tmp.Write(artifact.Data)
	if err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}

	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}

	err = os.Chmod(tmpName, filePermissions)
	if err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}

	err = os.Rename(tmpName, target)
	if err != nil {
		return fmt.Errorf("failed to replace %s: %w", target, err)
	}

	return nil
}

// GCSPublisher uploads the artifact to a Cloud Storage bucket serving the client page.
type GCSPublisher struct {
	client          *storage.Client
	bucket          string
	prefix          string
	defaultDocument string
}

// NewGCSPublisher creates a publisher uploading into bucket under prefix.
func NewGCSPublisher(client *storage.Client, bucket, prefix, defaultDocument string) *GCSPublisher {
	return &GCSPublisher{
		client:          client,
		bucket:          bucket,
		prefix:          prefix,
		defaultDocument: defaultDocument,
	}
}

// ObjectName returns the object name an artifact is stored under.
func ObjectName(prefix, name string) string {
	if prefix == "" {
		return name
	}

	return path.Join(prefix, name)
}

// Publish uploads the artifact with a public-read ACL and sets the bucket's
// default document. Uploads are skipped when the object already carries the digest.
func (p *GCSPublisher) Publish(ctx context.Context, artifact Artifact) error {
	bucket := p.client.Bucket(p.bucket)
	object := bucket.Object(ObjectName(p.prefix, artifact.Name))

	attrs, err := object.Attrs(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("failed to read attributes of gs://%s/%s: %w", p.bucket, object.ObjectName(), err)
	}

	if attrs == nil || attrs.Metadata[digestMetadataKey] != artifact.Digest {
		err = p.upload(ctx, object, artifact)
		if err != nil {
			return err
		}
	}

	if p.defaultDocument == "" {
		return nil
	}

	_, err = bucket.Update(ctx, storage.BucketAttrsToUpdate{
		Website: &storage.BucketWebsite{MainPageSuffix: p.defaultDocument},
	})
	if err != nil {
		return fmt.Errorf("failed to set default document of gs://%s: %w", p.bucket, err)
	}

	return nil
}

// Close releases the storage client.
func (p *GCSPublisher) Close() error {
	err := p.client.Close()
	if err != nil {
		return fmt.Errorf("failed to close storage client: %w", err)
	}

	return nil
}

func (p *GCSPublisher) upload(ctx context.Context, object *storage.ObjectHandle, artifact Artifact) error {
	writer := object.NewWriter(ctx)
	writer.ContentType = artifact.ContentType
	writer.CacheControl = cacheControl
	writer.ACL = []storage.ACLRule{{Entity: storage.AllUsers, Role: storage.RoleReader}}
	writer.Metadata = map[string]string{digestMetadataKey: artifact.Digest}

	_, err := writer.Write(artifact.Data)
	if err != nil {
		_ = writer.Close()

		return fmt.Errorf("failed to upload gs://%s/%s: %w", p.bucket, object.ObjectName(), err)
	}

	err = writer.Close()
	if err != nil {
		return fmt.Errorf("failed to upload gs://%s/%s: %w", p.bucket, object.ObjectName(), err)
	}

	return nil
}

// NewPublisherFromConfig creates the publisher selected by cfg. Stdout output goes to out.
//
//nolint:ireturn // Returns the selected implementation behind the Publisher interface
func NewPublisherFromConfig(ctx context.Context, cfg *v1alpha1.Config, out io.Writer) (Publisher, error) {
	switch cfg.Emit.Publisher {
	case v1alpha1.PublisherFile:
		return FilePublisher{Dir: cfg.Emit.OutputDir}, nil
	case v1alpha1.PublisherGCS:
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}

		return NewGCSPublisher(client, cfg.Emit.Bucket, cfg.Emit.ObjectPrefix, cfg.Emit.DefaultDocument), nil
	case v1alpha1.PublisherStdout:
		return WriterPublisher{Writer: out}, nil
	}

	return nil, fmt.Errorf("%w: %s", v1alpha1.ErrInvalidPublisher, cfg.Emit.Publisher)
}

// PublisherFactory creates the publisher selected by the configuration.
type PublisherFactory interface {
	Create(ctx context.Context, cfg *v1alpha1.Config, out io.Writer) (Publisher, error)
}

// PublisherFactoryFunc adapts a function to the PublisherFactory interface.
type PublisherFactoryFunc func(ctx context.Context, cfg *v1alpha1.Config, out io.Writer) (Publisher, error)

// Create calls f.
//
//nolint:ireturn // Factory
func (f PublisherFactoryFunc) Create(ctx context.Context, cfg *v1alpha1.Config, out io.Writer) (Publisher, error) {
	return f(ctx, cfg, out)
}

// DefaultPublisherFactory creates publishers with NewPublisherFromConfig.
var DefaultPublisherFactory PublisherFactory = PublisherFactoryFunc(NewPublisherFromConfig)
