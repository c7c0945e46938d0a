package helpers

import (
	"context"
	"fmt"
	"io"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/di"
	"github.com/devantler-tech/gcping/pkg/svc/emitter"
	"github.com/sirupsen/logrus"
)

// Publish renders the running regions and delivers the artifact through the
// publisher selected by the configuration.
func Publish(
	ctx context.Context,
	session *Session,
	injector di.Injector,
	regions v1alpha1.RegionSet,
) (emitter.Artifact, error) {
	artifact, err := emitter.NewFromConfig(session.Config).Emit(regions)
	if err != nil {
		return emitter.Artifact{}, fmt.Errorf("failed to render config: %w", err)
	}

	factory, err := di.ResolvePublisherFactory(injector)
	if err != nil {
		return emitter.Artifact{}, err
	}

	publisher, err := factory.Create(ctx, session.Config, session.Out)
	if err != nil {
		return emitter.Artifact{}, fmt.Errorf("failed to create %s publisher: %w", session.Config.Emit.Publisher, err)
	}

	if closer, ok := publisher.(io.Closer); ok {
		defer func() {
			_ = closer.Close()
		}()
	}

	err = publisher.Publish(ctx, artifact)
	if err != nil {
		return emitter.Artifact{}, fmt.Errorf("failed to publish config: %w", err)
	}

	session.Logger.WithFields(logrus.Fields{
		"artifact": artifact.Name,
		"digest":   artifact.Digest,
		"regions":  len(artifact.Regions),
	}).Info("config published")

	return artifact, nil
}
