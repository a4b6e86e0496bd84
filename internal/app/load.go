package app

import (
	"fmt"

	"github.com/specialistvlad/opgrid/internal/ctxlog"
	"github.com/specialistvlad/opgrid/internal/descriptor"
	"github.com/specialistvlad/opgrid/internal/manifest"
)

// LoadManifests parses the configured manifest paths and declares every
// entry into the registry.
func (a *App) LoadManifests() error {
	logger := ctxlog.FromContext(a.ctx)
	if len(a.config.ManifestPaths) == 0 {
		logger.Debug("No manifest paths configured, skipping.")
		return nil
	}
	logger.Debug("Loading manifests...", "paths", a.config.ManifestPaths)

	decls, err := manifest.LoadDir(a.ctx, a.config.ManifestPaths...)
	if err != nil {
		return fmt.Errorf("failed to load manifests: %w", err)
	}
	if err := manifest.Bind(a.ctx, a.registry, a.classes, decls); err != nil {
		return fmt.Errorf("failed to bind manifests: %w", err)
	}

	logger.Info("Registry loaded successfully.",
		"operators", a.registry.Len(descriptor.PartitionOperators),
		"primitives", a.registry.Len(descriptor.PartitionPrimitives))
	return nil
}
