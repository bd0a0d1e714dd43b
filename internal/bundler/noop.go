package bundler

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/skypages/internal/bundle"
)

// NoopBundler reports a clean build without running anything. Used for dry
// runs and tests.
type NoopBundler struct {
	cfg *bundle.Config
}

// NoopFactory produces NoopBundlers.
func NoopFactory(cfg *bundle.Config) Bundler {
	return &NoopBundler{cfg: cfg}
}

// Run implements Bundler.
func (n *NoopBundler) Run(context.Context) (Stats, error) {
	slog.Debug("NoopBundler skipping bundle", "variant", string(n.cfg.Variant))
	return StaticStats{}, nil
}
