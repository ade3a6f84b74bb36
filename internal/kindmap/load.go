package kindmap

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/kitops/jkit/domain/model"
	"github.com/kitops/jkit/internal/logging"
)

// DefaultTableDocument names the bundled table in error messages.
const DefaultTableDocument = "kind-filename-type-mapping-default.adoc"

// OverrideKey is the configuration key holding the override document path.
const OverrideKey = "mapping.path"

//go:embed kind-filename-type-mapping-default.adoc
var defaultTable []byte

// LoadOptions controls which documents Load reads.
type LoadOptions struct {
	// OverridePath is the override properties document. Empty means no override.
	OverridePath string
	// Optional treats an unreadable OverridePath as absent instead of failing.
	Optional bool
}

// Default parses the bundled table.
func Default() (*model.KindMapping, error) {
	return ParseTable(bytes.NewReader(defaultTable), DefaultTableDocument)
}

// LoadOverrides opens and parses the override document at path.
func LoadOverrides(path string) (*model.KindMapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &model.MissingResourceError{Key: OverrideKey, Path: path, Err: err}
	}
	defer f.Close()
	return ParseOverrides(f, path)
}

// Load returns the bundled table merged with the configured override.
func Load(ctx context.Context, opts LoadOptions) (*model.KindMapping, error) {
	logger := logging.FromContext(ctx)

	base, err := Default()
	if err != nil {
		return nil, fmt.Errorf("bundled kind mapping: %w", err)
	}
	if opts.OverridePath == "" {
		logger.Debug(ctx, "kind mapping loaded", "kinds", base.Len())
		return base, nil
	}

	override, err := LoadOverrides(opts.OverridePath)
	if err != nil {
		if opts.Optional && errors.Is(err, model.ErrMissingResource) {
			logger.Warn(ctx, "optional kind mapping override not readable, using bundled table", "path", opts.OverridePath, "err", err)
			return base, nil
		}
		return nil, err
	}
	merged := Merge(base, override)
	logger.Debug(ctx, "kind mapping loaded", "kinds", merged.Len(), "override", opts.OverridePath, "overrideKinds", override.Len())
	return merged, nil
}
