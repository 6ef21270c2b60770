package caption

import (
	"fmt"
	"strings"

	"github.com/photocap/photocap/pkg/catalog"
)

// ConfigError reports an unusable generator configuration: a missing
// credential or an unrecognized provider. It is fatal to the generator
// instance being constructed.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "caption: " + e.Reason
}

// InvalidModelError reports a model key absent from the active provider's
// catalog. It is raised before any image processing or network I/O.
type InvalidModelError struct {
	Key   string
	Valid []string
}

func (e *InvalidModelError) Error() string {
	return fmt.Sprintf("caption: invalid model %q (choose from %s)", e.Key, strings.Join(e.Valid, ", "))
}

// GenerationError wraps a remote-API failure. The provider's original error
// detail is preserved for diagnostics.
type GenerationError struct {
	Provider catalog.Provider
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("caption: %s generation failed: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
