// Package match implements cross-source listing identity resolution: a
// total address normalizer, a geo/price/room proximity matcher, and a
// union-find deduplicator that merges clusters into canonical listings.
package match

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrUnknownSource is returned when the configured source priority names
// a provider the engine does not know.
var ErrUnknownSource = errors.New("unknown source in priority order")

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()
