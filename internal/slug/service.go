package slug

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrExhausted is returned when no unused candidate was found within
// Config.MaxAttempts lookups. It signals an internal fault, not bad input.
var ErrExhausted = errors.New("slug generation exhausted")

// Config bounds generated slugs.
type Config struct {
	// MaxLength is the maximum length of a suffixed slug.
	MaxLength int
	// SuffixLength is the number of hex characters in a random suffix.
	SuffixLength int
	// MaxAttempts caps suffixed lookups. Zero means unbounded.
	MaxAttempts int
}

// DefaultConfig returns the catalog defaults: 100 characters, 8-character suffix.
func DefaultConfig() Config {
	return Config{MaxLength: 100, SuffixLength: 8}
}

// Validate reports whether the config leaves room for at least one base character.
func (c Config) Validate() error {
	if c.SuffixLength <= 0 {
		return fmt.Errorf("slug suffix length must be positive, got %d", c.SuffixLength)
	}
	if c.MaxLength <= c.SuffixLength+1 {
		return fmt.Errorf("slug max length %d must exceed suffix length %d plus separator", c.MaxLength, c.SuffixLength)
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("slug max attempts must not be negative, got %d", c.MaxAttempts)
	}
	return nil
}

// allowedBase is the room left for the base once a "-suffix" is appended.
func (c Config) allowedBase() int {
	return c.MaxLength - (c.SuffixLength + 1)
}

// ExistsFunc reports whether candidate is already used by another record.
// Implementations must exclude the record being saved.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Service generates unique slugs. It holds no state beyond its config and is
// safe for concurrent use.
type Service struct {
	cfg    Config
	suffix func(n int) string
	// OnCheck, when set, is called after every existence check.
	OnCheck func(candidate string, taken bool)
}

// NewService returns a Service for cfg.
func NewService(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, suffix: randomHex}, nil
}

// Config returns the service configuration.
func (s *Service) Config() Config { return s.cfg }

// Base returns the normalized, length-bounded base slug for name.
func (s *Service) Base(name string) string {
	base := Normalize(name)
	if base == "" {
		base = Fallback
	}
	return s.truncate(base)
}

// truncate cuts base at the last hyphen within the allowed length so words are
// not split. Without a hyphen boundary it hard-cuts at the allowed length.
func (s *Service) truncate(base string) string {
	allowed := s.cfg.allowedBase()
	if len(base) <= allowed {
		return base
	}
	cut := base[:allowed]
	if i := strings.LastIndex(cut, "-"); i != -1 {
		cut = cut[:i]
	}
	cut = strings.Trim(cut, "-")
	if cut == "" {
		return Fallback
	}
	return cut
}

// Generate returns the first candidate for name that exists reports as unused.
// The bare base is tried first; after that, base-<hex> candidates are tried
// until one is free.
func (s *Service) Generate(ctx context.Context, name string, exists ExistsFunc) (string, error) {
	base := s.Base(name)

	taken, err := s.lookup(ctx, base, exists)
	if err != nil {
		return "", err
	}
	if !taken {
		return base, nil
	}

	for attempt := 1; s.cfg.MaxAttempts == 0 || attempt <= s.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate := base + "-" + s.suffix(s.cfg.SuffixLength)
		taken, err := s.lookup(ctx, candidate, exists)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %d suffixed candidates for %q all taken", ErrExhausted, s.cfg.MaxAttempts, base)
}

func (s *Service) lookup(ctx context.Context, candidate string, exists ExistsFunc) (bool, error) {
	taken, err := exists(ctx, candidate)
	if err != nil {
		return false, fmt.Errorf("check slug %q: %w", candidate, err)
	}
	if s.OnCheck != nil {
		s.OnCheck(candidate, taken)
	}
	return taken, nil
}

// randomHex returns n lowercase hex characters drawn from random UUIDs.
func randomHex(n int) string {
	var b strings.Builder
	for b.Len() < n {
		id := uuid.New()
		b.WriteString(strings.ReplaceAll(id.String(), "-", ""))
	}
	return b.String()[:n]
}
