// Package storage provides the local notice-dedupe store abstraction.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store remembers recently raised notice keys so repeats can be suppressed
// across process restarts.
type Store interface {
	Close() error
	SeenNotice(key string) (bool, error)
	MarkNotice(key string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	NoticeTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultNoticeTTL       = time.Hour
	defaultCleanupInterval = 10 * time.Minute
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.NoticeTTL <= 0 {
		opts.NoticeTTL = defaultNoticeTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                    { return nil }
func (noopStore) SeenNotice(string) (bool, error) { return false, nil }
func (noopStore) MarkNotice(string) error         { return nil }
