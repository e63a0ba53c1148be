package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/yogayukt/internal/filex"
)

// Engine names accepted by Open.
const (
	EngineMemory = "memory"
	EngineSQLite = "sqlite"
	EngineBadger = "badger"
	EngineRedis  = "redis"
)

// Options selects and parameterises a backend.
type Options struct {
	// Engine is one of the Engine* names, case-insensitive.
	Engine string
	// Path is the sqlite file or badger directory. ":memory:" (sqlite) and
	// "" (badger) keep data in memory.
	Path string
	// RedisAddr is host:port for the redis engine.
	RedisAddr string
	// Namespace prefixes redis keys.
	Namespace string
}

// Open creates the backend described by opts.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Engine)) {
	case EngineMemory:
		return NewMemoryBackend(), nil

	case EngineSQLite:
		if opts.Path != ":memory:" {
			if err := filex.EnsureParentDir(opts.Path); err != nil {
				return nil, err
			}
		}
		return OpenSQLite(ctx, opts.Path)

	case EngineBadger:
		if opts.Path != "" {
			dir, err := filex.EnsureDir(opts.Path)
			if err != nil {
				return nil, err
			}
			return OpenBadger(dir)
		}
		return OpenBadger("")

	case EngineRedis:
		prefix := ""
		if opts.Namespace != "" {
			prefix = opts.Namespace + ":"
		}
		return OpenRedis(ctx, opts.RedisAddr, prefix)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Engine)
	}
}
