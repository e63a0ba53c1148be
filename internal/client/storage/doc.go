// Package storage provides the key-value persistence engines behind the
// session store.
//
// Every engine implements Backend: Get returns (nil, nil) for an absent key,
// Set overwrites, Delete is idempotent. Values are opaque bytes; the session
// store writes JSON.
//
// Engines
//
//   - MemoryBackend  process-local map, nothing survives a restart
//   - SQLiteBackend  single-file database (modernc.org/sqlite), schema
//     managed by goose migrations embedded in the binary
//   - BadgerBackend  embedded LSM key-value store, on disk or in memory
//   - RedisBackend   shared redis instance, keys prefixed by namespace
//
// Open picks an engine by name from Options.
package storage
