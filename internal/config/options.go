// Package config holds the pool's tunable options, in the teacher's
// Options/DefaultOptions idiom, optionally overridden from a TOML
// file rather than hand-rolled flag parsing.
package config

import (
	"fmt"

	"github.com/pelletier/go-toml"
)

// Options configures a buffer pool manager and its disk manager.
type Options struct {
	// PoolSize is the number of frames the buffer pool holds.
	PoolSize int `toml:"pool_size"`
	// ReplacerK is the LRU-K replacer's history depth.
	ReplacerK int `toml:"replacer_k"`
	// DBPath is the backing file the disk manager memory-maps.
	DBPath string `toml:"db_path"`
	// InitialPages is how many pages worth of space the disk manager
	// maps up front.
	InitialPages int `toml:"initial_pages"`
	// SyncWrites is loaded from configuration, but nothing in this
	// module reads it: FileManager does not fsync after WritePage.
	SyncWrites bool `toml:"sync_writes"`
}

// DefaultOptions returns sane defaults for local development and
// tests: a 16-frame pool, K=2 replacer history, syncing off.
func DefaultOptions() Options {
	return Options{
		PoolSize:     16,
		ReplacerK:    2,
		DBPath:       "cairndb.data",
		InitialPages: 16,
		SyncWrites:   false,
	}
}

// LoadFile reads path as TOML and overlays it onto DefaultOptions.
// Fields absent from the file keep their default value.
func LoadFile(path string) (Options, error) {
	opts := DefaultOptions()

	tree, err := toml.LoadFile(path)
	if err != nil {
		return opts, fmt.Errorf("load options from %s: %w", path, err)
	}
	if err := tree.Unmarshal(&opts); err != nil {
		return opts, fmt.Errorf("unmarshal options from %s: %w", path, err)
	}
	return opts, nil
}
