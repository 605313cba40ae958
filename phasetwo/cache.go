// Copyright (c) 2024 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package phasetwo

import (
	"fmt"

	"github.com/btcsuite/uplcd/flat"
	"github.com/btcsuite/uplcd/ledger"
	"github.com/btcsuite/uplcd/uplc"
	"github.com/decred/dcrd/lru"
)

const (
	// DefaultProgramCacheSize is the number of decoded programs a
	// ProgramCache created with a zero size holds.
	DefaultProgramCacheSize = 256
)

// ProgramCache keeps recently decoded programs keyed by script hash.  Since
// the hash commits to the script bytes a cached program is always the one
// the bytes decode to, so sharing a cache between calls never changes
// results.  It is safe for concurrent access.
type ProgramCache struct {
	cache lru.KVCache
}

// NewProgramCache returns a cache holding up to size programs.
func NewProgramCache(size uint) *ProgramCache {
	if size == 0 {
		size = DefaultProgramCacheSize
	}
	return &ProgramCache{cache: lru.NewKVCache(size)}
}

// lookup returns the cached program for hash.
func (c *ProgramCache) lookup(hash ledger.ScriptHash) (*uplc.Program, bool) {
	v, ok := c.cache.Lookup(hash)
	if !ok {
		return nil, false
	}
	return v.(*uplc.Program), true
}

// add caches p under hash.
func (c *ProgramCache) add(hash ledger.ScriptHash, p *uplc.Program) {
	c.cache.Add(hash, p)
}

// Contains reports whether the program for hash is cached.
func (c *ProgramCache) Contains(hash ledger.ScriptHash) bool {
	return c.cache.Contains(hash)
}

// decodeProgram returns the decoded program of s, using cache when it is
// not nil.  Programs are immutable so cached values are shared freely.
func decodeProgram(cache *ProgramCache, s *ledger.Script,
	hash ledger.ScriptHash) (*uplc.Program, error) {

	if cache != nil {
		if p, ok := cache.lookup(hash); ok {
			log.Tracef("Program cache hit for script %v", hash)
			return p, nil
		}
	}

	p, err := flat.DecodeScript(s.Bytes)
	if err != nil {
		return nil, Error{
			Err:         ErrDecoding,
			Description: fmt.Sprintf("decoding script %v: %v", hash, err),
		}
	}
	if s.Language < uplc.LanguageV3 && p.Version != uplc.Version100 {
		str := fmt.Sprintf("script %v of %v has program version %v",
			hash, s.Language, p.Version)
		return nil, validationError(ErrDecoding, str)
	}

	if cache != nil {
		cache.add(hash, p)
	}
	return p, nil
}
