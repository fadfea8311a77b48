package vm

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"

	"github.com/sarchlab/umvm/word"
)

// decodeCacheSets and decodeCacheWays size the decode cache's
// tag directory. One cache line holds one decoded instruction, so
// these bound how many distinct program-array offsets can have a
// decoded instruction cached at once; they are generous enough for
// realistic program sizes without growing unbounded.
const (
	decodeCacheSets = 4096
	decodeCacheWays = 4
)

// DecodeCache is the optional decoded-instruction cache spec.md's
// Design Notes (§9) calls out: "caching decoded instructions across
// writes to array 0 is incorrect unless invalidated on amend (an
// optional optimization, not a requirement)". It is keyed by cursor
// offset into array 0 and must be invalidated whenever opcode 2
// (array-amend) writes into array 0, which Machine does via
// Invalidate before this cache is ever consulted again for that
// offset.
//
// It reuses Akita's cache tag-and-LRU directory as a pure data
// structure (no Akita event-engine wiring), exactly as
// timing/cache.Cache does for the teacher's memory hierarchy model.
type DecodeCache struct {
	directory *akitacache.DirectoryImpl
	insts     []word.Instruction
	hits      uint64
	misses    uint64
}

// NewDecodeCache creates an empty decode cache.
func NewDecodeCache() *DecodeCache {
	return &DecodeCache{
		directory: akitacache.NewDirectory(
			decodeCacheSets,
			decodeCacheWays,
			1, // one word ("block") per line
			akitacache.NewLRUVictimFinder(),
		),
		insts: make([]word.Instruction, decodeCacheSets*decodeCacheWays),
	}
}

func (c *DecodeCache) slotIndex(block *akitacache.Block) int {
	return block.SetID*decodeCacheWays + block.WayID
}

// Lookup returns the cached decode of the word at offset, if present.
func (c *DecodeCache) Lookup(offset uint32) (word.Instruction, bool) {
	block := c.directory.Lookup(0, uint64(offset))
	if block == nil || !block.IsValid {
		c.misses++
		return word.Instruction{}, false
	}
	c.hits++
	c.directory.Visit(block)
	return c.insts[c.slotIndex(block)], true
}

// Insert records the decoded instruction for offset, evicting an
// existing entry (by the directory's LRU policy) if its set is full.
func (c *DecodeCache) Insert(offset uint32, inst word.Instruction) {
	victim := c.directory.FindVictim(uint64(offset))
	if victim == nil {
		return
	}
	victim.Tag = uint64(offset)
	victim.IsValid = true
	c.insts[c.slotIndex(victim)] = inst
	c.directory.Visit(victim)
}

// Invalidate drops any cached decode for offset. Machine calls this
// on every write through opcode 2 (array-amend) that targets array 0.
func (c *DecodeCache) Invalidate(offset uint32) {
	block := c.directory.Lookup(0, uint64(offset))
	if block != nil {
		block.IsValid = false
	}
}

// Reset drops every cached decode, for use after load-program
// replaces array 0 wholesale.
func (c *DecodeCache) Reset() {
	for _, set := range c.directory.GetSets() {
		for _, block := range set.Blocks {
			block.IsValid = false
		}
	}
}

// Stats reports hit/miss counters, useful for tests and diagnostics.
func (c *DecodeCache) Stats() (hits, misses uint64) {
	return c.hits, c.misses
}
