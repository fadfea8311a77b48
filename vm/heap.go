package vm

// Heap is the Universal Machine's array heap: a dense arena of slots
// indexed by array identifier, backed by a free list of abandoned
// slots so identifier churn never grows the identifier space beyond
// the peak number of concurrently live arrays (spec.md §4.4, §9).
//
// Identifier 0 always occupies slot 0 and is never placed on the free
// list; every other identifier names an arena slot one-for-one.
type Heap struct {
	slots []slot
	free  []uint32 // LIFO stack of reusable non-zero slot indices
}

type slot struct {
	words []uint32
	live  bool
}

// NewHeap creates a heap with array 0 live and empty. Callers install
// the initial program with InstallProgram.
func NewHeap() *Heap {
	return &Heap{slots: []slot{{words: []uint32{}, live: true}}}
}

// InstallProgram replaces the contents of array 0. Called once at
// startup and again on every load-program with a non-zero source.
func (h *Heap) InstallProgram(words []uint32) {
	h.slots[0] = slot{words: words, live: true}
}

// ProgramLen reports the current length of array 0, for the
// execution loop's fetch-bounds check.
func (h *Heap) ProgramLen() uint32 {
	return uint32(len(h.slots[0].words))
}

// FetchProgram returns the word at offset in array 0 without the
// live/bounds bookkeeping Read performs, since array 0 is always
// live and the caller (the fetch step) is responsible for the bounds
// check against ProgramLen.
func (h *Heap) FetchProgram(offset uint32) uint32 {
	return h.slots[0].words[offset]
}

// Read returns heap[id][offset]. cursor is the fetching instruction's
// position, recorded on any Fault.
func (h *Heap) Read(cursor, id, offset uint32) (uint32, error) {
	s, err := h.live(cursor, id)
	if err != nil {
		return 0, err
	}
	if offset >= uint32(len(s.words)) {
		return 0, faultOffset(OutOfBounds, cursor, id, offset)
	}
	return s.words[offset], nil
}

// Write stores value into heap[id][offset].
func (h *Heap) Write(cursor, id, offset, value uint32) error {
	s, err := h.live(cursor, id)
	if err != nil {
		return err
	}
	if offset >= uint32(len(s.words)) {
		return faultOffset(OutOfBounds, cursor, id, offset)
	}
	s.words[offset] = value
	return nil
}

// Allocate creates a new array of size words, all zero, and returns
// its identifier. A previously abandoned slot is reused in
// preference to growing the arena, per spec.md §4.4's reuse policy;
// ties among multiple freed slots are broken LIFO (most recently
// freed first), a deterministic and cheap choice.
func (h *Heap) Allocate(size uint32) uint32 {
	words := make([]uint32, size)

	if n := len(h.free); n > 0 {
		id := h.free[n-1]
		h.free = h.free[:n-1]
		h.slots[id] = slot{words: words, live: true}
		return id
	}

	id := uint32(len(h.slots))
	h.slots = append(h.slots, slot{words: words, live: true})
	return id
}

// Abandon frees the array identified by id, making its identifier
// available for reuse by a later Allocate. id must be live and
// non-zero.
func (h *Heap) Abandon(cursor, id uint32) error {
	if id == 0 {
		return faultID(AbandonReserved, cursor, id)
	}
	if _, err := h.live(cursor, id); err != nil {
		return err
	}
	h.slots[id] = slot{}
	h.free = append(h.free, id)
	return nil
}

// Duplicate returns an independent copy of the array identified by
// id, for installing as the new array 0 on load-program.
func (h *Heap) Duplicate(cursor, id uint32) ([]uint32, error) {
	s, err := h.live(cursor, id)
	if err != nil {
		return nil, err
	}
	dup := make([]uint32, len(s.words))
	copy(dup, s.words)
	return dup, nil
}

func (h *Heap) live(cursor, id uint32) (*slot, error) {
	if id >= uint32(len(h.slots)) || !h.slots[id].live {
		return nil, faultID(BadArrayID, cursor, id)
	}
	return &h.slots[id], nil
}
