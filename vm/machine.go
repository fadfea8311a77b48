// Package vm implements the Universal Machine's core: the register
// file, the array heap, and the fetch-decode-dispatch execution loop
// described in spec.md §4.
package vm

import (
	"fmt"
	"os"

	"github.com/sarchlab/umvm/word"
)

// StepResult reports the outcome of a single Step.
type StepResult struct {
	// Halted is true once opcode 7 has executed; Run stops cleanly.
	Halted bool

	// Err is non-nil on any fatal condition from spec.md §7. Once
	// set, the Machine must not be stepped further.
	Err error
}

// Machine executes Universal Machine programs: single-threaded,
// non-cooperative, with no suspension point other than the input
// opcode blocking on its IOHandler.
type Machine struct {
	regs   Registers
	heap   *Heap
	cursor uint32

	io          IOHandler
	decodeCache *DecodeCache

	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithIO sets the byte sink/source the input and output opcodes use.
// The default wraps os.Stdin and os.Stdout.
func WithIO(io IOHandler) Option {
	return func(m *Machine) { m.io = io }
}

// WithDecodeCache enables the optional decoded-instruction cache
// (spec.md §9's "optional optimization, not a requirement").
func WithDecodeCache() Option {
	return func(m *Machine) { m.decodeCache = NewDecodeCache() }
}

// WithMaxInstructions bounds the number of instructions Run will
// execute before returning a fatal error; 0 (the default) means no
// limit. Primarily useful for tests exercising a program that might
// loop forever.
func WithMaxInstructions(max uint64) Option {
	return func(m *Machine) { m.maxInstructions = max }
}

// NewMachine creates a Machine with program installed as the initial
// contents of array 0 and the cursor at 0, per spec.md §3's lifecycle
// rules for the program array.
func NewMachine(program []uint32, opts ...Option) *Machine {
	m := &Machine{
		heap: NewHeap(),
		io:   NewStreamIO(os.Stdin, os.Stdout),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.heap.InstallProgram(program)
	return m
}

// Registers returns the machine's register file.
func (m *Machine) Registers() *Registers {
	return &m.regs
}

// Heap returns the machine's array heap.
func (m *Machine) Heap() *Heap {
	return m.heap
}

// Cursor returns the offset into array 0 of the next instruction to
// fetch.
func (m *Machine) Cursor() uint32 {
	return m.cursor
}

// InstructionCount returns the number of instructions successfully
// executed so far.
func (m *Machine) InstructionCount() uint64 {
	return m.instructionCount
}

// Step fetches, decodes and executes one instruction.
func (m *Machine) Step() StepResult {
	if m.maxInstructions > 0 && m.instructionCount >= m.maxInstructions {
		return StepResult{Err: fmt.Errorf("max instructions reached")}
	}

	cursor := m.cursor
	if cursor >= m.heap.ProgramLen() {
		return StepResult{Err: faultOffset(OutOfBounds, cursor, 0, cursor)}
	}

	inst, ok := m.lookupDecoded(cursor)
	if !ok {
		inst = word.Decode(m.heap.FetchProgram(cursor))
		if m.decodeCache != nil {
			m.decodeCache.Insert(cursor, inst)
		}
	}

	// Advance the cursor before dispatch: load-program overrides it
	// directly, so the pre-advance is moot for that opcode, and every
	// other opcode simply falls through to the next instruction.
	m.cursor = cursor + 1

	result := m.execute(cursor, inst)
	if result.Err == nil {
		m.instructionCount++
	}
	return result
}

func (m *Machine) lookupDecoded(cursor uint32) (word.Instruction, bool) {
	if m.decodeCache == nil {
		return word.Instruction{}, false
	}
	return m.decodeCache.Lookup(cursor)
}

// Run steps the machine until it halts cleanly or hits a fatal
// condition, returning the process exit code spec.md §6 specifies:
// 0 on halt, non-zero otherwise.
func (m *Machine) Run() (int, error) {
	for {
		result := m.Step()
		if result.Err != nil {
			return 1, result.Err
		}
		if result.Halted {
			return 0, nil
		}
	}
}

func (m *Machine) execute(cursor uint32, inst word.Instruction) StepResult {
	if inst.Illegal {
		return StepResult{Err: faultf(IllegalOpcode, cursor)}
	}

	switch inst.Op {
	case word.OpCondMove:
		if m.regs.Read(inst.C) != 0 {
			m.regs.Write(inst.A, m.regs.Read(inst.B))
		}

	case word.OpArrayIdx:
		v, err := m.heap.Read(cursor, m.regs.Read(inst.B), m.regs.Read(inst.C))
		if err != nil {
			return StepResult{Err: err}
		}
		m.regs.Write(inst.A, v)

	case word.OpArrayAmd:
		id := m.regs.Read(inst.A)
		offset := m.regs.Read(inst.B)
		value := m.regs.Read(inst.C)
		if err := m.heap.Write(cursor, id, offset, value); err != nil {
			return StepResult{Err: err}
		}
		// Self-modifying code: array 0 may be amended at runtime.
		// Any cached decode of the overwritten offset is now stale.
		if m.decodeCache != nil && id == 0 {
			m.decodeCache.Invalidate(offset)
		}

	case word.OpAdd:
		m.regs.Write(inst.A, m.regs.Read(inst.B)+m.regs.Read(inst.C))

	case word.OpMul:
		m.regs.Write(inst.A, m.regs.Read(inst.B)*m.regs.Read(inst.C))

	case word.OpDiv:
		c := m.regs.Read(inst.C)
		if c == 0 {
			return StepResult{Err: faultf(DivideByZero, cursor)}
		}
		m.regs.Write(inst.A, m.regs.Read(inst.B)/c)

	case word.OpNotAnd:
		m.regs.Write(inst.A, ^(m.regs.Read(inst.B) & m.regs.Read(inst.C)))

	case word.OpHalt:
		return StepResult{Halted: true}

	case word.OpAlloc:
		id := m.heap.Allocate(m.regs.Read(inst.C))
		m.regs.Write(inst.B, id)

	case word.OpAbandon:
		if err := m.heap.Abandon(cursor, m.regs.Read(inst.C)); err != nil {
			return StepResult{Err: err}
		}

	case word.OpOutput:
		v := m.regs.Read(inst.C)
		if v > 255 {
			return StepResult{Err: faultf(OutputOverflow, cursor)}
		}
		if err := m.io.Output(byte(v)); err != nil {
			return StepResult{Err: fmt.Errorf("output at cursor %d: %w", cursor, err)}
		}

	case word.OpInput:
		v, err := m.io.Input()
		if err != nil {
			return StepResult{Err: &Fault{Kind: InputError, Cursor: cursor, Err: err}}
		}
		m.regs.Write(inst.C, v)

	case word.OpLoadProg:
		srcID := m.regs.Read(inst.B)
		newCursor := m.regs.Read(inst.C)
		if srcID != 0 {
			dup, err := m.heap.Duplicate(cursor, srcID)
			if err != nil {
				return StepResult{Err: err}
			}
			m.heap.InstallProgram(dup)
			if m.decodeCache != nil {
				m.decodeCache.Reset()
			}
		}
		m.cursor = newCursor

	case word.OpLoadImm:
		m.regs.Write(inst.SpecialA, inst.Imm)
	}

	return StepResult{}
}
