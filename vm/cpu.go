// cpu.go - VM construction, reset, and the memory/stack primitives the
// CPU substrate exposes to instruction handlers.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

import (
	"io"
	"os"
)

// state is the run loop's state machine.
type state int

const (
	stateRunning state = iota
	stateHalted
)

// VM owns Memory and Registers exclusively; a VM instance must not be
// shared across goroutines.
type VM struct {
	Mem   *Memory
	Regs  *Registers
	EIP   uint32
	state state

	// ExitCode is valid once the VM has halted via the exit syscall or
	// an explicit halt opcode.
	ExitCode uint8

	// Debug, set at construction rather than toggled globally, enables
	// a call to the Tracer callback per instruction, if one is
	// attached.
	Debug  bool
	Tracer func(vm *VM, eip uint32, prefix, primary, secondary byte)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// current instruction's decoded prefixes; cleared at the top of
	// every Step and consumed by the handler it dispatches
	// to.
	prefixOpSize   bool
	prefixAddrSize bool
	prefixRep      int  // 0 none, 1 REP/REPE, 2 REPNE
	prefixSeg      bool // recognized and consumed; flat model ignores its effect

	baseOps     [256]opcodeHandler
	extendedOps [256]opcodeHandler
}

// opcodeHandler implements one opcode's semantics. opcode is the
// primary (or, from extendedOps, secondary) opcode byte that selected
// this handler — already consumed from the instruction stream by the
// time the handler runs, so handlers that embed a register index in
// the opcode's low bits (mov reg,imm, xchg eax,reg, push/pop reg) read
// it from this parameter rather than re-fetching.
type opcodeHandler func(v *VM, opcode byte) error

// Option configures a VM at construction time.
type Option func(*VM)

// WithStdin/WithStdout/WithStderr override the default host streams.
func WithStdin(r io.Reader) Option  { return func(v *VM) { v.Stdin = r } }
func WithStdout(w io.Writer) Option { return func(v *VM) { v.Stdout = w } }
func WithStderr(w io.Writer) Option { return func(v *VM) { v.Stderr = w } }

// WithDebug enables per-instruction tracing via the given callback.
func WithDebug(tracer func(vm *VM, eip uint32, prefix, primary, secondary byte)) Option {
	return func(v *VM) {
		v.Debug = true
		v.Tracer = tracer
	}
}

// New constructs a VM with a memSize-byte Memory, zeroed registers, and
// EIP=0. Streams default to the host's stdio.
func New(memSize int, opts ...Option) *VM {
	v := &VM{
		Mem:    NewMemory(memSize),
		Regs:   &Registers{},
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	v.initBaseOps()
	v.initExtendedOps()
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Reset clears registers, EFLAGS, EIP, prefixes, and run state, but
// does not clear Memory (callers that want a zeroed image should
// construct a new VM; ExecuteBytes only overwrites the range it loads).
func (v *VM) Reset() {
	v.Regs.Reset()
	v.EIP = 0
	v.state = stateRunning
	v.ExitCode = 0
	v.clearPrefixes()
}

func (v *VM) clearPrefixes() {
	v.prefixOpSize = false
	v.prefixAddrSize = false
	v.prefixRep = 0
	v.prefixSeg = false
}

// Halted reports whether the run loop has reached the terminal state.
func (v *VM) Halted() bool {
	return v.state == stateHalted
}

func (v *VM) halt(code uint8) {
	v.state = stateHalted
	v.ExitCode = code
}

// operandSize returns the effective operand width in bytes (4 unless
// the 0x66 prefix is active).
func (v *VM) operandSize() int {
	if v.prefixOpSize {
		return 2
	}
	return 4
}

// -----------------------------------------------------------------
// Fetch helpers: read at EIP and advance it.
// -----------------------------------------------------------------

func (v *VM) fetch8() (byte, error) {
	b, err := v.Mem.read8(v.EIP)
	if err != nil {
		return 0, withEIP(err, v.EIP)
	}
	v.EIP++
	return b, nil
}

func (v *VM) fetch16() (uint16, error) {
	w, err := v.Mem.read16(v.EIP)
	if err != nil {
		return 0, withEIP(err, v.EIP)
	}
	v.EIP += 2
	return w, nil
}

func (v *VM) fetch32() (uint32, error) {
	d, err := v.Mem.read32(v.EIP)
	if err != nil {
		return 0, withEIP(err, v.EIP)
	}
	v.EIP += 4
	return d, nil
}

// fetchImm fetches an immediate of the given width, zero-extended to
// uint32 (handlers that need a sign-extended immediate apply
// signExtend to the result themselves).
func (v *VM) fetchImm(width int) (uint32, error) {
	switch width {
	case 1:
		b, err := v.fetch8()
		return uint32(b), err
	case 2:
		w, err := v.fetch16()
		return uint32(w), err
	case 4:
		return v.fetch32()
	default:
		panic("vm: invalid immediate width")
	}
}

func withEIP(err error, eip uint32) error {
	if be, ok := err.(*BoundsError); ok {
		be.EIP = eip
		return be
	}
	return err
}

// -----------------------------------------------------------------
// Stack (ESP decrements before a push's write,
// increments after a pop's read; growth is downward).
// -----------------------------------------------------------------

func (v *VM) pushWidth(width int, value uint32) error {
	esp := v.Regs.Read(ESP, 4, false) - uint32(width)
	if err := v.Mem.writeWidth(esp, width, value); err != nil {
		return withEIP(err, v.EIP)
	}
	v.Regs.Write(ESP, 4, esp, false)
	return nil
}

func (v *VM) popWidth(width int) (uint32, error) {
	esp := v.Regs.Read(ESP, 4, false)
	val, err := v.Mem.readWidth(esp, width)
	if err != nil {
		return 0, withEIP(err, v.EIP)
	}
	v.Regs.Write(ESP, 4, esp+uint32(width), false)
	return val, nil
}

// -----------------------------------------------------------------
// Program loading and the run loop.
// -----------------------------------------------------------------

// ExecuteBytes writes data into Memory at offset, sets EIP=offset and
// ESP=memory size, then runs to halt.
func (v *VM) ExecuteBytes(data []byte, offset uint32) error {
	if err := v.Mem.Set(offset, data); err != nil {
		return err
	}
	v.Reset()
	v.EIP = offset
	v.Regs.Write(ESP, 4, uint32(v.Mem.Size()), false)
	return v.Run()
}

// ExecuteFile reads path and calls ExecuteBytes.
func (v *VM) ExecuteFile(path string, offset uint32) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return v.ExecuteBytes(data, offset)
}

// Run steps the fetch-decode loop until halted or a fatal error.
func (v *VM) Run() error {
	for v.state == stateRunning {
		if err := v.Step(); err != nil {
			return err
		}
	}
	return nil
}
