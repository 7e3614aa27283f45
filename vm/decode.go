// decode.go - ModR/M + SIB decoding and the tagged register/memory
// operand handle that lets handlers call Read/Write uniformly without
// caring whether an operand lives in a register or in memory.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

// operandKind tags an Operand as a register view or a memory address.
type operandKind int

const (
	operandRegister operandKind = iota
	operandMemory
)

// Operand is the tagged handle decoder output flows through: either a
// register view (index, width, high-byte sub-index for 8-bit) or a
// memory effective address, always carrying its width.
type Operand struct {
	kind     operandKind
	regIdx   int
	highByte bool
	addr     uint32
	width    int
}

// Read returns the operand's current value, zero-extended to uint32.
func (v *VM) Read(op Operand) (uint32, error) {
	if op.kind == operandRegister {
		return v.Regs.Read(op.regIdx, op.width, op.highByte), nil
	}
	val, err := v.Mem.readWidth(op.addr, op.width)
	if err != nil {
		return 0, withEIP(err, v.EIP)
	}
	return val, nil
}

// Write stores value into the operand, truncated to its width.
func (v *VM) Write(op Operand, value uint32) error {
	if op.kind == operandRegister {
		v.Regs.Write(op.regIdx, op.width, value, op.highByte)
		return nil
	}
	if err := v.Mem.writeWidth(op.addr, op.width, value); err != nil {
		return withEIP(err, v.EIP)
	}
	return nil
}

// decodeState holds the ModR/M and SIB bytes for the instruction
// currently being decoded, fetched lazily and cached so repeated calls
// to modRMMod/modRMReg/modRMRM don't re-read EIP.
type decodeState struct {
	modrm       byte
	modrmLoaded bool
	sib         byte
	sibLoaded   bool
}

func (v *VM) fetchModRM(d *decodeState) (byte, error) {
	if !d.modrmLoaded {
		b, err := v.fetch8()
		if err != nil {
			return 0, err
		}
		d.modrm = b
		d.modrmLoaded = true
	}
	return d.modrm, nil
}

func (v *VM) modRMMod(d *decodeState) (byte, error) {
	b, err := v.fetchModRM(d)
	return (b >> 6) & 3, err
}

func (v *VM) modRMReg(d *decodeState) (byte, error) {
	b, err := v.fetchModRM(d)
	return (b >> 3) & 7, err
}

func (v *VM) modRMRM(d *decodeState) (byte, error) {
	b, err := v.fetchModRM(d)
	return b & 7, err
}

func (v *VM) fetchSIB(d *decodeState) (byte, error) {
	if !d.sibLoaded {
		b, err := v.fetch8()
		if err != nil {
			return 0, err
		}
		d.sib = b
		d.sibLoaded = true
	}
	return d.sib, nil
}

// effectiveAddress32 computes the 32-bit-addressing-mode effective
// address for the current ModR/M . It advances
// EIP past any displacement/SIB byte the encoding needs.
func (v *VM) effectiveAddress32(d *decodeState) (uint32, error) {
	mod, err := v.modRMMod(d)
	if err != nil {
		return 0, err
	}
	rm, err := v.modRMRM(d)
	if err != nil {
		return 0, err
	}

	var addr uint32

	if rm == 4 {
		sibByte, err := v.fetchSIB(d)
		if err != nil {
			return 0, err
		}
		scale := (sibByte >> 6) & 3
		index := (sibByte >> 3) & 7
		base := sibByte & 7

		if base == 5 && mod == 0 {
			disp, err := v.fetch32()
			if err != nil {
				return 0, err
			}
			addr = disp
		} else {
			addr = v.Regs.Read(int(base), 4, false)
		}
		if index != 4 { // index==4 means "no index" (ESP is never an index)
			addr += v.Regs.Read(int(index), 4, false) << scale
		}
	} else if rm == 5 && mod == 0 {
		disp, err := v.fetch32()
		if err != nil {
			return 0, err
		}
		addr = disp
	} else {
		addr = v.Regs.Read(int(rm), 4, false)
	}

	switch mod {
	case 1:
		b, err := v.fetch8()
		if err != nil {
			return 0, err
		}
		addr = uint32(int32(addr) + int32(int8(b)))
	case 2:
		disp, err := v.fetch32()
		if err != nil {
			return 0, err
		}
		addr += disp
	}

	return addr, nil
}

// rmOperand yields the Operand for a ModR/M's r/m field at the given
// width: a register-direct view when mod==3, else a memory reference
// at the computed effective address.
func (v *VM) rmOperand(d *decodeState, width int) (Operand, error) {
	mod, err := v.modRMMod(d)
	if err != nil {
		return Operand{}, err
	}
	if mod == 3 {
		rm, err := v.modRMRM(d)
		if err != nil {
			return Operand{}, err
		}
		return Operand{kind: operandRegister, regIdx: int(rm), width: width}, nil
	}
	addr, err := v.effectiveAddress32(d)
	if err != nil {
		return Operand{}, err
	}
	return Operand{kind: operandMemory, addr: addr, width: width}, nil
}

// regOperand yields the Operand for a ModR/M's reg field at the given
// width (always a register view; the reg field never addresses memory).
func (v *VM) regOperand(d *decodeState, width int) (Operand, error) {
	reg, err := v.modRMReg(d)
	if err != nil {
		return Operand{}, err
	}
	return Operand{kind: operandRegister, regIdx: int(reg), width: width}, nil
}

// regOperandIdx yields a register Operand for an explicit index, used
// by opcodes that embed the register in the opcode byte itself
// (push/pop reg, mov reg,imm, xchg eax,reg) rather than in a ModR/M.
func regOperandIdx(idx int, width int) Operand {
	return Operand{kind: operandRegister, regIdx: idx, width: width}
}
