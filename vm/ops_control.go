// ops_control.go - jmp, the 16 jcc conditions, setcc, call, ret, int.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

// condition evaluates one of the 16 SDM condition codes against the
// current EFLAGS. The index matches the low nibble of the Jcc/SETcc
// opcode (70-7F, 0F 80-8F, 0F 90-9F).
func (v *VM) condition(cc byte) bool {
	cf := v.Regs.FlagGet(FlagCF)
	zf := v.Regs.FlagGet(FlagZF)
	sf := v.Regs.FlagGet(FlagSF)
	of := v.Regs.FlagGet(FlagOF)
	pf := v.Regs.FlagGet(FlagPF)
	switch cc & 0xF {
	case 0x0: // O
		return of
	case 0x1: // NO
		return !of
	case 0x2: // B/NAE/C
		return cf
	case 0x3: // AE/NB/NC
		return !cf
	case 0x4: // E/Z
		return zf
	case 0x5: // NE/NZ
		return !zf
	case 0x6: // BE/NA
		return cf || zf
	case 0x7: // A/NBE
		return !cf && !zf
	case 0x8: // S
		return sf
	case 0x9: // NS
		return !sf
	case 0xA: // P/PE
		return pf
	case 0xB: // NP/PO
		return !pf
	case 0xC: // L/NGE
		return sf != of
	case 0xD: // GE/NL
		return sf == of
	case 0xE: // LE/NG
		return zf || (sf != of)
	case 0xF: // G/NLE
		return !zf && (sf == of)
	}
	return false
}

// opJmpRel: jmp rel8/rel32 (EB, E9).
func opJmpRel(immWidth int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		rel, err := v.fetchImm(immWidth)
		if err != nil {
			return err
		}
		v.EIP = uint32(int32(v.EIP) + int32(signExtend(rel, immWidth)))
		return nil
	}
}

// opJcc: the short (70-7F, rel8) and near (0F 80-8F, rel32) conditional
// jumps. ccBase aligns opcode with the 0-F condition index.
func opJcc(ccBase byte, immWidth int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		cc := opcode - ccBase
		rel, err := v.fetchImm(immWidth)
		if err != nil {
			return err
		}
		if v.condition(cc) {
			v.EIP = uint32(int32(v.EIP) + int32(signExtend(rel, immWidth)))
		}
		return nil
	}
}

// opSetcc: 0F 90-9F, set r/m8 to 1 if the condition holds else 0.
func opSetcc(ccBase byte) opcodeHandler {
	return func(v *VM, opcode byte) error {
		cc := opcode - ccBase
		d := &decodeState{}
		rm, err := v.rmOperand(d, 1)
		if err != nil {
			return err
		}
		val := uint32(0)
		if v.condition(cc) {
			val = 1
		}
		return v.Write(rm, val)
	}
}

// opCallRel: call rel16/rel32 (E8) — push return address, jump relative.
func opCallRel(width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		rel, err := v.fetchImm(width)
		if err != nil {
			return err
		}
		target := uint32(int32(v.EIP) + int32(signExtend(rel, width)))
		if err := v.pushWidth(width, v.EIP); err != nil {
			return err
		}
		v.EIP = target
		return nil
	}
}

// opRet: ret (C3) and ret imm16 (C2) — pop return address into EIP,
// then discard imm16 bytes of arguments from the stack.
func opRet(width int, hasImm bool) opcodeHandler {
	return func(v *VM, opcode byte) error {
		var extra uint32
		if hasImm {
			imm, err := v.fetch16()
			if err != nil {
				return err
			}
			extra = uint32(imm)
		}
		target, err := v.popWidth(width)
		if err != nil {
			return err
		}
		v.EIP = target
		if extra != 0 {
			esp := v.Regs.Read(ESP, 4, false)
			v.Regs.Write(ESP, 4, esp+extra, false)
		}
		return nil
	}
}

// opInt: int imm8 (CD). Only vector 0x80 (the Linux syscall gate) is
// implemented; any other vector is fatal since this core has no IDT.
func opInt() opcodeHandler {
	return func(v *VM, opcode byte) error {
		vector, err := v.fetch8()
		if err != nil {
			return err
		}
		if vector != 0x80 {
			return &UnsupportedInterruptError{Vector: vector, EIP: v.EIP}
		}
		return v.syscall()
	}
}

// opInt3: int3 (CC) — the one-byte breakpoint trap encoding, treated
// like `int 3`: vector 3 has no handler, so it is always fatal.
func opInt3() opcodeHandler {
	return func(v *VM, opcode byte) error {
		return &UnsupportedInterruptError{Vector: 3, EIP: v.EIP}
	}
}
