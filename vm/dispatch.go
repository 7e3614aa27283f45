// dispatch.go - prefix recognition, the primary/secondary opcode
// tables, and the fetch-decode-dispatch step.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

// dyn wraps an opcode-handler factory that depends on the effective
// operand size, re-resolving it against v.operandSize() on every
// call. Used for the "Ev"-class opcodes whose width flips between 2
// and 4 bytes under the 0x66 prefix.
func dyn(factory func(width int) opcodeHandler) opcodeHandler {
	return func(v *VM, opcode byte) error {
		return factory(v.operandSize())(v, opcode)
	}
}

func (v *VM) initBaseOps() {
	arithFamily := []struct {
		base byte
		op   arithOp
	}{
		{0x00, arithAdd},
		{0x10, arithAdc},
		{0x18, arithSbb},
		{0x28, arithSub},
		{0x38, arithCmp},
	}
	for _, f := range arithFamily {
		v.baseOps[f.base+0] = opArithRMReg(f.op, 1)
		v.baseOps[f.base+1] = dyn(func(w int) opcodeHandler { return opArithRMReg(f.op, w) })
		v.baseOps[f.base+2] = opArithRegRM(f.op, 1)
		v.baseOps[f.base+3] = dyn(func(w int) opcodeHandler { return opArithRegRM(f.op, w) })
		v.baseOps[f.base+4] = opArithAccImm(f.op, 1)
		v.baseOps[f.base+5] = dyn(func(w int) opcodeHandler { return opArithAccImm(f.op, w) })
	}

	logicFamily := []struct {
		base byte
		op   logicOp
	}{
		{0x08, logicOr},
		{0x20, logicAnd},
		{0x30, logicXor},
	}
	for _, f := range logicFamily {
		v.baseOps[f.base+0] = opLogicRMReg(f.op, 1)
		v.baseOps[f.base+1] = dyn(func(w int) opcodeHandler { return opLogicRMReg(f.op, w) })
		v.baseOps[f.base+2] = opLogicRegRM(f.op, 1)
		v.baseOps[f.base+3] = dyn(func(w int) opcodeHandler { return opLogicRegRM(f.op, w) })
		v.baseOps[f.base+4] = opLogicAccImm(f.op, 1)
		v.baseOps[f.base+5] = dyn(func(w int) opcodeHandler { return opLogicAccImm(f.op, w) })
	}

	for i := byte(0); i < 8; i++ {
		v.baseOps[0x40+i] = dyn(func(w int) opcodeHandler { return opIncDecReg(0x40, false, w) })
		v.baseOps[0x48+i] = dyn(func(w int) opcodeHandler { return opIncDecReg(0x48, true, w) })
		v.baseOps[0x50+i] = dyn(func(w int) opcodeHandler { return opPushReg(0x50, w) })
		v.baseOps[0x58+i] = dyn(func(w int) opcodeHandler { return opPopReg(0x58, w) })
		v.baseOps[0x70+i] = opJcc(0x70, 1)
		v.baseOps[0x78+i] = opJcc(0x70, 1)
		v.baseOps[0x90+i] = dyn(func(w int) opcodeHandler { return opXchgEaxReg(0x90, w) })
		v.baseOps[0xB0+i] = opMovRegImm(0xB0, 1)
		v.baseOps[0xB8+i] = dyn(func(w int) opcodeHandler { return opMovRegImm(0xB8, w) })
	}

	v.baseOps[0x68] = dyn(func(w int) opcodeHandler { return opPushImm(w, w, false) })
	v.baseOps[0x69] = dyn(func(w int) opcodeHandler { return opImulRegRMImm(w, w, false) })
	v.baseOps[0x6A] = dyn(func(w int) opcodeHandler { return opPushImm(w, 1, true) })
	v.baseOps[0x6B] = dyn(func(w int) opcodeHandler { return opImulRegRMImm(w, 1, true) })

	v.baseOps[0x80] = grp1(1, 1, false)
	v.baseOps[0x81] = dyn(func(w int) opcodeHandler { return grp1(w, w, false) })
	v.baseOps[0x83] = dyn(func(w int) opcodeHandler { return grp1(w, 1, true) })

	v.baseOps[0x84] = opLogicRMReg(logicTest, 1)
	v.baseOps[0x85] = dyn(func(w int) opcodeHandler { return opLogicRMReg(logicTest, w) })
	v.baseOps[0x86] = opXchgRMReg(1)
	v.baseOps[0x87] = dyn(func(w int) opcodeHandler { return opXchgRMReg(w) })
	v.baseOps[0x88] = opMovRMReg(1)
	v.baseOps[0x89] = dyn(func(w int) opcodeHandler { return opMovRMReg(w) })
	v.baseOps[0x8A] = opMovRegRM(1)
	v.baseOps[0x8B] = dyn(func(w int) opcodeHandler { return opMovRegRM(w) })
	v.baseOps[0x8D] = dyn(func(w int) opcodeHandler { return opLea(w) })
	v.baseOps[0x8F] = dyn(func(w int) opcodeHandler { return grp8F(w) })

	v.baseOps[0x98] = opCbwCwdeDyn()
	v.baseOps[0x99] = dyn(func(w int) opcodeHandler { return opCwdCdq(w) })

	v.baseOps[0xA4] = opMovs(1)
	v.baseOps[0xA5] = dyn(func(w int) opcodeHandler { return opMovs(w) })
	v.baseOps[0xA8] = opLogicAccImm(logicTest, 1)
	v.baseOps[0xA9] = dyn(func(w int) opcodeHandler { return opLogicAccImm(logicTest, w) })

	v.baseOps[0xC0] = grp2(1, grp2CountImm)
	v.baseOps[0xC1] = dyn(func(w int) opcodeHandler { return grp2(w, grp2CountImm) })
	v.baseOps[0xC2] = dyn(func(w int) opcodeHandler { return opRet(w, true) })
	v.baseOps[0xC3] = dyn(func(w int) opcodeHandler { return opRet(w, false) })
	v.baseOps[0xC6] = opMovRMImm(1)
	v.baseOps[0xC7] = dyn(func(w int) opcodeHandler { return opMovRMImm(w) })
	v.baseOps[0xC9] = dyn(func(w int) opcodeHandler { return opLeave(w) })
	v.baseOps[0xCC] = opInt3()
	v.baseOps[0xCD] = opInt()

	v.baseOps[0xD0] = grp2(1, grp2CountOne)
	v.baseOps[0xD1] = dyn(func(w int) opcodeHandler { return grp2(w, grp2CountOne) })
	v.baseOps[0xD2] = grp2(1, grp2CountCL)
	v.baseOps[0xD3] = dyn(func(w int) opcodeHandler { return grp2(w, grp2CountCL) })

	v.baseOps[0xE8] = dyn(func(w int) opcodeHandler { return opCallRel(w) })
	v.baseOps[0xE9] = dyn(func(w int) opcodeHandler { return opJmpRel(w) })
	v.baseOps[0xEB] = opJmpRel(1)

	v.baseOps[0xF4] = opHlt()
	v.baseOps[0xF5] = opCmc()
	v.baseOps[0xF6] = grp3(1)
	v.baseOps[0xF7] = dyn(func(w int) opcodeHandler { return grp3(w) })
	v.baseOps[0xF8] = opClc()
	v.baseOps[0xF9] = opStc()
	v.baseOps[0xFA] = opCli()
	v.baseOps[0xFB] = opSti()
	v.baseOps[0xFC] = opCld()
	v.baseOps[0xFD] = opStd()
	v.baseOps[0xFE] = grp4()
	v.baseOps[0xFF] = dyn(func(w int) opcodeHandler { return grp5(w) })
}

func (v *VM) initExtendedOps() {
	for i := byte(0); i < 16; i++ {
		v.extendedOps[0x80+i] = opJcc(0x80, 4)
		v.extendedOps[0x90+i] = opSetcc(0x90)
	}
	v.extendedOps[0xAF] = dyn(func(w int) opcodeHandler { return opImulRegRM(w) })
	v.extendedOps[0xB6] = dyn(func(w int) opcodeHandler { return opMovzx(w, 1) })
	v.extendedOps[0xB7] = dyn(func(w int) opcodeHandler { return opMovzx(w, 2) })
	v.extendedOps[0xBE] = dyn(func(w int) opcodeHandler { return opMovsx(w, 1) })
	v.extendedOps[0xBF] = dyn(func(w int) opcodeHandler { return opMovsx(w, 2) })
}

// opCbwCwdeDyn picks cbw (16-bit effective operand size) or cwde
// (32-bit) based on the active 0x66 prefix.
func opCbwCwdeDyn() opcodeHandler {
	return func(v *VM, opcode byte) error {
		if v.operandSize() == 2 {
			return opCbwCwde(2, 1)(v, opcode)
		}
		return opCbwCwde(4, 2)(v, opcode)
	}
}

// segment override prefix bytes, recognized and consumed but inert:
// this core's flat memory model has no segment-relative addressing.
func isSegmentPrefix(b byte) bool {
	switch b {
	case 0x2E, 0x36, 0x3E, 0x26, 0x64, 0x65:
		return true
	}
	return false
}

// Step executes exactly one instruction: recognize and accumulate any
// prefix bytes, fetch the opcode, dispatch through the primary or
// (for 0x0F) secondary table, and apply REP/REPNE iteration around
// the string opcodes that honor it.
func (v *VM) Step() error {
	startEIP := v.EIP
	v.clearPrefixes()

	var b byte
	var err error
	for {
		b, err = v.fetch8()
		if err != nil {
			return err
		}
		switch {
		case b == 0x66:
			v.prefixOpSize = true
			continue
		case b == 0x67:
			v.prefixAddrSize = true
			continue
		case b == 0xF2:
			v.prefixRep = 2
			continue
		case b == 0xF3:
			v.prefixRep = 1
			continue
		case isSegmentPrefix(b):
			v.prefixSeg = true
			continue
		}
		break
	}

	var prefixByte byte
	var primary, secondary byte
	var handler opcodeHandler

	if b == 0x0F {
		sec, err := v.fetch8()
		if err != nil {
			return err
		}
		prefixByte = 0x0F
		secondary = sec
		handler = v.extendedOps[sec]
		if handler == nil {
			return &UnknownOpcodeError{EIP: startEIP, Prefix: 0x0F, Secondary: sec}
		}
	} else {
		primary = b
		handler = v.baseOps[b]
		if handler == nil {
			return &UnknownOpcodeError{EIP: startEIP, Primary: b}
		}
	}

	if v.Debug && v.Tracer != nil {
		v.Tracer(v, startEIP, prefixByte, primary, secondary)
	}

	opcode := b
	if prefixByte == 0x0F {
		opcode = secondary
	}

	if v.prefixRep != 0 && isStringOpcode(prefixByte, b) {
		for v.Regs.Read(ECX, 4, false) != 0 {
			if err := handler(v, opcode); err != nil {
				return err
			}
			ecx := v.Regs.Read(ECX, 4, false) - 1
			v.Regs.Write(ECX, 4, ecx, false)
		}
		return nil
	}

	return handler(v, opcode)
}

// isStringOpcode reports whether b (the primary opcode byte; prefixByte
// is 0 unless 0x0F was consumed) names one of the string operations
// spec.md ยง4.5 says REP/REPE/REPNE apply to. Any other opcode ignores a
// stray REP/REPNE prefix rather than iterating or stalling on it.
func isStringOpcode(prefixByte, b byte) bool {
	if prefixByte != 0 {
		return false
	}
	switch b {
	case 0xA4, 0xA5:
		return true
	}
	return false
}
