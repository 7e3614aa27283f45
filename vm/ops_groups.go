// ops_groups.go - the ModR/M.reg "/digit" sub-dispatch for the
// opcodes that pack several operations into one byte: Group 1
// (80/81/83 arithmetic-by-immediate), Group 2 (C0/C1/D0/D1/D2/D3
// shifts), Group 3 (F6/F7 test/not/neg/mul/imul/div/idiv), and
// Group 5 (FF inc/dec/call/jmp/push).
//
// Each group decodes its ModR/M once and reads the reg field to pick
// the sub-operation before resolving the r/m operand, since reg and
// r/m share the same byte.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

// grp1: 80 (Eb,Ib), 81 (Ev,Iz), 83 (Ev,Ib sign-extended).
func grp1(width, immWidth int, signExtendImm bool) opcodeHandler {
	return func(v *VM, opcode byte) error {
		d := &decodeState{}
		reg, err := v.modRMReg(d)
		if err != nil {
			return err
		}
		rm, err := v.rmOperand(d, width)
		if err != nil {
			return err
		}
		imm, err := v.fetchImm(immWidth)
		if err != nil {
			return err
		}
		if signExtendImm {
			imm = signExtend(imm, immWidth)
		}
		switch reg {
		case 0:
			_, err = v.arithApply(arithAdd, rm, imm)
		case 1:
			err = v.logicApply(logicOr, rm, imm)
		case 2:
			_, err = v.arithApply(arithAdc, rm, imm)
		case 3:
			_, err = v.arithApply(arithSbb, rm, imm)
		case 4:
			err = v.logicApply(logicAnd, rm, imm)
		case 5:
			_, err = v.arithApply(arithSub, rm, imm)
		case 6:
			err = v.logicApply(logicXor, rm, imm)
		case 7:
			_, err = v.arithApply(arithCmp, rm, imm)
		}
		return err
	}
}

// grp2CountKind selects how a Group 2 opcode's shift count is supplied.
type grp2CountKind int

const (
	grp2CountImm grp2CountKind = iota // C0/C1: imm8
	grp2CountOne                      // D0/D1: fixed 1
	grp2CountCL                       // D2/D3: CL
)

// grp2: C0/C1/D0/D1/D2/D3. reg 4 and 6 both mean shl/sal; 5 means shr;
// 7 means sar. reg 0-3 (rotates) are out of scope and fatal.
func grp2(width int, countKind grp2CountKind) opcodeHandler {
	return func(v *VM, opcode byte) error {
		d := &decodeState{}
		reg, err := v.modRMReg(d)
		if err != nil {
			return err
		}
		rm, err := v.rmOperand(d, width)
		if err != nil {
			return err
		}
		var count byte
		switch countKind {
		case grp2CountImm:
			imm, err := v.fetch8()
			if err != nil {
				return err
			}
			count = imm
		case grp2CountOne:
			count = 1
		case grp2CountCL:
			count = byte(v.Regs.Read(ECX, 1, false))
		}
		var op shiftOp
		switch reg {
		case 4, 6:
			op = shiftShl
		case 5:
			op = shiftShr
		case 7:
			op = shiftSar
		default:
			return &UnknownOpcodeError{EIP: v.EIP, Primary: opcode}
		}
		return v.doShift(op, rm, count)
	}
}

// grp3: F6 (Eb) / F7 (Ev). reg 0,1 test; 2 not; 3 neg; 4 mul; 5 imul;
// 6 div; 7 idiv.
func grp3(width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		d := &decodeState{}
		reg, err := v.modRMReg(d)
		if err != nil {
			return err
		}
		rm, err := v.rmOperand(d, width)
		if err != nil {
			return err
		}
		switch reg {
		case 0, 1:
			imm, err := v.fetchImm(width)
			if err != nil {
				return err
			}
			return v.logicApply(logicTest, rm, imm)
		case 2:
			return v.doNot(rm)
		case 3:
			return v.doNeg(rm)
		case 4:
			return v.doMul(rm)
		case 5:
			return v.doImulSingle(rm)
		case 6:
			return v.doDiv(rm)
		case 7:
			return v.doIdiv(rm)
		}
		return &UnknownOpcodeError{EIP: v.EIP, Primary: opcode}
	}
}

// grp4: FE /0 inc Eb, /1 dec Eb. Unlike grp5, FE carries no call/jmp/
// push forms since it only ever addresses an 8-bit operand.
func grp4() opcodeHandler {
	return func(v *VM, opcode byte) error {
		d := &decodeState{}
		reg, err := v.modRMReg(d)
		if err != nil {
			return err
		}
		rm, err := v.rmOperand(d, 1)
		if err != nil {
			return err
		}
		switch reg {
		case 0:
			return v.incDecOperand(rm, false)
		case 1:
			return v.incDecOperand(rm, true)
		}
		return &UnknownOpcodeError{EIP: v.EIP, Primary: opcode}
	}
}

// grp5: FF /0 inc, /1 dec, /2 call r/m (near), /3 call m16:32 (far,
// unsupported), /4 jmp r/m (near), /5 jmp m16:32 (far, unsupported),
// /6 push r/m.
func grp5(width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		d := &decodeState{}
		reg, err := v.modRMReg(d)
		if err != nil {
			return err
		}
		rm, err := v.rmOperand(d, width)
		if err != nil {
			return err
		}
		switch reg {
		case 0:
			return v.incDecOperand(rm, false)
		case 1:
			return v.incDecOperand(rm, true)
		case 2:
			target, err := v.Read(rm)
			if err != nil {
				return err
			}
			if err := v.pushWidth(width, v.EIP); err != nil {
				return err
			}
			v.EIP = target
			return nil
		case 4:
			target, err := v.Read(rm)
			if err != nil {
				return err
			}
			v.EIP = target
			return nil
		case 6:
			val, err := v.Read(rm)
			if err != nil {
				return err
			}
			return v.pushWidth(width, val)
		}
		return &UnknownOpcodeError{EIP: v.EIP, Primary: opcode}
	}
}

// grp8F: 8F /0, pop r/m.
func grp8F(width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		d := &decodeState{}
		reg, err := v.modRMReg(d)
		if err != nil {
			return err
		}
		if reg != 0 {
			return &UnknownOpcodeError{EIP: v.EIP, Primary: opcode}
		}
		rm, err := v.rmOperand(d, width)
		if err != nil {
			return err
		}
		val, err := v.popWidth(width)
		if err != nil {
			return err
		}
		return v.Write(rm, val)
	}
}
