// ops_logic.go - and/or/xor/not/test.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

type logicOp int

const (
	logicAnd logicOp = iota
	logicOr
	logicXor
	logicTest
)

func applyLogicOp(op logicOp, a, b uint32) uint32 {
	switch op {
	case logicAnd, logicTest:
		return a & b
	case logicOr:
		return a | b
	case logicXor:
		return a ^ b
	default:
		panic("vm: invalid logic op")
	}
}

func (v *VM) logicApply(op logicOp, dst Operand, src uint32) error {
	a, err := v.Read(dst)
	if err != nil {
		return err
	}
	result := applyLogicOp(op, a, src)
	v.Regs.applyLogic(dst.width, uint64(result))
	if op == logicTest {
		return nil
	}
	return v.Write(dst, result)
}

// opLogicRMReg: op r/m, reg (20/21 and, 08/09 or, 30/31 xor, 84/85 test).
func opLogicRMReg(op logicOp, width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		d := &decodeState{}
		reg, err := v.regOperand(d, width)
		if err != nil {
			return err
		}
		rm, err := v.rmOperand(d, width)
		if err != nil {
			return err
		}
		srcVal, err := v.Read(reg)
		if err != nil {
			return err
		}
		return v.logicApply(op, rm, srcVal)
	}
}

// opLogicRegRM: op reg, r/m (22/23 and, 0A/0B or, 32/33 xor).
func opLogicRegRM(op logicOp, width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		d := &decodeState{}
		reg, err := v.regOperand(d, width)
		if err != nil {
			return err
		}
		rm, err := v.rmOperand(d, width)
		if err != nil {
			return err
		}
		srcVal, err := v.Read(rm)
		if err != nil {
			return err
		}
		return v.logicApply(op, reg, srcVal)
	}
}

// opLogicAccImm: op al/eax, imm (24/25 and, 0C/0D or, 34/35 xor, A8/A9 test).
func opLogicAccImm(op logicOp, width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		imm, err := v.fetchImm(width)
		if err != nil {
			return err
		}
		return v.logicApply(op, regOperandIdx(EAX, width), imm)
	}
}

// doNot implements Group 3 /2 (not) against an already-decoded
// operand. not never touches any flag.
func (v *VM) doNot(rm Operand) error {
	val, err := v.Read(rm)
	if err != nil {
		return err
	}
	return v.Write(rm, ^val&uint32(maskFor(rm.width)))
}
