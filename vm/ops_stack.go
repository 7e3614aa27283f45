// ops_stack.go - push/pop (register, r/m, and immediate forms) and leave.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

// opPushReg: push reg (50-57), register encoded in the opcode.
func opPushReg(regBase byte, width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		idx := int(opcode - regBase)
		val := v.Regs.Read(idx, width, false)
		return v.pushWidth(width, val)
	}
}

// opPopReg: pop reg (58-5F), register encoded in the opcode.
func opPopReg(regBase byte, width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		idx := int(opcode - regBase)
		val, err := v.popWidth(width)
		if err != nil {
			return err
		}
		v.Regs.Write(idx, width, val, false)
		return nil
	}
}

// opPushImm: push imm8/imm32 (6A, 68).
func opPushImm(width, immWidth int, signExtendImm bool) opcodeHandler {
	return func(v *VM, opcode byte) error {
		imm, err := v.fetchImm(immWidth)
		if err != nil {
			return err
		}
		if signExtendImm {
			imm = signExtend(imm, immWidth)
		}
		return v.pushWidth(width, imm)
	}
}

// opLeave: leave (C9) — mov esp, ebp; pop ebp.
func opLeave(width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		ebp := v.Regs.Read(EBP, 4, false)
		v.Regs.Write(ESP, 4, ebp, false)
		val, err := v.popWidth(width)
		if err != nil {
			return err
		}
		v.Regs.Write(EBP, width, val, false)
		return nil
	}
}
