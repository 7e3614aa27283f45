// ops_misc.go - flag-bit opcodes (stc/clc/cmc/std/cld/sti/cli) and hlt.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

func opStc() opcodeHandler {
	return func(v *VM, opcode byte) error { v.Regs.FlagSet(FlagCF, true); return nil }
}

func opClc() opcodeHandler {
	return func(v *VM, opcode byte) error { v.Regs.FlagSet(FlagCF, false); return nil }
}

func opCmc() opcodeHandler {
	return func(v *VM, opcode byte) error {
		v.Regs.FlagSet(FlagCF, !v.Regs.FlagGet(FlagCF))
		return nil
	}
}

func opStd() opcodeHandler {
	return func(v *VM, opcode byte) error { v.Regs.FlagSet(FlagDF, true); return nil }
}

func opCld() opcodeHandler {
	return func(v *VM, opcode byte) error { v.Regs.FlagSet(FlagDF, false); return nil }
}

func opSti() opcodeHandler {
	return func(v *VM, opcode byte) error { v.Regs.FlagSet(FlagIF, true); return nil }
}

func opCli() opcodeHandler {
	return func(v *VM, opcode byte) error { v.Regs.FlagSet(FlagIF, false); return nil }
}

// opHlt: hlt (F4) — this core's only way to stop without an exit
// syscall; reported with an exit code of 0.
func opHlt() opcodeHandler {
	return func(v *VM, opcode byte) error {
		v.halt(0)
		return nil
	}
}
