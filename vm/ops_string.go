// ops_string.go - movsb/movsw/movsd: copy [ESI] to [EDI], advancing
// both by the operand width according to DF.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

// opMovs: movsb (A4), movsw (A5 with 0x66), movsd (A5). The REP prefix
// is handled by the dispatch loop, which re-invokes this handler while
// ECX is non-zero and decrements it between invocations.
func opMovs(width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		src := v.Regs.Read(ESI, 4, false)
		dst := v.Regs.Read(EDI, 4, false)
		val, err := v.Mem.readWidth(src, width)
		if err != nil {
			return withEIP(err, v.EIP)
		}
		if err := v.Mem.writeWidth(dst, width, val); err != nil {
			return withEIP(err, v.EIP)
		}
		step := uint32(width)
		if v.Regs.FlagGet(FlagDF) {
			src -= step
			dst -= step
		} else {
			src += step
			dst += step
		}
		v.Regs.Write(ESI, 4, src, false)
		v.Regs.Write(EDI, 4, dst, false)
		return nil
	}
}
