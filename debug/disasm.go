// disasm.go - a static disassembler for the peripheral `disasm`/`trace`
// CLI subcommands. It walks raw bytes independently of the vm
// package's own decoder (the two must agree on opcode coverage, but
// this one never touches live VM state — it exists purely to produce
// human-readable text for a reader, exactly the role
// debug_disasm_x86.go plays for the Machine Monitor).
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package debug

import (
	"fmt"
	"strings"
)

var reg32 = [8]string{"EAX", "ECX", "EDX", "EBX", "ESP", "EBP", "ESI", "EDI"}
var reg16 = [8]string{"AX", "CX", "DX", "BX", "SP", "BP", "SI", "DI"}
var reg8 = [8]string{"AL", "CL", "DL", "BL", "AH", "CH", "DH", "BH"}
var condNames = [16]string{
	"O", "NO", "B", "NB", "Z", "NZ", "BE", "A",
	"S", "NS", "P", "NP", "L", "GE", "LE", "G",
}

// Line is one disassembled instruction, ready for a listing or a
// trace print.
type Line struct {
	Addr     uint32
	Bytes    string
	Mnemonic string
	Size     int
}

type reader struct {
	mem  []byte
	base uint32 // address of mem[0]
	pos  uint32
}

func (r *reader) u8() (byte, bool) {
	if int(r.pos-r.base) >= len(r.mem) {
		return 0, false
	}
	b := r.mem[r.pos-r.base]
	r.pos++
	return b, true
}

func (r *reader) u16() (uint16, bool) {
	i := r.pos - r.base
	if int(i)+2 > len(r.mem) {
		return 0, false
	}
	v := uint16(r.mem[i]) | uint16(r.mem[i+1])<<8
	r.pos += 2
	return v, true
}

func (r *reader) u32() (uint32, bool) {
	i := r.pos - r.base
	if int(i)+4 > len(r.mem) {
		return 0, false
	}
	v := uint32(r.mem[i]) | uint32(r.mem[i+1])<<8 | uint32(r.mem[i+2])<<16 | uint32(r.mem[i+3])<<24
	r.pos += 4
	return v, true
}

// modrm decodes a ModR/M (+ SIB + displacement) operand string. wide
// selects the 32- vs 8-bit register name table for mod==3.
func (r *reader) modrm(wide bool) string {
	b, ok := r.u8()
	if !ok {
		return "???"
	}
	mod := (b >> 6) & 3
	rm := b & 7

	if mod == 3 {
		if wide {
			return reg32[rm]
		}
		return reg8[rm]
	}

	if mod == 0 && rm == 5 {
		dw, _ := r.u32()
		return fmt.Sprintf("[0x%08X]", dw)
	}

	var base string
	if rm == 4 {
		sib, _ := r.u8()
		sibBase := sib & 7
		sibIdx := (sib >> 3) & 7
		sibScale := (sib >> 6) & 3
		if mod == 0 && sibBase == 5 {
			dw, _ := r.u32()
			if sibIdx == 4 {
				return fmt.Sprintf("[0x%08X]", dw)
			}
			return fmt.Sprintf("[%s*%d+0x%08X]", reg32[sibIdx], 1<<sibScale, dw)
		}
		base = reg32[sibBase]
		if sibIdx != 4 {
			base = fmt.Sprintf("%s+%s*%d", base, reg32[sibIdx], 1<<sibScale)
		}
	} else {
		base = reg32[rm]
	}

	switch mod {
	case 0:
		return fmt.Sprintf("[%s]", base)
	case 1:
		db, _ := r.u8()
		off := int8(db)
		if off >= 0 {
			return fmt.Sprintf("[%s+0x%02X]", base, off)
		}
		return fmt.Sprintf("[%s-0x%02X]", base, -off)
	case 2:
		dw, _ := r.u32()
		return fmt.Sprintf("[%s+0x%08X]", base, dw)
	}
	return "???"
}

// peekModRMReg extracts the reg field of an already-fetched ModR/M
// byte (used by the ALU/group forms which need reg *and* the r/m
// operand from the same byte).
func peekModRMReg(b byte) byte { return (b >> 3) & 7 }

func aluName(reg byte) string {
	return [8]string{"ADD", "OR", "ADC", "SBB", "AND", "SUB", "XOR", "CMP"}[reg]
}

func shiftName(reg byte) string {
	switch reg {
	case 4, 6:
		return "SHL"
	case 5:
		return "SHR"
	case 7:
		return "SAR"
	default:
		return fmt.Sprintf("ROT%d", reg)
	}
}

// Disassemble decodes count instructions from mem, whose first byte
// sits at address addr, stopping early if it runs out of bytes.
func Disassemble(mem []byte, addr uint32, count int) []Line {
	var lines []Line
	r := &reader{mem: mem, base: addr, pos: addr}
	for i := 0; i < count; i++ {
		if int(r.pos-addr) >= len(mem) {
			break
		}
		start := r.pos
		mnem := decodeOne(r)
		size := int(r.pos - start)
		if size == 0 {
			size = 1
			r.pos++
		}
		var hex []string
		for _, b := range mem[start-addr : r.pos-addr] {
			hex = append(hex, fmt.Sprintf("%02X", b))
		}
		lines = append(lines, Line{Addr: start, Bytes: strings.Join(hex, " "), Mnemonic: mnem, Size: size})
	}
	return lines
}

// TraceLine renders the instruction at eip for the VM's per-step debug
// tracer. mem is the whole memory image (mem[0] at address 0); the
// instruction, prefixes included, is decoded from it. opSize16 is not
// consulted.
func TraceLine(mem []byte, eip uint32, opSize16 bool) string {
	var lines []Line
	if int(eip) < len(mem) {
		lines = Disassemble(mem[eip:], eip, 1)
	}
	if len(lines) == 0 {
		return fmt.Sprintf("0x%08X: <eof>", eip)
	}
	return fmt.Sprintf("0x%08X  %-18s %s", lines[0].Addr, lines[0].Bytes, lines[0].Mnemonic)
}

func decodeOne(r *reader) string {
	opSize := false
	for {
		b, ok := r.u8()
		if !ok {
			return "db ??"
		}
		switch b {
		case 0x66:
			opSize = true
			continue
		case 0x67, 0x2E, 0x36, 0x3E, 0x26, 0x64, 0x65:
			continue
		case 0xF2:
			return "REPNE " + decodeOne(r)
		case 0xF3:
			return "REP " + decodeOne(r)
		}
		return decodeOpcode(r, b, opSize)
	}
}

func regs(opSize bool) [8]string {
	if opSize {
		return reg16
	}
	return reg32
}

func aluRM(r *reader, name string, wide, regIsDest bool) string {
	b, ok := r.u8()
	if !ok {
		return name + " ???"
	}
	reg := peekModRMReg(b)
	mod := b >> 6 & 3
	rm := b & 7

	var regName string
	if wide {
		regName = reg32[reg]
	} else {
		regName = reg8[reg]
	}

	var rmStr string
	if mod == 3 {
		if wide {
			rmStr = reg32[rm]
		} else {
			rmStr = reg8[rm]
		}
	} else {
		r.pos--
		rmStr = r.modrm(wide)
	}

	if regIsDest {
		return fmt.Sprintf("%s %s, %s", name, regName, rmStr)
	}
	return fmt.Sprintf("%s %s, %s", name, rmStr, regName)
}

// extRM handles movzx/movsx, whose destination register is always
// 32-bit while the r/m source narrows independently (srcWide selects
// its width), unlike aluRM's family where both operands share one
// width.
func extRM(r *reader, name string, srcWide bool) string {
	b, ok := r.u8()
	if !ok {
		return name + " ???"
	}
	reg := peekModRMReg(b)
	mod := b >> 6 & 3
	rm := b & 7

	regName := reg32[reg]

	var rmStr string
	if mod == 3 {
		if srcWide {
			rmStr = reg16[rm]
		} else {
			rmStr = reg8[rm]
		}
	} else {
		r.pos--
		rmStr = r.modrm(srcWide)
	}

	return fmt.Sprintf("%s %s, %s", name, regName, rmStr)
}

func decodeOpcode(r *reader, op byte, opSize bool) string {
	rn := regs(opSize)

	switch op {
	case 0x00:
		return aluRM(r, "ADD", false, false)
	case 0x01:
		return aluRM(r, "ADD", true, false)
	case 0x02:
		return aluRM(r, "ADD", false, true)
	case 0x03:
		return aluRM(r, "ADD", true, true)
	case 0x04:
		imm, _ := r.u8()
		return fmt.Sprintf("ADD AL, 0x%02X", imm)
	case 0x05:
		return aluAccImm(r, "ADD", opSize)

	case 0x08:
		return aluRM(r, "OR", false, false)
	case 0x09:
		return aluRM(r, "OR", true, false)
	case 0x0A:
		return aluRM(r, "OR", false, true)
	case 0x0B:
		return aluRM(r, "OR", true, true)
	case 0x0C:
		imm, _ := r.u8()
		return fmt.Sprintf("OR AL, 0x%02X", imm)
	case 0x0D:
		return aluAccImm(r, "OR", opSize)

	case 0x10:
		return aluRM(r, "ADC", false, false)
	case 0x11:
		return aluRM(r, "ADC", true, false)
	case 0x12:
		return aluRM(r, "ADC", false, true)
	case 0x13:
		return aluRM(r, "ADC", true, true)
	case 0x14:
		imm, _ := r.u8()
		return fmt.Sprintf("ADC AL, 0x%02X", imm)
	case 0x15:
		return aluAccImm(r, "ADC", opSize)

	case 0x18:
		return aluRM(r, "SBB", false, false)
	case 0x19:
		return aluRM(r, "SBB", true, false)
	case 0x1A:
		return aluRM(r, "SBB", false, true)
	case 0x1B:
		return aluRM(r, "SBB", true, true)
	case 0x1C:
		imm, _ := r.u8()
		return fmt.Sprintf("SBB AL, 0x%02X", imm)
	case 0x1D:
		return aluAccImm(r, "SBB", opSize)

	case 0x20:
		return aluRM(r, "AND", false, false)
	case 0x21:
		return aluRM(r, "AND", true, false)
	case 0x22:
		return aluRM(r, "AND", false, true)
	case 0x23:
		return aluRM(r, "AND", true, true)
	case 0x24:
		imm, _ := r.u8()
		return fmt.Sprintf("AND AL, 0x%02X", imm)
	case 0x25:
		return aluAccImm(r, "AND", opSize)

	case 0x28:
		return aluRM(r, "SUB", false, false)
	case 0x29:
		return aluRM(r, "SUB", true, false)
	case 0x2A:
		return aluRM(r, "SUB", false, true)
	case 0x2B:
		return aluRM(r, "SUB", true, true)
	case 0x2C:
		imm, _ := r.u8()
		return fmt.Sprintf("SUB AL, 0x%02X", imm)
	case 0x2D:
		return aluAccImm(r, "SUB", opSize)

	case 0x30:
		return aluRM(r, "XOR", false, false)
	case 0x31:
		return aluRM(r, "XOR", true, false)
	case 0x32:
		return aluRM(r, "XOR", false, true)
	case 0x33:
		return aluRM(r, "XOR", true, true)
	case 0x34:
		imm, _ := r.u8()
		return fmt.Sprintf("XOR AL, 0x%02X", imm)
	case 0x35:
		return aluAccImm(r, "XOR", opSize)

	case 0x38:
		return aluRM(r, "CMP", false, false)
	case 0x39:
		return aluRM(r, "CMP", true, false)
	case 0x3A:
		return aluRM(r, "CMP", false, true)
	case 0x3B:
		return aluRM(r, "CMP", true, true)
	case 0x3C:
		imm, _ := r.u8()
		return fmt.Sprintf("CMP AL, 0x%02X", imm)
	case 0x3D:
		return aluAccImm(r, "CMP", opSize)

	case 0x40, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47:
		return fmt.Sprintf("INC %s", rn[op-0x40])
	case 0x48, 0x49, 0x4A, 0x4B, 0x4C, 0x4D, 0x4E, 0x4F:
		return fmt.Sprintf("DEC %s", rn[op-0x48])
	case 0x50, 0x51, 0x52, 0x53, 0x54, 0x55, 0x56, 0x57:
		return fmt.Sprintf("PUSH %s", rn[op-0x50])
	case 0x58, 0x59, 0x5A, 0x5B, 0x5C, 0x5D, 0x5E, 0x5F:
		return fmt.Sprintf("POP %s", rn[op-0x58])

	case 0x68:
		if opSize {
			imm, _ := r.u16()
			return fmt.Sprintf("PUSH 0x%04X", imm)
		}
		imm, _ := r.u32()
		return fmt.Sprintf("PUSH 0x%08X", imm)
	case 0x69:
		return imul3(r, !opSize, false)
	case 0x6A:
		imm, _ := r.u8()
		return fmt.Sprintf("PUSH 0x%02X", imm)
	case 0x6B:
		return imul3(r, !opSize, true)

	case 0x70, 0x71, 0x72, 0x73, 0x74, 0x75, 0x76, 0x77,
		0x78, 0x79, 0x7A, 0x7B, 0x7C, 0x7D, 0x7E, 0x7F:
		off, _ := r.u8()
		target := r.pos + uint32(int32(int8(off)))
		return fmt.Sprintf("J%s SHORT 0x%08X", condNames[op-0x70], target)

	case 0x80:
		return group1(r, false, false)
	case 0x81:
		return group1(r, !opSize, false)
	case 0x83:
		return group1(r, !opSize, true)

	case 0x84:
		return aluRM(r, "TEST", false, false)
	case 0x85:
		return aluRM(r, "TEST", true, false)
	case 0x86:
		return aluRM(r, "XCHG", false, false)
	case 0x87:
		return aluRM(r, "XCHG", true, false)
	case 0x88:
		return aluRM(r, "MOV", false, false)
	case 0x89:
		return aluRM(r, "MOV", true, false)
	case 0x8A:
		return aluRM(r, "MOV", false, true)
	case 0x8B:
		return aluRM(r, "MOV", true, true)
	case 0x8D:
		return aluRM(r, "LEA", true, true)
	case 0x8F:
		b, _ := r.u8()
		r.pos--
		mod := b >> 6 & 3
		rm := b & 7
		if mod == 3 {
			r.pos++
			return fmt.Sprintf("POP %s", reg32[rm])
		}
		return fmt.Sprintf("POP %s", r.modrm(true))

	case 0x90:
		return "NOP"
	case 0x91, 0x92, 0x93, 0x94, 0x95, 0x96, 0x97:
		return fmt.Sprintf("XCHG %s, %s", rn[0], rn[op-0x90])

	case 0x98:
		if opSize {
			return "CBW"
		}
		return "CWDE"
	case 0x99:
		if opSize {
			return "CWD"
		}
		return "CDQ"

	case 0xA4:
		return "MOVSB"
	case 0xA5:
		if opSize {
			return "MOVSW"
		}
		return "MOVSD"
	case 0xA8:
		imm, _ := r.u8()
		return fmt.Sprintf("TEST AL, 0x%02X", imm)
	case 0xA9:
		return aluAccImm(r, "TEST", opSize)

	case 0xB0, 0xB1, 0xB2, 0xB3, 0xB4, 0xB5, 0xB6, 0xB7:
		imm, _ := r.u8()
		return fmt.Sprintf("MOV %s, 0x%02X", reg8[op-0xB0], imm)
	case 0xB8, 0xB9, 0xBA, 0xBB, 0xBC, 0xBD, 0xBE, 0xBF:
		if opSize {
			imm, _ := r.u16()
			return fmt.Sprintf("MOV %s, 0x%04X", rn[op-0xB8], imm)
		}
		imm, _ := r.u32()
		return fmt.Sprintf("MOV %s, 0x%08X", rn[op-0xB8], imm)

	case 0xC0:
		return shiftGroup(r, false, 0)
	case 0xC1:
		return shiftGroup(r, !opSize, 0)
	case 0xC2:
		imm, _ := r.u16()
		return fmt.Sprintf("RET 0x%04X", imm)
	case 0xC3:
		return "RET"
	case 0xC6:
		rm := r.modrm(false)
		imm, _ := r.u8()
		return fmt.Sprintf("MOV %s, 0x%02X", rm, imm)
	case 0xC7:
		rm := r.modrm(!opSize)
		if opSize {
			imm, _ := r.u16()
			return fmt.Sprintf("MOV %s, 0x%04X", rm, imm)
		}
		imm, _ := r.u32()
		return fmt.Sprintf("MOV %s, 0x%08X", rm, imm)
	case 0xC9:
		return "LEAVE"
	case 0xCC:
		return "INT3"
	case 0xCD:
		imm, _ := r.u8()
		return fmt.Sprintf("INT 0x%02X", imm)

	case 0xD0:
		return shiftGroup(r, false, 1)
	case 0xD1:
		return shiftGroup(r, !opSize, 1)
	case 0xD2:
		return shiftGroup(r, false, 2)
	case 0xD3:
		return shiftGroup(r, !opSize, 2)

	case 0xE8:
		if opSize {
			off, _ := r.u16()
			return fmt.Sprintf("CALL 0x%08X", r.pos+uint32(int32(int16(off))))
		}
		off, _ := r.u32()
		return fmt.Sprintf("CALL 0x%08X", r.pos+uint32(int32(off)))
	case 0xE9:
		if opSize {
			off, _ := r.u16()
			return fmt.Sprintf("JMP 0x%08X", r.pos+uint32(int32(int16(off))))
		}
		off, _ := r.u32()
		return fmt.Sprintf("JMP 0x%08X", r.pos+uint32(int32(off)))
	case 0xEB:
		off, _ := r.u8()
		return fmt.Sprintf("JMP SHORT 0x%08X", r.pos+uint32(int32(int8(off))))

	case 0xF4:
		return "HLT"
	case 0xF5:
		return "CMC"
	case 0xF6:
		return group3(r, false)
	case 0xF7:
		return group3(r, !opSize)
	case 0xF8:
		return "CLC"
	case 0xF9:
		return "STC"
	case 0xFA:
		return "CLI"
	case 0xFB:
		return "STI"
	case 0xFC:
		return "CLD"
	case 0xFD:
		return "STD"
	case 0xFE:
		return group4(r)
	case 0xFF:
		return group5(r, !opSize)

	case 0x0F:
		return decodeTwoByte(r, opSize)
	}
	return fmt.Sprintf("db 0x%02X", op)
}

func aluAccImm(r *reader, name string, opSize bool) string {
	if opSize {
		imm, _ := r.u16()
		return fmt.Sprintf("%s AX, 0x%04X", name, imm)
	}
	imm, _ := r.u32()
	return fmt.Sprintf("%s EAX, 0x%08X", name, imm)
}

func group1(r *reader, wide, signExtendImm bool) string {
	b, ok := r.u8()
	if !ok {
		return "??? r/m, imm"
	}
	reg := peekModRMReg(b)
	mod := b >> 6 & 3
	rm := b & 7

	var rmStr string
	if mod == 3 {
		if wide {
			rmStr = reg32[rm]
		} else {
			rmStr = reg8[rm]
		}
	} else {
		r.pos--
		rmStr = r.modrm(wide)
	}

	if !wide || signExtendImm {
		imm, _ := r.u8()
		return fmt.Sprintf("%s %s, 0x%02X", aluName(reg), rmStr, imm)
	}
	imm, _ := r.u32()
	return fmt.Sprintf("%s %s, 0x%08X", aluName(reg), rmStr, imm)
}

// imul3 decodes the three-operand imul forms (0x69 Gv,Ev,Iz; 0x6B
// Gv,Ev,Ib), sharing group1's mod==3/memory split and imm-width choice.
func imul3(r *reader, wide, signExtendImm bool) string {
	b, ok := r.u8()
	if !ok {
		return "IMUL ???"
	}
	reg := peekModRMReg(b)
	mod := b >> 6 & 3
	rm := b & 7

	regName := reg32[reg]

	var rmStr string
	if mod == 3 {
		if wide {
			rmStr = reg32[rm]
		} else {
			rmStr = reg8[rm]
		}
	} else {
		r.pos--
		rmStr = r.modrm(wide)
	}

	if !wide || signExtendImm {
		imm, _ := r.u8()
		return fmt.Sprintf("IMUL %s, %s, 0x%02X", regName, rmStr, imm)
	}
	imm, _ := r.u32()
	return fmt.Sprintf("IMUL %s, %s, 0x%08X", regName, rmStr, imm)
}

func shiftGroup(r *reader, wide bool, countKind int) string {
	b, ok := r.u8()
	if !ok {
		return "SHIFT ???"
	}
	reg := peekModRMReg(b)
	mod := b >> 6 & 3
	rm := b & 7

	var rmStr string
	if mod == 3 {
		if wide {
			rmStr = reg32[rm]
		} else {
			rmStr = reg8[rm]
		}
	} else {
		r.pos--
		rmStr = r.modrm(wide)
	}

	switch countKind {
	case 1:
		return fmt.Sprintf("%s %s, 1", shiftName(reg), rmStr)
	case 2:
		return fmt.Sprintf("%s %s, CL", shiftName(reg), rmStr)
	default:
		imm, _ := r.u8()
		return fmt.Sprintf("%s %s, %d", shiftName(reg), rmStr, imm)
	}
}

func group3(r *reader, wide bool) string {
	b, ok := r.u8()
	if !ok {
		return "GRP3 ???"
	}
	reg := peekModRMReg(b)
	mod := b >> 6 & 3
	rm := b & 7

	var rmStr string
	if mod == 3 {
		if wide {
			rmStr = reg32[rm]
		} else {
			rmStr = reg8[rm]
		}
	} else {
		r.pos--
		rmStr = r.modrm(wide)
	}

	switch reg {
	case 0, 1:
		if wide {
			imm, _ := r.u32()
			return fmt.Sprintf("TEST %s, 0x%08X", rmStr, imm)
		}
		imm, _ := r.u8()
		return fmt.Sprintf("TEST %s, 0x%02X", rmStr, imm)
	case 2:
		return fmt.Sprintf("NOT %s", rmStr)
	case 3:
		return fmt.Sprintf("NEG %s", rmStr)
	case 4:
		return fmt.Sprintf("MUL %s", rmStr)
	case 5:
		return fmt.Sprintf("IMUL %s", rmStr)
	case 6:
		return fmt.Sprintf("DIV %s", rmStr)
	case 7:
		return fmt.Sprintf("IDIV %s", rmStr)
	}
	return fmt.Sprintf("GRP3/%d %s", reg, rmStr)
}

func group4(r *reader) string {
	b, ok := r.u8()
	if !ok {
		return "GRP4 ???"
	}
	reg := peekModRMReg(b)
	mod := b >> 6 & 3
	rm := b & 7
	var rmStr string
	if mod == 3 {
		rmStr = reg8[rm]
	} else {
		r.pos--
		rmStr = r.modrm(false)
	}
	switch reg {
	case 0:
		return fmt.Sprintf("INC %s", rmStr)
	case 1:
		return fmt.Sprintf("DEC %s", rmStr)
	}
	return fmt.Sprintf("GRP4/%d %s", reg, rmStr)
}

func group5(r *reader, wide bool) string {
	b, ok := r.u8()
	if !ok {
		return "GRP5 ???"
	}
	reg := peekModRMReg(b)
	mod := b >> 6 & 3
	rm := b & 7
	var rmStr string
	if mod == 3 {
		rmStr = reg32[rm]
	} else {
		r.pos--
		rmStr = r.modrm(wide)
	}
	switch reg {
	case 0:
		return fmt.Sprintf("INC %s", rmStr)
	case 1:
		return fmt.Sprintf("DEC %s", rmStr)
	case 2:
		return fmt.Sprintf("CALL %s", rmStr)
	case 4:
		return fmt.Sprintf("JMP %s", rmStr)
	case 6:
		return fmt.Sprintf("PUSH %s", rmStr)
	}
	return fmt.Sprintf("GRP5/%d %s", reg, rmStr)
}

func decodeTwoByte(r *reader, opSize bool) string {
	op, ok := r.u8()
	if !ok {
		return "db 0x0F, ??"
	}
	switch {
	case op >= 0x80 && op <= 0x8F:
		if opSize {
			off, _ := r.u16()
			return fmt.Sprintf("J%s 0x%08X", condNames[op-0x80], r.pos+uint32(int32(int16(off))))
		}
		off, _ := r.u32()
		return fmt.Sprintf("J%s 0x%08X", condNames[op-0x80], r.pos+uint32(int32(off)))
	case op >= 0x90 && op <= 0x9F:
		rm := r.modrm(false)
		return fmt.Sprintf("SET%s %s", condNames[op-0x90], rm)
	}
	switch op {
	case 0xAF:
		return aluRM(r, "IMUL", true, true)
	case 0xB6:
		return extRM(r, "MOVZX", false)
	case 0xB7:
		return extRM(r, "MOVZX", true)
	case 0xBE:
		return extRM(r, "MOVSX", false)
	case 0xBF:
		return extRM(r, "MOVSX", true)
	}
	return fmt.Sprintf("db 0x0F, 0x%02X", op)
}
