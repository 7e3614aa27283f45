// disasm_test.go - spot checks that the static disassembler names the
// instructions the vm package's dispatch table actually implements.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package debug

import "testing"

func TestDisassemble_HelloWorldProlog(t *testing.T) {
	// mov eax, 4; mov ebx, 1
	code := []byte{
		0xB8, 0x04, 0x00, 0x00, 0x00,
		0xBB, 0x01, 0x00, 0x00, 0x00,
	}
	lines := Disassemble(code, 0, 2)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0].Mnemonic != "MOV EAX, 0x00000004" {
		t.Errorf("line 0 = %q", lines[0].Mnemonic)
	}
	if lines[1].Mnemonic != "MOV EBX, 0x00000001" {
		t.Errorf("line 1 = %q", lines[1].Mnemonic)
	}
	if lines[0].Addr != 0 || lines[1].Addr != 5 {
		t.Errorf("addrs = %d, %d; want 0, 5", lines[0].Addr, lines[1].Addr)
	}
}

func TestDisassemble_ArithmeticAndJump(t *testing.T) {
	// sub eax, 5; jz +1; nop
	code := []byte{0x83, 0xE8, 0x05, 0x74, 0x01, 0x90}
	lines := Disassemble(code, 0, 3)
	want := []string{"SUB EAX, 0x05", "JZ SHORT 0x00000006", "NOP"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i, l := range lines {
		if l.Mnemonic != want[i] {
			t.Errorf("line %d = %q, want %q", i, l.Mnemonic, want[i])
		}
	}
}

func TestDisassemble_ModRMMemoryOperand(t *testing.T) {
	// mov [eax+0x10], ecx -> 89 48 10
	code := []byte{0x89, 0x48, 0x10}
	lines := Disassemble(code, 0x1000, 1)
	if len(lines) != 1 {
		t.Fatalf("got %d lines", len(lines))
	}
	want := "MOV [EAX+0x10], ECX"
	if lines[0].Mnemonic != want {
		t.Errorf("got %q, want %q", lines[0].Mnemonic, want)
	}
	if lines[0].Addr != 0x1000 {
		t.Errorf("addr = 0x%X, want 0x1000", lines[0].Addr)
	}
}

func TestDisassemble_UnknownOpcode(t *testing.T) {
	lines := Disassemble([]byte{0xD6}, 0, 1)
	if len(lines) != 1 || lines[0].Mnemonic != "db 0xD6" {
		t.Fatalf("got %+v", lines)
	}
}

func TestDisassemble_TwoBytePrefix(t *testing.T) {
	// movzx eax, bl -> 0F B6 C3
	code := []byte{0x0F, 0xB6, 0xC3}
	lines := Disassemble(code, 0, 1)
	if len(lines) != 1 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0].Mnemonic != "MOVZX EAX, BL" {
		t.Errorf("got %q", lines[0].Mnemonic)
	}
	if lines[0].Size != 3 {
		t.Errorf("size = %d, want 3", lines[0].Size)
	}
}

func TestTraceLine_FormatsAddressAndBytes(t *testing.T) {
	code := []byte{0x90}
	line := TraceLine(code, 0, false)
	want := "0x00000000  90                 NOP"
	if line != want {
		t.Errorf("got %q, want %q", line, want)
	}
}
