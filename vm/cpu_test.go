// cpu_test.go - end-to-end fetch-decode-execute scenarios exercising
// the syscall gate, arithmetic flags, stack discipline, and the fatal
// error paths.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

import (
	"bytes"
	"testing"
)

func TestVM_WriteThenExit(t *testing.T) {
	msgAddr := uint32(0x100)
	msg := []byte("Hi\n")

	code := []byte{
		0xB8, 0x04, 0x00, 0x00, 0x00, // mov eax, 4 (sys_write)
		0xBB, 0x01, 0x00, 0x00, 0x00, // mov ebx, 1 (stdout)
		0xB9, byte(msgAddr), byte(msgAddr >> 8), byte(msgAddr >> 16), byte(msgAddr >> 24), // mov ecx, msgAddr
		0xBA, byte(len(msg)), 0x00, 0x00, 0x00, // mov edx, len(msg)
		0xCD, 0x80, // int 0x80
		0xB8, 0x01, 0x00, 0x00, 0x00, // mov eax, 1 (sys_exit)
		0xBB, 0x2A, 0x00, 0x00, 0x00, // mov ebx, 42
		0xCD, 0x80, // int 0x80
	}
	program := make([]byte, int(msgAddr)+len(msg))
	copy(program, code)
	copy(program[msgAddr:], msg)

	var out bytes.Buffer
	v := New(4096, WithStdout(&out))
	if err := v.ExecuteBytes(program, 0); err != nil {
		t.Fatalf("ExecuteBytes: %v", err)
	}
	if !v.Halted() {
		t.Fatal("expected VM to halt")
	}
	if v.ExitCode != 42 {
		t.Errorf("ExitCode: got %d, want 42", v.ExitCode)
	}
	if out.String() != "Hi\n" {
		t.Errorf("stdout: got %q, want %q", out.String(), "Hi\n")
	}
}

func TestVM_ArithmeticFlags(t *testing.T) {
	code := []byte{
		0xB8, 0x05, 0x00, 0x00, 0x00, // mov eax, 5
		0x83, 0xE8, 0x0A, // sub eax, 10
		0xF4, // hlt
	}
	v := New(4096)
	if err := v.ExecuteBytes(code, 0); err != nil {
		t.Fatalf("ExecuteBytes: %v", err)
	}
	if got := v.Regs.Read(EAX, 4, false); got != 0xFFFFFFFB {
		t.Errorf("EAX: got 0x%08X, want 0xFFFFFFFB", got)
	}
	if !v.Regs.FlagGet(FlagCF) {
		t.Error("expected CF set: 5-10 borrows")
	}
	if !v.Regs.FlagGet(FlagSF) {
		t.Error("expected SF set: result is negative")
	}
	if v.Regs.FlagGet(FlagZF) {
		t.Error("expected ZF clear")
	}
}

func TestVM_UnsignedCompareSetsCF(t *testing.T) {
	code := []byte{
		0xB8, 0x01, 0x00, 0x00, 0x00, // mov eax, 1
		0xBB, 0x02, 0x00, 0x00, 0x00, // mov ebx, 2
		0x39, 0xD8, // cmp eax, ebx
		0xF4, // hlt
	}
	v := New(4096)
	if err := v.ExecuteBytes(code, 0); err != nil {
		t.Fatalf("ExecuteBytes: %v", err)
	}
	if !v.Regs.FlagGet(FlagCF) {
		t.Error("expected CF set: 1 < 2 unsigned")
	}
	// cmp must not modify the destination operand.
	if got := v.Regs.Read(EAX, 4, false); got != 1 {
		t.Errorf("EAX modified by cmp: got %d, want 1", got)
	}
}

func TestVM_StackOrdering(t *testing.T) {
	code := []byte{
		0x6A, 0x01, // push 1
		0x6A, 0x02, // push 2
		0x58, // pop eax
		0x5B, // pop ebx
		0xF4, // hlt
	}
	v := New(4096)
	if err := v.ExecuteBytes(code, 0); err != nil {
		t.Fatalf("ExecuteBytes: %v", err)
	}
	if got := v.Regs.Read(EAX, 4, false); got != 2 {
		t.Errorf("EAX: got %d, want 2 (last pushed pops first)", got)
	}
	if got := v.Regs.Read(EBX, 4, false); got != 1 {
		t.Errorf("EBX: got %d, want 1", got)
	}
}

func TestVM_UnknownOpcodeIsFatal(t *testing.T) {
	code := []byte{0xD6} // unassigned in the primary opcode table
	v := New(4096)
	err := v.ExecuteBytes(code, 0)
	if _, ok := err.(*UnknownOpcodeError); !ok {
		t.Fatalf("expected *UnknownOpcodeError, got %v (%T)", err, err)
	}
	if v.Halted() {
		t.Error("VM must not report halted on a fatal decode error")
	}
}

func TestVM_Imul3OperandImm32(t *testing.T) {
	code := []byte{
		0xBB, 0x07, 0x00, 0x00, 0x00, // mov ebx, 7
		0x69, 0xC3, 0x06, 0x00, 0x00, 0x00, // imul eax, ebx, 6
		0xF4, // hlt
	}
	v := New(4096)
	if err := v.ExecuteBytes(code, 0); err != nil {
		t.Fatalf("ExecuteBytes: %v", err)
	}
	if got := v.Regs.Read(EAX, 4, false); got != 42 {
		t.Errorf("EAX: got %d, want 42", got)
	}
	if v.Regs.FlagGet(FlagOF) || v.Regs.FlagGet(FlagCF) {
		t.Error("expected CF/OF clear: product fits in 32 bits")
	}
}

func TestVM_Imul3OperandImm8SignExtends(t *testing.T) {
	code := []byte{
		0xBB, 0x0A, 0x00, 0x00, 0x00, // mov ebx, 10
		0x6B, 0xC3, 0xFF, // imul eax, ebx, -1
		0xF4, // hlt
	}
	v := New(4096)
	if err := v.ExecuteBytes(code, 0); err != nil {
		t.Fatalf("ExecuteBytes: %v", err)
	}
	if got := int32(v.Regs.Read(EAX, 4, false)); got != -10 {
		t.Errorf("EAX: got %d, want -10", got)
	}
}

func TestVM_StrayRepPrefixIgnoredOnNonStringOpcode(t *testing.T) {
	// F3 C3 (rep ret): REP/REPE/REPNE apply only to string ops (spec.md
	// ยง4.5). ECX defaults to 0 here; if the repeat loop wrongly gated on
	// prefixRep!=0 alone, it would iterate zero times and skip the ret
	// entirely, leaving the pushed return address never popped.
	code := []byte{
		0x6A, 0x04, // push 4 (address of the hlt below)
		0xF3, 0xC3, // rep ret
		0xF4, // hlt — only reached if ret actually transferred control here
	}
	v := New(4096)
	espBefore := uint32(v.Mem.Size())
	if err := v.ExecuteBytes(code, 0); err != nil {
		t.Fatalf("ExecuteBytes: %v", err)
	}
	if !v.Halted() {
		t.Fatal("expected halt: ret must land on the hlt following it")
	}
	if got := v.Regs.Read(ESP, 4, false); got != espBefore {
		t.Errorf("ESP: got 0x%X, want 0x%X (ret's pop must have fired exactly once)", got, espBefore)
	}
}

func TestVM_BoundsViolation(t *testing.T) {
	// mov eax, imm32 with no immediate bytes present: the opcode fits
	// but the fetch for its operand runs past the end of memory.
	code := []byte{0xB8}
	v := New(1)
	err := v.ExecuteBytes(code, 0)
	if _, ok := err.(*BoundsError); !ok {
		t.Fatalf("expected *BoundsError, got %v (%T)", err, err)
	}
}
