// ops_arith_test.go - mul/imul/div/idiv register-convention tests,
// including the 8-bit AX-only special case.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

import "testing"

func TestDoMul_EightBitUsesAX(t *testing.T) {
	v := New(64)
	v.Regs.Write(EAX, 1, 0x10, false) // AL = 16
	rm := regOperandIdx(ECX, 1)
	v.Regs.Write(ECX, 1, 0x10, false) // CL = 16
	if err := v.doMul(rm); err != nil {
		t.Fatal(err)
	}
	if got := v.Regs.Read(EAX, 2, false); got != 0x100 {
		t.Errorf("AX: got 0x%04X, want 0x0100", got)
	}
	if !v.Regs.FlagGet(FlagCF) {
		t.Error("expected CF set: product 0x100 does not fit in AL")
	}
}

func TestDoMul_EightBitOverflowSetsCF(t *testing.T) {
	v := New(64)
	v.Regs.Write(EAX, 1, 0xFF, false)
	rm := regOperandIdx(ECX, 1)
	v.Regs.Write(ECX, 1, 0x02, false)
	if err := v.doMul(rm); err != nil {
		t.Fatal(err)
	}
	if got := v.Regs.Read(EAX, 2, false); got != 0x1FE {
		t.Errorf("AX: got 0x%04X, want 0x01FE", got)
	}
	if !v.Regs.FlagGet(FlagCF) {
		t.Error("expected CF set: product overflows AL")
	}
}

func TestDoDiv_ThirtyTwoBitSplitsEdxEax(t *testing.T) {
	v := New(64)
	v.Regs.Write(EAX, 4, 100, false)
	v.Regs.Write(EDX, 4, 0, false)
	rm := regOperandIdx(ECX, 4)
	v.Regs.Write(ECX, 4, 7, false)
	if err := v.doDiv(rm); err != nil {
		t.Fatal(err)
	}
	if got := v.Regs.Read(EAX, 4, false); got != 14 {
		t.Errorf("quotient: got %d, want 14", got)
	}
	if got := v.Regs.Read(EDX, 4, false); got != 2 {
		t.Errorf("remainder: got %d, want 2", got)
	}
}

func TestDoDiv_EightBitUsesAX(t *testing.T) {
	v := New(64)
	v.Regs.Write(EAX, 2, 100, false) // AX = 100
	rm := regOperandIdx(ECX, 1)
	v.Regs.Write(ECX, 1, 7, false)
	if err := v.doDiv(rm); err != nil {
		t.Fatal(err)
	}
	if got := v.Regs.Read(EAX, 1, false); got != 14 {
		t.Errorf("AL (quotient): got %d, want 14", got)
	}
	if got := v.Regs.Read(EAX, 1, true); got != 2 {
		t.Errorf("AH (remainder): got %d, want 2", got)
	}
}

func TestDoDiv_ByZeroIsFatal(t *testing.T) {
	v := New(64)
	v.Regs.Write(EAX, 4, 10, false)
	rm := regOperandIdx(ECX, 4)
	v.Regs.Write(ECX, 4, 0, false)
	err := v.doDiv(rm)
	if _, ok := err.(*DivideError); !ok {
		t.Fatalf("expected *DivideError, got %v (%T)", err, err)
	}
}

func TestDoIdiv_SignedDivision(t *testing.T) {
	v := New(64)
	v.Regs.Write(EAX, 4, 0xFFFFFF9C, false) // -100
	v.Regs.Write(EDX, 4, 0xFFFFFFFF, false) // sign-extend EDX for negative EAX
	rm := regOperandIdx(ECX, 4)
	v.Regs.Write(ECX, 4, 7, false)
	if err := v.doIdiv(rm); err != nil {
		t.Fatal(err)
	}
	if got := int32(v.Regs.Read(EAX, 4, false)); got != -14 {
		t.Errorf("quotient: got %d, want -14", got)
	}
	if got := int32(v.Regs.Read(EDX, 4, false)); got != -2 {
		t.Errorf("remainder: got %d, want -2", got)
	}
}

func TestDoNeg(t *testing.T) {
	v := New(64)
	rm := regOperandIdx(EAX, 4)
	v.Regs.Write(EAX, 4, 5, false)
	if err := v.doNeg(rm); err != nil {
		t.Fatal(err)
	}
	if got := v.Regs.Read(EAX, 4, false); got != 0xFFFFFFFB {
		t.Errorf("EAX: got 0x%08X, want 0xFFFFFFFB (-5)", got)
	}
	if !v.Regs.FlagGet(FlagCF) {
		t.Error("expected CF set: neg of a non-zero value always sets CF")
	}
}

func TestDoNeg_Zero(t *testing.T) {
	v := New(64)
	rm := regOperandIdx(EAX, 4)
	if err := v.doNeg(rm); err != nil {
		t.Fatal(err)
	}
	if v.Regs.FlagGet(FlagCF) {
		t.Error("expected CF clear: neg of 0 is 0")
	}
}
