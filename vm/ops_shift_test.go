// ops_shift_test.go - shl/shr/sar carry and overflow-flag tests.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

import "testing"

func TestShiftApply_ShlCarriesOutTopBit(t *testing.T) {
	result, cf, of, ofDefined := shiftApply(shiftShl, 4, 0x80000000, 1)
	if result != 0 {
		t.Errorf("result: got 0x%08X, want 0", result)
	}
	if !cf {
		t.Error("expected CF set: bit shifted out was 1")
	}
	if !ofDefined || !of {
		// result 0, MSB is 0; CF is 1; OF = MSB(result) XOR CF = 1, so
		// OF should be true for a single-bit shl that flips sign.
		t.Error("expected OF defined and set for a count-1 shl that flips sign")
	}
}

func TestShiftApply_ShrSetsCFFromLastBitOut(t *testing.T) {
	result, cf, _, _ := shiftApply(shiftShr, 4, 0x01, 1)
	if result != 0 {
		t.Errorf("result: got %d, want 0", result)
	}
	if !cf {
		t.Error("expected CF set: bit 0 of 0x01 shifted out")
	}
}

func TestShiftApply_SarPreservesSign(t *testing.T) {
	result, _, _, _ := shiftApply(shiftSar, 4, 0x80000000, 4)
	if result != 0xF8000000 {
		t.Errorf("result: got 0x%08X, want 0xF8000000", result)
	}
}

func TestShiftApply_CountZeroIsNoOp(t *testing.T) {
	result, cf, of, ofDefined := shiftApply(shiftShl, 4, 0x1234, 0)
	if result != 0x1234 || cf || of || ofDefined {
		t.Error("count 0 must leave the value and all flags untouched")
	}
}

func TestDoShift_WritesBackAndSetsFlags(t *testing.T) {
	v := New(64)
	rm := regOperandIdx(EAX, 4)
	v.Regs.Write(EAX, 4, 1, false)
	if err := v.doShift(shiftShl, rm, 3); err != nil {
		t.Fatal(err)
	}
	if got := v.Regs.Read(EAX, 4, false); got != 8 {
		t.Errorf("EAX: got %d, want 8", got)
	}
}
