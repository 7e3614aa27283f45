// flags_test.go - EFLAGS computation tests for arithmetic, logic, and
// shift operations.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

import "testing"

func TestApplyArith_Add(t *testing.T) {
	r := &Registers{}
	a, b := uint64(0xFFFFFFFF), uint64(1)
	res := r.applyArith(4, a, b, a+b, false)
	if res != 0 {
		t.Errorf("result: got 0x%08X, want 0", res)
	}
	if !r.FlagGet(FlagCF) {
		t.Error("expected CF set on unsigned overflow")
	}
	if !r.FlagGet(FlagZF) {
		t.Error("expected ZF set on zero result")
	}
	if r.FlagGet(FlagOF) {
		t.Error("expected OF clear (no signed overflow for this case)")
	}
}

func TestApplyArith_SignedOverflow(t *testing.T) {
	r := &Registers{}
	a, b := uint64(0x7FFFFFFF), uint64(1)
	r.applyArith(4, a, b, a+b, false)
	if !r.FlagGet(FlagOF) {
		t.Error("expected OF set: 0x7FFFFFFF+1 overflows signed 32-bit")
	}
	if !r.FlagGet(FlagSF) {
		t.Error("expected SF set: result is 0x80000000")
	}
}

func TestApplyArith_Sub(t *testing.T) {
	r := &Registers{}
	a, b := uint64(5), uint64(10)
	sum := a - b
	r.applyArith(4, a, b, sum, true)
	if !r.FlagGet(FlagCF) {
		t.Error("expected CF (borrow) set: 5 < 10")
	}
	if !r.FlagGet(FlagSF) {
		t.Error("expected SF set: result is negative")
	}
}

func TestApplyLogic(t *testing.T) {
	r := &Registers{}
	r.FlagSet(FlagCF, true)
	r.FlagSet(FlagOF, true)
	res := r.applyLogic(4, 0)
	if res != 0 {
		t.Errorf("result: got %d, want 0", res)
	}
	if r.FlagGet(FlagCF) || r.FlagGet(FlagOF) {
		t.Error("expected CF and OF cleared by a logic op")
	}
	if !r.FlagGet(FlagZF) {
		t.Error("expected ZF set on zero result")
	}
}

func TestApplyIncDec_PreservesCF(t *testing.T) {
	r := &Registers{}
	r.FlagSet(FlagCF, true)
	r.applyIncDec(4, 0xFFFFFFFF, 1, 0x100000000, false)
	if !r.FlagGet(FlagCF) {
		t.Error("inc must not clear a pre-existing CF")
	}
	if !r.FlagGet(FlagZF) {
		t.Error("expected ZF set: 0xFFFFFFFF+1 wraps to 0")
	}
}

func TestApplyShift_ZeroCountLeavesFlags(t *testing.T) {
	r := &Registers{}
	r.FlagSet(FlagZF, true)
	r.applyShift(4, 0, 0, true, true, true)
	if !r.FlagGet(FlagZF) {
		t.Error("shift by 0 must not touch any flag")
	}
}

func TestApplyShift_SetsCFAndOF(t *testing.T) {
	r := &Registers{}
	r.applyShift(4, 0x80000000, 1, true, true, true)
	if !r.FlagGet(FlagCF) || !r.FlagGet(FlagOF) {
		t.Error("expected CF and OF set when explicitly requested for count==1")
	}
	if !r.FlagGet(FlagSF) {
		t.Error("expected SF set: result's top bit is 1")
	}
}

func TestParity(t *testing.T) {
	cases := []struct {
		v    byte
		even bool
	}{
		{0x00, true},
		{0x01, false},
		{0x03, true},
		{0xFF, true},
	}
	for _, c := range cases {
		if got := parity(c.v); got != c.even {
			t.Errorf("parity(0x%02X): got %v, want %v", c.v, got, c.even)
		}
	}
}
