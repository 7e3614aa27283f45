// ops_arith.go - add/adc/sub/sbb/cmp/inc/dec/neg/mul/imul/div/idiv and
// the sign/zero-extension opcodes cbw/cwde/cwd/cdq.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

// arithOp names the five add/sub-family operations that share a
// single flag computation (add/adc build a carry in, sub/sbb/cmp
// borrow one out; cmp discards its result).
type arithOp int

const (
	arithAdd arithOp = iota
	arithAdc
	arithSub
	arithSbb
	arithCmp
)

// arithApply performs dst := dst op src (or just computes flags, for
// cmp) and returns the result that was or would have been written.
func (v *VM) arithApply(op arithOp, dst Operand, src uint32) (uint32, error) {
	a, err := v.Read(dst)
	if err != nil {
		return 0, err
	}
	b := uint64(src)
	sub := op == arithSub || op == arithSbb || op == arithCmp
	if op == arithAdc && v.Regs.FlagGet(FlagCF) {
		b++
	}
	if op == arithSbb && v.Regs.FlagGet(FlagCF) {
		b++
	}
	var sum uint64
	if sub {
		sum = uint64(a) - b
	} else {
		sum = uint64(a) + b
	}
	result := v.Regs.applyArith(dst.width, uint64(a), b, sum, sub)
	if op == arithCmp {
		return a, nil
	}
	return result, v.Write(dst, result)
}

// opArithRMReg: op r/m, reg (e.g. 00/01 add, 28/29 sub, 38/39 cmp).
func opArithRMReg(op arithOp, width int) opcodeHandler {
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
		_, err = v.arithApply(op, rm, srcVal)
		return err
	}
}

// opArithRegRM: op reg, r/m (e.g. 02/03 add, 2A/2B sub, 3A/3B cmp).
func opArithRegRM(op arithOp, width int) opcodeHandler {
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
		_, err = v.arithApply(op, reg, srcVal)
		return err
	}
}

// opArithAccImm: op al/eax, imm (e.g. 04/05, 2C/2D, 3C/3D).
func opArithAccImm(op arithOp, width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		imm, err := v.fetchImm(width)
		if err != nil {
			return err
		}
		acc := regOperandIdx(EAX, width)
		_, err = v.arithApply(op, acc, imm)
		return err
	}
}

// opIncDecReg: the single-byte 40-47 (inc) / 48-4F (dec) short forms,
// which encode the register directly in the opcode (32-bit mode only).
func opIncDecReg(regBase byte, dec bool, width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		idx := int(opcode - regBase)
		return v.incDecOperand(regOperandIdx(idx, width), dec)
	}
}

func (v *VM) incDecOperand(op Operand, dec bool) error {
	a, err := v.Read(op)
	if err != nil {
		return err
	}
	var sum uint64
	var b uint64 = 1
	if dec {
		sum = uint64(a) - 1
	} else {
		sum = uint64(a) + 1
	}
	result := v.Regs.applyIncDec(op.width, uint64(a), b, sum, dec)
	return v.Write(op, result)
}

// doNeg implements Group 3 /3 (neg) against an already-decoded operand.
func (v *VM) doNeg(rm Operand) error {
	val, err := v.Read(rm)
	if err != nil {
		return err
	}
	result := v.Regs.applyNeg(rm.width, uint64(val))
	return v.Write(rm, result)
}

// mulResultSink returns the setters mul/imul-single write their wide
// result through: 8-bit writes AX as one register, 16/32-bit split
// across DX:AX/EDX:EAX.
func (v *VM) mulResultSink(width int) (setLo, setHi func(uint32)) {
	if width == 1 {
		return func(lo uint32) { v.Regs.Write(EAX, 2, lo, false) }, func(uint32) {}
	}
	return func(lo uint32) { v.Regs.Write(EAX, width, lo, false) },
		func(hi uint32) { v.Regs.Write(EDX, width, hi, false) }
}

// doMul implements Group 3 /4 (mul) — unsigned al*r/m->ax, ax*r/m->
// dx:ax, or eax*r/m->edx:eax, with CF=OF=1 iff the upper half is
// non-zero.
func (v *VM) doMul(rm Operand) error {
	width := rm.width
	src, err := v.Read(rm)
	if err != nil {
		return err
	}
	a := v.Regs.Read(EAX, width, false)
	product := uint64(a) * uint64(src)
	if width == 1 {
		setLo, _ := v.mulResultSink(width)
		setLo(uint32(product) & 0xFFFF)
		overflow := (product >> 8) != 0
		v.Regs.FlagSet(FlagCF, overflow)
		v.Regs.FlagSet(FlagOF, overflow)
		return nil
	}
	lo, hi := splitProduct(product, width)
	setLo, setHi := v.mulResultSink(width)
	setLo(lo)
	setHi(hi)
	overflow := hi != 0
	v.Regs.FlagSet(FlagCF, overflow)
	v.Regs.FlagSet(FlagOF, overflow)
	return nil
}

// doImulSingle implements Group 3 /5 (imul) — signed single-operand form.
func (v *VM) doImulSingle(rm Operand) error {
	width := rm.width
	src, err := v.Read(rm)
	if err != nil {
		return err
	}
	a := v.Regs.Read(EAX, width, false)
	product := int64(signedValue(a, width)) * int64(signedValue(src, width))
	if width == 1 {
		result := uint16(product)
		setLo, _ := v.mulResultSink(width)
		setLo(uint32(result))
		signExt := int64(int16(result))
		overflow := product != signExt
		v.Regs.FlagSet(FlagCF, overflow)
		v.Regs.FlagSet(FlagOF, overflow)
		return nil
	}
	lo, hi := splitProduct(uint64(product), width)
	setLo, setHi := v.mulResultSink(width)
	setLo(lo)
	setHi(hi)
	overflow := int64(signedValue(lo, width)) != product
	v.Regs.FlagSet(FlagCF, overflow)
	v.Regs.FlagSet(FlagOF, overflow)
	return nil
}

// opImulRegRM: imul reg, r/m (0F AF) — signed two-operand form.
func opImulRegRM(width int) opcodeHandler {
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
		a, err := v.Read(reg)
		if err != nil {
			return err
		}
		b, err := v.Read(rm)
		if err != nil {
			return err
		}
		product := int64(signedValue(a, width)) * int64(signedValue(b, width))
		truncated := uint32(product) & uint32(maskFor(width))
		overflow := int64(signedValue(truncated, width)) != product
		v.Regs.FlagSet(FlagCF, overflow)
		v.Regs.FlagSet(FlagOF, overflow)
		return v.Write(reg, truncated)
	}
}

// opImulRegRMImm: imul reg, r/m, imm (0x69 Iz, 0x6B Ib) — signed
// three-operand form. immWidth is the encoded immediate width (1 for
// 0x6B, sign-extended; width for 0x69); when signExtendImm is set the
// fetched imm8 is sign-extended here before the product is taken, so
// both forms share the two-operand form's overflow check in
// opImulRegRM.
func opImulRegRMImm(width, immWidth int, signExtendImm bool) opcodeHandler {
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
		b, err := v.Read(rm)
		if err != nil {
			return err
		}
		imm, err := v.fetchImm(immWidth)
		if err != nil {
			return err
		}
		if signExtendImm {
			imm = signExtend(imm, immWidth)
		}
		product := int64(signedValue(b, width)) * int64(signedValue(imm, width))
		truncated := uint32(product) & uint32(maskFor(width))
		overflow := int64(signedValue(truncated, width)) != product
		v.Regs.FlagSet(FlagCF, overflow)
		v.Regs.FlagSet(FlagOF, overflow)
		return v.Write(reg, truncated)
	}
}

func signedValue(v uint32, width int) int32 {
	switch width {
	case 1:
		return int32(int8(v))
	case 2:
		return int32(int16(v))
	default:
		return int32(v)
	}
}

func splitProduct(product uint64, width int) (lo, hi uint32) {
	mask := maskFor(width)
	lo = uint32(product & mask)
	hi = uint32((product >> uint(width*8)) & mask)
	return
}

// divDividend returns the (dividend, write-quotient, write-remainder)
// triple for a div/idiv of the given width. The 8-bit form takes its
// dividend from AX and writes AL/AH; the 16/32-bit forms take it from
// DX:AX/EDX:EAX and write AX/DX or EAX/EDX.
func (v *VM) divDividend(width int) (dividend uint64, setQuot, setRem func(uint32)) {
	if width == 1 {
		ax := v.Regs.Read(EAX, 2, false)
		return uint64(ax),
			func(q uint32) { v.Regs.Write(EAX, 1, q, false) },
			func(r uint32) { v.Regs.Write(EAX, 1, r, true) }
	}
	lo := uint64(v.Regs.Read(EAX, width, false))
	hi := uint64(v.Regs.Read(EDX, width, false))
	return (hi << uint(width*8)) | lo,
		func(q uint32) { v.Regs.Write(EAX, width, q, false) },
		func(r uint32) { v.Regs.Write(EDX, width, r, false) }
}

// doDiv implements Group 3 /6 (div) — unsigned division.
func (v *VM) doDiv(rm Operand) error {
	width := rm.width
	divisor, err := v.Read(rm)
	if err != nil {
		return err
	}
	if divisor == 0 {
		return &DivideError{EIP: v.EIP}
	}
	dividend, setQuot, setRem := v.divDividend(width)
	quot := dividend / uint64(divisor)
	rem := dividend % uint64(divisor)
	if quot > maskFor(width) {
		return &DivideError{EIP: v.EIP}
	}
	setQuot(uint32(quot))
	setRem(uint32(rem))
	return nil
}

// doIdiv implements Group 3 /7 (idiv) — signed division, same
// register layout as div.
func (v *VM) doIdiv(rm Operand) error {
	width := rm.width
	divisor, err := v.Read(rm)
	if err != nil {
		return err
	}
	if divisor == 0 {
		return &DivideError{EIP: v.EIP}
	}
	dividendU, setQuot, setRem := v.divDividend(width)
	dividend := int64(dividendU)
	if width < 4 {
		shift := uint(64 - width*16)
		dividend = dividend << shift >> shift
	}
	div := int64(signedValue(divisor, width))
	quot := dividend / div
	rem := dividend % div
	if int64(signedValue(uint32(quot), width)) != quot {
		return &DivideError{EIP: v.EIP}
	}
	setQuot(uint32(quot) & uint32(maskFor(width)))
	setRem(uint32(rem) & uint32(maskFor(width)))
	return nil
}

// opCbwCwde: cbw (AL->AX) or cwde (AX->EAX), sign-extending the
// accumulator into its next-widest view.
func opCbwCwde(dstWidth, srcWidth int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		val := v.Regs.Read(EAX, srcWidth, false)
		v.Regs.Write(EAX, dstWidth, signExtend(val, srcWidth), false)
		return nil
	}
}

// opCwdCdq: cwd (AX->DX:AX) or cdq (EAX->EDX:EAX), sign-extending the
// accumulator's sign bit across EDX/DX.
func opCwdCdq(width int) opcodeHandler {
	return func(v *VM, opcode byte) error {
		val := v.Regs.Read(EAX, width, false)
		if signedValue(val, width) < 0 {
			v.Regs.Write(EDX, width, uint32(maskFor(width)), false)
		} else {
			v.Regs.Write(EDX, width, 0, false)
		}
		return nil
	}
}
