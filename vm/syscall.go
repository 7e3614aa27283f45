// syscall.go - the `int 0x80` gate: a Linux i386 ABI subset of exactly
// three syscalls (exit, read, write) against the VM's three byte
// streams.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package vm

const (
	sysExit  = 1
	sysRead  = 3
	sysWrite = 4
)

// syscall dispatches on EAX per the Linux i386 ABI subset this core
// implements. EBX/ECX/EDX carry arg1/2/3; the result, where one
// exists, is returned in EAX.
func (v *VM) syscall() error {
	nr := v.Regs.Read(EAX, 4, false)
	switch nr {
	case sysExit:
		v.halt(uint8(v.Regs.Read(EBX, 4, false)))
		return nil
	case sysRead:
		return v.sysRead()
	case sysWrite:
		return v.sysWrite()
	default:
		return &UnsupportedSyscallError{Number: nr, EIP: v.EIP}
	}
}

// sysRead reads up to EDX bytes from fd EBX into memory at ECX. Only
// fd 0 (Stdin) is readable; any other fd, a nil Stdin, or a host read
// that fails with no data returns -1 in EAX rather than a fatal error.
func (v *VM) sysRead() error {
	fd := v.Regs.Read(EBX, 4, false)
	bufAddr := v.Regs.Read(ECX, 4, false)
	count := v.Regs.Read(EDX, 4, false)

	if fd != 0 || v.Stdin == nil {
		v.Regs.Write(EAX, 4, ^uint32(0), false)
		return nil
	}

	buf := make([]byte, count)
	n, err := v.Stdin.Read(buf)
	if n > 0 {
		if werr := v.Mem.Set(bufAddr, buf[:n]); werr != nil {
			return withEIP(werr, v.EIP)
		}
	}
	if err != nil && n == 0 {
		v.Regs.Write(EAX, 4, ^uint32(0), false)
		return nil
	}
	v.Regs.Write(EAX, 4, uint32(n), false)
	return nil
}

func (v *VM) sysWrite() error {
	fd := v.Regs.Read(EBX, 4, false)
	bufAddr := v.Regs.Read(ECX, 4, false)
	count := v.Regs.Read(EDX, 4, false)

	var w interface {
		Write([]byte) (int, error)
	}
	switch fd {
	case 1:
		w = v.Stdout
	case 2:
		w = v.Stderr
	default:
		v.Regs.Write(EAX, 4, ^uint32(0), false)
		return nil
	}
	if w == nil {
		v.Regs.Write(EAX, 4, ^uint32(0), false)
		return nil
	}

	data, err := v.Mem.Get(bufAddr, int(count))
	if err != nil {
		return withEIP(err, v.EIP)
	}
	n, werr := w.Write(data)
	if werr != nil && n == 0 {
		v.Regs.Write(EAX, 4, ^uint32(0), false)
		return nil
	}
	v.Regs.Write(EAX, 4, uint32(n), false)
	return nil
}
