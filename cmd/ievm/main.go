// main.go - ievm: a cobra-driven CLI that feeds flat IA-32 binary
// images into the vm package's interpreter core. Peripheral to the
// core by design (spec section 1): loading, tracing, and static
// disassembly all live here, never inside the vm package itself.
//
// (c) 2024-2026 Zayn Otley - GPLv3 or later

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/intuitionamiga/ie-x86vm/debug"
	"github.com/intuitionamiga/ie-x86vm/vm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ievm",
		Short: "ievm — a user-mode IA-32 interpreter for flat binary images",
	}

	var memSize int
	var loadOffset uint32
	var interactive bool

	runCmd := &cobra.Command{
		Use:   "run [binary]",
		Short: "Load a flat binary image and run it to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0], memSize, loadOffset, interactive, false)
		},
	}
	runCmd.Flags().IntVar(&memSize, "mem", 1<<20, "VM memory size in bytes")
	runCmd.Flags().Uint32Var(&loadOffset, "offset", 0, "load offset for the image")
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "forward raw stdin into int 0x80 read syscalls")

	var traceMem int
	var traceOffset uint32
	traceCmd := &cobra.Command{
		Use:   "trace [binary]",
		Short: "Run a flat binary image, printing one disassembled line per instruction to stderr",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(args[0], traceMem, traceOffset, false, true)
		},
	}
	traceCmd.Flags().IntVar(&traceMem, "mem", 1<<20, "VM memory size in bytes")
	traceCmd.Flags().Uint32Var(&traceOffset, "offset", 0, "load offset for the image")

	var disasmOffset uint32
	var disasmCount int
	disasmCmd := &cobra.Command{
		Use:   "disasm [binary]",
		Short: "Statically disassemble a flat binary image without executing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return disasmFile(args[0], disasmOffset, disasmCount)
		},
	}
	disasmCmd.Flags().Uint32Var(&disasmOffset, "offset", 0, "base address to assign the first byte")
	disasmCmd.Flags().IntVar(&disasmCount, "count", 0, "number of instructions to print (0 = until end of file)")

	rootCmd.AddCommand(runCmd, traceCmd, disasmCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ievm:", err)
		os.Exit(1)
	}
}

// runFile loads path into a fresh VM and runs it to halt or fatal
// error, reporting the exit code or diagnostic the same way the
// teacher's debug_cpu_x86.go reports a halted core.
func runFile(path string, memSize int, offset uint32, interactive, trace bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var opts []vm.Option
	var shell *Shell
	if interactive {
		shell = NewShell()
		if err := shell.Start(); err != nil {
			return err
		}
		defer shell.Stop()
		opts = append(opts, vm.WithStdin(shell))
	}
	if trace {
		opts = append(opts, vm.WithDebug(func(m *vm.VM, eip uint32, prefix, primary, secondary byte) {
			raw, rerr := m.Mem.Get(0, m.Mem.Size())
			if rerr != nil {
				return
			}
			fmt.Fprintln(os.Stderr, debug.TraceLine(raw, eip, false))
		}))
	}

	m := vm.New(memSize, opts...)
	err = m.ExecuteBytes(data, offset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ievm: fatal: %v\n", err)
		os.Exit(1)
	}
	os.Exit(int(m.ExitCode))
	return nil
}

// disasmFile prints a static listing without executing anything — the
// `disasm` subcommand never touches the vm package at all.
func disasmFile(path string, offset uint32, count int) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if count <= 0 {
		count = len(data)
	}
	for _, l := range debug.Disassemble(data, offset, count) {
		fmt.Printf("%08X:  %-24s %s\n", l.Addr, l.Bytes, l.Mnemonic)
	}
	return nil
}
