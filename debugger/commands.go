package debugger

import (
	"fmt"
	"strconv"
)

// Command handler implementations, dispatched from handleCommand.
// Scaled down to this engine's command set: no
// watch/rwatch/awatch, no print/set expression evaluator, no
// backtrace/list/load (no call-stack convention or source map in this
// engine), no separate run/next/finish (single-hart stepping only).

// cmdContinue runs the engine until a breakpoint, single step, or
// fault, with no cycle ceiling beyond the engine's own.
func (d *Debugger) cmdContinue(args []string) error {
	return d.Run(^uint64(0))
}

// cmdStep executes one instruction, or the count given as args[0].
func (d *Debugger) cmdStep(args []string) error {
	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid step count: %s", args[0])
		}
		count = n
	}
	for i := 0; i < count; i++ {
		if err := d.Engine.Step(); err != nil {
			return err
		}
	}
	d.Printf("pc=0x%x\n", d.Engine.PC())
	return nil
}

// cmdBreak sets a breakpoint at an address.
func (d *Debugger) cmdBreak(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: break <address>")
	}
	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	bp := d.Breakpoints.AddBreakpoint(address, false)
	d.Printf("breakpoint %d at 0x%x\n", bp.ID, bp.Address)
	return nil
}

// cmdDelete deletes a breakpoint by ID, or all breakpoints if no ID
// is given.
func (d *Debugger) cmdDelete(args []string) error {
	if len(args) == 0 {
		d.Breakpoints.Clear()
		d.Printf("all breakpoints deleted\n")
		return nil
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	if err := d.Breakpoints.DeleteBreakpoint(id); err != nil {
		return err
	}
	d.Printf("breakpoint %d deleted\n", id)
	return nil
}

func (d *Debugger) cmdEnable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: enable <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	if err := d.Breakpoints.EnableBreakpoint(id); err != nil {
		return err
	}
	d.Printf("breakpoint %d enabled\n", id)
	return nil
}

func (d *Debugger) cmdDisable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: disable <id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid breakpoint id: %s", args[0])
	}
	if err := d.Breakpoints.DisableBreakpoint(id); err != nil {
		return err
	}
	d.Printf("breakpoint %d disabled\n", id)
	return nil
}

// cmdPrint prints an integer register's value. Accepts "x5" or "5".
func (d *Debugger) cmdPrint(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: print x<n>")
	}
	idx, err := parseRegisterIndex(args[0])
	if err != nil {
		return err
	}
	d.Printf("x%d = 0x%x\n", idx, d.Engine.IntRegisterValue(idx))
	return nil
}

// cmdExamine dumps count 32-bit words of memory starting at an
// address.
func (d *Debugger) cmdExamine(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: x <address> [count]")
	}
	address, err := d.ResolveAddress(args[0])
	if err != nil {
		return err
	}
	count := uint64(1)
	if len(args) > 1 {
		n, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid count: %s", args[1])
		}
		count = n
	}
	for i := uint64(0); i < count; i++ {
		addr := address + i*4
		value, err := d.Engine.Memory().ReadWord(addr)
		if err != nil {
			return err
		}
		d.Printf("0x%08x: 0x%08x\n", addr, value)
	}
	return nil
}

// cmdInfo displays information about program state.
func (d *Debugger) cmdInfo(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: info <registers|breakpoints>")
	}
	switch args[0] {
	case "registers", "reg", "r":
		return d.showRegisters()
	case "breakpoints", "break", "b":
		return d.showBreakpoints()
	default:
		return fmt.Errorf("unknown info command: %s", args[0])
	}
}

// showRegisters displays all integer register values plus the PC.
func (d *Debugger) showRegisters() error {
	d.Printf("registers:\n")
	for i := 0; i < 32; i++ {
		d.Printf("  x%-2d = 0x%016x\n", i, d.Engine.IntRegisterValue(i))
	}
	d.Printf("  pc  = 0x%016x\n", d.Engine.PC())
	return nil
}

// showBreakpoints displays all breakpoints.
func (d *Debugger) showBreakpoints() error {
	breakpoints := d.Breakpoints.GetAllBreakpoints()
	if len(breakpoints) == 0 {
		d.Printf("no breakpoints\n")
		return nil
	}
	for _, bp := range breakpoints {
		status := "enabled"
		if !bp.Enabled {
			status = "disabled"
		}
		d.Printf("  %d: 0x%x %s (hit %d times)\n", bp.ID, bp.Address, status, bp.HitCount)
	}
	return nil
}

// cmdHelp displays the list of available commands.
func (d *Debugger) cmdHelp(args []string) error {
	d.Printf(`available commands:
  continue, c              run until breakpoint or fault
  step, s, si [n]          execute n instructions (default 1)
  break, b <addr>          set a breakpoint
  delete, d [id]           delete breakpoint id, or all if omitted
  enable/disable <id>      toggle a breakpoint
  print, p x<n>            print an integer register
  x <addr> [count]         dump memory words starting at addr
  info registers|breakpoints
  help, h, ?
`)
	return nil
}

// parseRegisterIndex accepts "x5" or "5" and returns 5.
func parseRegisterIndex(s string) (int, error) {
	if len(s) > 1 && (s[0] == 'x' || s[0] == 'X') {
		s = s[1:]
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 || n > 31 {
		return 0, fmt.Errorf("invalid register: %s", s)
	}
	return n, nil
}
