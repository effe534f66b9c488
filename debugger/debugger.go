package debugger

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/riscv-go/rvemu/vm"
)

// Inspectable is the surface a debugger session drives the engine
// through — the width-erased vm.Engine plus the handful of accessors
// needed for register/CSR inspection, implemented by vm.VM[W].
type Inspectable interface {
	vm.Engine
	IntRegisterValue(i int) uint64
	CSRValue(addr uint16) uint64
}

// Debugger holds one interactive debugging session's state: the
// engine it drives, breakpoints, step mode, and command history.
// Scaled
// down to this engine's single-hart step model — no watchpoints, no
// expression evaluator, no step-over/step-out call-depth tracking
// (spec.md has no call-stack convention to detect).
type Debugger struct {
	Engine Inspectable

	Breakpoints *BreakpointManager
	History     *CommandHistory

	Running     bool
	StepMode    StepMode
	LastCommand string

	Output strings.Builder
}

// StepMode is the current single-step disposition.
type StepMode int

const (
	StepNone StepMode = iota
	StepSingle
)

// NewDebugger creates a debugger session driving engine.
func NewDebugger(engine Inspectable) *Debugger {
	return &Debugger{
		Engine:      engine,
		Breakpoints: NewBreakpointManager(),
		History:     NewCommandHistory(),
	}
}

// ResolveAddress parses a decimal or 0x-prefixed hexadecimal address.
func (d *Debugger) ResolveAddress(addrStr string) (uint64, error) {
	addrStr = strings.TrimSpace(addrStr)
	base := 10
	if strings.HasPrefix(addrStr, "0x") || strings.HasPrefix(addrStr, "0X") {
		addrStr = addrStr[2:]
		base = 16
	}
	addr, err := strconv.ParseUint(addrStr, base, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid address: %s", addrStr)
	}
	return addr, nil
}

// ExecuteCommand parses and runs one command line. An empty line
// repeats the previous command, gdb-style.
func (d *Debugger) ExecuteCommand(cmdLine string) error {
	cmdLine = strings.TrimSpace(cmdLine)
	if cmdLine == "" {
		cmdLine = d.LastCommand
	}
	if cmdLine != "" {
		d.History.Add(cmdLine)
		d.LastCommand = cmdLine
	}

	parts := strings.Fields(cmdLine)
	if len(parts) == 0 {
		return nil
	}
	return d.handleCommand(strings.ToLower(parts[0]), parts[1:])
}

func (d *Debugger) handleCommand(cmd string, args []string) error {
	switch cmd {
	case "continue", "c":
		return d.cmdContinue(args)
	case "step", "s", "si":
		return d.cmdStep(args)
	case "break", "b":
		return d.cmdBreak(args)
	case "delete", "d":
		return d.cmdDelete(args)
	case "enable":
		return d.cmdEnable(args)
	case "disable":
		return d.cmdDisable(args)
	case "print", "p":
		return d.cmdPrint(args)
	case "x":
		return d.cmdExamine(args)
	case "info", "i":
		return d.cmdInfo(args)
	case "help", "h", "?":
		return d.cmdHelp(args)
	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", cmd)
	}
}

// ShouldBreak reports whether execution should pause at the engine's
// current PC, either because a single step was requested or because
// an enabled breakpoint sits there.
func (d *Debugger) ShouldBreak() (bool, string) {
	pc := d.Engine.PC()

	if d.StepMode == StepSingle {
		d.StepMode = StepNone
		return true, "single step"
	}

	if bp := d.Breakpoints.ProcessHit(pc); bp != nil {
		return true, fmt.Sprintf("breakpoint %d", bp.ID)
	}

	return false, ""
}

// Run steps the engine until ShouldBreak fires or the engine faults,
// honoring an overall cycle budget (spec.md §5's "external step
// budget" escape hatch).
func (d *Debugger) Run(maxCycles uint64) error {
	d.Running = true
	defer func() { d.Running = false }()

	for d.Engine.Cycles() < maxCycles {
		if err := d.Engine.Step(); err != nil {
			return err
		}
		if stop, reason := d.ShouldBreak(); stop {
			d.Printf("stopped: %s at pc=0x%x\n", reason, d.Engine.PC())
			return nil
		}
	}
	return fmt.Errorf("cycle budget of %d exhausted", maxCycles)
}

func (d *Debugger) GetOutput() string {
	output := d.Output.String()
	d.Output.Reset()
	return output
}

func (d *Debugger) Printf(format string, args ...interface{}) {
	d.Output.WriteString(fmt.Sprintf(format, args...))
}
