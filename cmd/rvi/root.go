// Package rvi wires the cobra command tree for the rvi CLI: run an
// ELF executable directly, drive it interactively through the
// debugger, or dump its entry point and loadable segments.
package rvi

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/riscv-go/rvemu/config"
	"github.com/riscv-go/rvemu/debugger"
	"github.com/riscv-go/rvemu/loader"
	"github.com/riscv-go/rvemu/vm"
)

// Version information, overridable at build time with
// -ldflags "-X github.com/riscv-go/rvemu/cmd/rvi.Version=v1.2.3".
var (
	Version = "dev"
	Commit  = "unknown"
)

var (
	cfg        *config.Config
	maxCycles  uint64
	memorySize uint64
	entryFlag  string
	stackSize  uint64
	xlenFlag   int
	configPath string
	verbose    bool
	tuiMode    bool
	symbolsOut string
)

// Execute runs the rvi command tree, returning the exit code the
// caller should pass to os.Exit.
func Execute() int {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "rvi <executable>",
		Short:   "rvi runs and debugs RISC-V ELF executables",
		Version: Version,
		// A bare path runs the executable, as "rvi run <executable>" does.
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := prepareEngine(args[0])
			if err != nil {
				return err
			}
			return runToCompletion(engine, maxCycles)
		},
	}

	// --config is parsed out of os.Args by hand ahead of cobra's own
	// flag parsing, since it decides which file config.Load reads
	// before the command tree (and its flag defaults) is even built.
	configPath = earlyConfigFlag(os.Args[1:])

	var loaded *config.Config
	var err error
	if configPath != "" {
		loaded, err = config.LoadFrom(configPath)
	} else {
		loaded, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using defaults\n", err)
		loaded = config.DefaultConfig()
	}
	cfg = loaded

	root.PersistentFlags().Uint64Var(&maxCycles, "max-cycles", cfg.Execution.MaxCycles, "maximum cycles before halt")
	root.PersistentFlags().Uint64Var(&memorySize, "memory-size", cfg.Execution.MemorySize, "engine memory capacity in bytes")
	root.PersistentFlags().StringVar(&entryFlag, "entry", "", "override the ELF entry point (hex or decimal)")
	root.PersistentFlags().Uint64Var(&stackSize, "stack-size", cfg.Execution.StackSize, "stack region size in bytes, reserved below memory-size")
	root.PersistentFlags().IntVar(&xlenFlag, "xlen", 0, "override the register width in bits (32 or 64); default: inferred from the ELF class")
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "path to a TOML config file (default: the platform config directory)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print engine setup details before running")

	root.AddCommand(newRunCmd())
	root.AddCommand(newDebugCmd())
	root.AddCommand(newDumpSymbolsCmd())

	return root
}

// earlyConfigFlag scans args for "--config <path>" or "--config=<path>"
// ahead of cobra's own parsing, since the config file must be loaded
// before the persistent flags that carry its defaults are registered.
func earlyConfigFlag(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	return ""
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <executable>",
		Short: "run an ELF executable to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := prepareEngine(args[0])
			if err != nil {
				return err
			}
			return runToCompletion(engine, maxCycles)
		},
	}
}

func newDebugCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "debug <executable>",
		Short: "run an ELF executable under the interactive debugger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := prepareEngine(args[0])
			if err != nil {
				return err
			}
			dbg := debugger.NewDebugger(engine)
			if tuiMode {
				return debugger.RunTUI(dbg)
			}
			fmt.Println("rvi debugger — type 'help' for commands")
			return debugger.RunCLI(dbg)
		},
	}
	cmd.Flags().BoolVar(&tuiMode, "tui", false, "use the text user interface debugger")
	return cmd
}

func newDumpSymbolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump-symbols <executable>",
		Short: "print an ELF executable's loadable segments and entry point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0]) // #nosec G304 -- user-specified executable path
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			img, err := loader.Load(raw)
			if err != nil {
				return err
			}
			return dumpImage(img, symbolsOut)
		},
	}
	cmd.Flags().StringVar(&symbolsOut, "out", "", "output file (default: stdout)")
	return cmd
}

// prepareEngine loads an ELF executable into a fresh VM of the width
// the ELF class requires (or --xlen, if given) and returns it as a
// width-erased Engine, with the stack pointer (x2) initialized to a
// configurable address below the top of memory.
func prepareEngine(path string) (debugger.Inspectable, *loader.Image, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- user-specified executable path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	img, err := loader.Load(raw)
	if err != nil {
		return nil, nil, err
	}

	xlen := img.XLen
	if xlenFlag != 0 {
		if xlenFlag != 32 && xlenFlag != 64 {
			return nil, nil, fmt.Errorf("invalid --xlen %d: must be 32 or 64", xlenFlag)
		}
		xlen = xlenFlag
	}

	mem := vm.NewMemory(memorySize)

	stackTop, err := stackPointer(memorySize, stackSize)
	if err != nil {
		return nil, nil, err
	}

	var engine debugger.Inspectable
	if xlen == 64 {
		m := vm.NewVM64(mem)
		m.SetIntRegister(2, stackTop)
		engine = m
	} else {
		m := vm.NewVM32(mem)
		m.SetIntRegister(2, uint32(stackTop))
		engine = m
	}

	if err := img.PlaceInto(mem); err != nil {
		return nil, nil, err
	}

	entry := img.Entry
	if entryFlag != "" {
		entry, err = parseAddress(entryFlag)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --entry: %w", err)
		}
	}
	engine.SetPC(entry)

	if verbose {
		fmt.Fprintf(os.Stderr, "xlen=%d memory-size=0x%x stack-size=0x%x sp=0x%x entry=0x%x\n",
			xlen, memorySize, stackSize, stackTop, entry)
	}

	return engine, img, nil
}

// stackPointer reserves stackSize bytes at the top of a memorySize
// region and returns the initial stack pointer: 16 bytes below the
// top of memory, rounded down to a 16-byte boundary per the standard
// RISC-V calling convention. stackSize does not change that value; it
// only bounds how much of the top of memory the
// stack is permitted to claim; this engine has no segmentation to
// enforce the boundary against, so a too-large value is rejected up
// front instead.
func stackPointer(memorySize, stackSize uint64) (uint64, error) {
	if stackSize == 0 {
		stackSize = memorySize / 4
	}
	if stackSize > memorySize {
		return 0, fmt.Errorf("stack-size 0x%x exceeds memory-size 0x%x", stackSize, memorySize)
	}
	return (memorySize - 16) &^ 0xF, nil
}

func runToCompletion(engine debugger.Inspectable, limit uint64) error {
	for engine.Cycles() < limit {
		if err := engine.Step(); err != nil {
			return err
		}
	}
	return fmt.Errorf("cycle budget of %d exhausted at pc=0x%x", limit, engine.PC())
}

func parseAddress(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

func dumpImage(img *loader.Image, outPath string) error {
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath) // #nosec G304 -- user-specified output path
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	fmt.Fprintf(out, "entry:  0x%x\n", img.Entry)
	fmt.Fprintf(out, "xlen:   %d\n", img.XLen)
	fmt.Fprintf(out, "segments:\n")

	segs := append([]loader.Segment(nil), img.Segments...)
	sort.Slice(segs, func(i, j int) bool { return segs[i].PhysAddr < segs[j].PhysAddr })
	for _, seg := range segs {
		fmt.Fprintf(out, "  0x%-16x file=%-8d mem=%d\n", seg.PhysAddr, len(seg.Bytes), seg.MemSize)
	}
	return nil
}
