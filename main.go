// Command rvi is a RISC-V instruction-level interpreter: it runs ELF
// executables directly or under an interactive debugger.
package main

import (
	"os"

	"github.com/riscv-go/rvemu/cmd/rvi"
)

// Version information, overridable at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	rvi.Version = Version
	rvi.Commit = Commit
	os.Exit(rvi.Execute())
}
