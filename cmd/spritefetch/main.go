package main

import (
	"fmt"
	"os"

	"github.com/ligustah/spritefetch/internal/logger"
)

// Exit codes
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitInvalidArgs      = 2
	ExitInputError       = 3
	ExitStorageError     = 4
	ExitPartialFailure   = 5
	ExitValidationFailed = 6
)

func main() {
	logger.Configure()
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "sequential", "pool", "async":
		return runFetch(command, cmdArgs)
	case "validate":
		return runValidate(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: spritefetch <command> [options] output_dir input...

Commands:
  sequential  Fetch sprites one at a time
  pool        Fetch sprites with a fixed pool of workers
  async       Fetch sprites with one goroutine per record
  validate    Check that every sprite of the inputs exists in output_dir

Inputs are .csv, .yaml, .json or .html metadata files.

Run 'spritefetch <command> -h' for command-specific help.`)
}
