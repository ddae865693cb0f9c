// Package main implements the dekker CLI tool.
//
// The dekker tool exercises the two-party lock from the command line. Two
// goroutines, one per handle, increment a shared counter and the tool checks
// that no update was lost. With auditing on, every run is also checked by
// the happens-before detector.
//
// Usage:
//
//	dekker count -n 100000        # Two participants, 100000 increments each
//	dekker count -runs 50 -audit  # Repeat 50 times with the detector attached
//	dekker version                # Show version information
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "count":
		countCommand(os.Args[2:])
	case "version", "--version", "-v":
		versionCommand(os.Args[2:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`dekker - Dekker's two-party mutual exclusion

USAGE:
    dekker <command> [arguments]

COMMANDS:
    count      Run two participants incrementing a shared counter
    version    Show version information
    help       Show this help message

EXAMPLES:
    # One run, 1000 increments per participant
    dekker count

    # Stress the lock
    dekker count -n 1000000 -runs 20

    # Audit every run with the happens-before detector
    dekker count -runs 10 -audit
    DEKKER_AUDIT=1 dekker count -runs 10

    # Check that this build satisfies a version requirement
    dekker version -require v0.1

ABOUT:
    The lock is built from two intent flags and a turn variable, using only
    atomic loads and stores. Each run hands one lock handle to each of two
    goroutines; the final counter must be exactly twice the iteration count.

    On a machine with a single CPU, pass -yield so a spinning participant
    gives up its time slice instead of waiting for preemption.

`)
}
