// version.go implements the 'dekker version' command.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/kolkov/dekker/dekker"
)

// versionCommand implements the 'dekker version' command.
//
// With -require, the command exits with status 1 unless this build is
// compatible with the required version.
//
// Example:
//
//	dekker version
//	dekker version -require v0.1.0
func versionCommand(args []string) {
	if err := printVersion(args, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printVersion writes the version line to stdout and checks -require.
func printVersion(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(stderr)
	require := fs.String("require", "", "fail unless compatible with this version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	info := dekker.GetInfo()
	fmt.Fprintf(stdout, "dekker version %s (%s, %d participants)\n",
		info.Version, info.Algorithm, info.Participants)

	if *require != "" && !dekker.Compatible(*require) {
		return fmt.Errorf("version %s does not satisfy %s", info.Version, *require)
	}
	return nil
}
