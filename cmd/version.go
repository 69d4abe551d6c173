package cmd

import (
	"flag"
	"fmt"

	"github.com/diillson/gperf2flame/version"
)

// RunVersion executes the 'gperf2flame version' subcommand.
func RunVersion(args []string) error {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	checkLatest := fs.Bool("check-latest", false, "Check GitHub for a newer release")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Print(version.FormatVersionInfo(version.GetCurrentVersion(), *checkLatest))
	return nil
}
