package main

import (
	"fmt"
	"os"

	"github.com/samuelfneumann/goalnav/commands"
)

func main() {
	rootCommand := commands.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
