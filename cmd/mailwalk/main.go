package main

import (
	"fmt"
	"os"

	"github.com/zostay/mailwalk/cmd/mailwalk/cmd"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mailwalk: error: %v\n", err)
	}
	os.Exit(cmd.ExitCode(err))
}
