// main is the entry point for the skillspot CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/skillspot/cmd"
)

func main() {
	err := cmd.Execute()
	cmd.Close()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
