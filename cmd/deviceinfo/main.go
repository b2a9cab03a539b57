// Package main is the entry point of the deviceinfo CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/deviceinfo/cmd"
)

func main() {
	err := cmd.Execute()
	cmd.Shutdown()
	if err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
