// Command pyverinfo shows details about CPython and PyPy versions.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pyverinfo: %v\n", err)
		os.Exit(1)
	}
}
