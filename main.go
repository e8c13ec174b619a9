// The main package for the webindex executable.
package main

import (
	"github.com/webindex/webindex/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
