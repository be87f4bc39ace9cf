// The main package for the issuecap executable.
package main

import (
	"github.com/issuecap/issuecap/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
