// Command rxsim runs marble scenarios, described in YAML, on virtual time.
package main

import (
	"fmt"
	"os"

	"github.com/joeycumines/go-reactive/internal/rxsim"
)

func main() {
	if err := rxsim.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
