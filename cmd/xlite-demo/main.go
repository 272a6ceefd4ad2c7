// Command xlite-demo builds a small student registry with handbook tables,
// then prints a join and a few lookups.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
