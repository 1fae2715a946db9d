// The memrepo command queries static record sources from the command
// line: point it at a config file mapping identifiers to data files and
// run query, get, or count against them.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
