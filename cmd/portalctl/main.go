package main

import (
	"log"
	"os"
	"runtime/debug"

	"github.com/jrsteele09/go-portal-client/cli"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			os.Exit(2)
		}
	}()
	cli.Execute()
}
