package main

import (
	"errors"
	"fmt"
	"os"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "eval":
		err = evalCommand(args)
	case "bench":
		err = benchCommand(args)
	case "version", "--version", "-v":
		fmt.Printf("memoq %s\n", version)
		return
	case "help", "--help", "-h":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			if exitErr.Error() != "" {
				fmt.Fprintln(os.Stderr, exitErr.Error())
			}
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`memoq - memoization cache demo

Usage:
  memoq eval [-maxsize N] [-typed] [-trace] EXPR...
      Evaluate arithmetic expressions; repeated expressions are served
      from the cache. -trace emits OpenTelemetry output to stdout.

  memoq bench [-maxsize N] [-n N] [-workers N] [-keys N]
      Hammer the cache concurrently with a skewed key mix and report
      throughput and hit ratio.

  memoq version
  memoq help`)
}
