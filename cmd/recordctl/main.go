package main

import (
	"fmt"
	"os"

	"github.com/noah-isme/student-records-api/pkg/config"
)

func main() {
	rootCmd := newRootCommand(config.Load)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
