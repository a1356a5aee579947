package main

import (
	"fmt"
	"os"

	"github.com/10037-kasarango1/Conjunta/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "inventoryctl:", err)
		os.Exit(1)
	}
}
