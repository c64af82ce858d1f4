package main

import (
	"fmt"
	"os"

	"github.com/Bla9k/font-and-flare-design-sub000/cmd/gacha/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
