package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(context.Background()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
