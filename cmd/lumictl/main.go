// Command lumictl is the terminal client for the LumiCRM API.
package main

import (
	"fmt"
	"os"

	"github.com/lumicrm/lumicrm-go/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
