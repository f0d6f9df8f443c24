// Command playbook searches and manages standard operating procedures.
package main

import (
	"fmt"
	"os"

	"github.com/throughnateseyes/playbook/internal/adapters/driving/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetServiceFactory(newServices)

	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
