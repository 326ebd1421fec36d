// Command cellar is the command-line interface for the tasting journal.
package main

import "github.com/mesh-intelligence/cellar/internal/cli"

func main() {
	cli.Execute()
}
