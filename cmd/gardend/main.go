// Command gardend runs the personal content garden server and its
// maintenance commands.
package main

import "github.com/mesh-intelligence/garden/internal/cli"

func main() {
	cli.Execute()
}
