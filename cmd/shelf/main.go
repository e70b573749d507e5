// Command shelf runs the shelf catalog shell and its snapshot tools.
package main

import (
	"os"

	"github.com/mesh-intelligence/shelf/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
