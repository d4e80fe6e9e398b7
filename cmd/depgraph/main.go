// Command depgraph scans a repository and emits its source-file
// dependency graph. See internal/cli for the command surface.
package main

import (
	"os"

	"github.com/nuthan-ms/depgraph/internal/cli"
)

var version = "dev"

func main() {
	cli.Version = version
	os.Exit(cli.Execute())
}
