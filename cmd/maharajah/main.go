// Command maharajah is the CLI entrypoint: index, find, query, db, config.
package main

import "github.com/maharajah/maharajah/internal/cli"

func main() {
	cli.Execute()
}
