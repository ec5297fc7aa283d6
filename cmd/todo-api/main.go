// todo-api serves the to-do list HTTP API and doubles as its command-line client.
//
// Usage:
//
//	todo-api serve [--config=<path>] [--port=<n>] [--db=<dsn>]
//	todo-api ls [search] [--url=<base>] [--provider=<key>]
//	todo-api add <title...>
//	todo-api done <id>
//	todo-api rm <id>
//	todo-api version
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✖ "+err.Error()))
		os.Exit(1)
	}
}
