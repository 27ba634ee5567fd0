// Command ledgerctl reconciles a customer ledger exported to a JSON file, without a database.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&reconcileCmd{out: os.Stdout}, "ledger")
	c.Register(&balanceCmd{out: os.Stdout}, "ledger")
	c.Register(&insightsCmd{out: os.Stdout}, "ledger")
}
