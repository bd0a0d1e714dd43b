package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/skypages/cmd/skypages/commands"
	"git.home.luguber.info/inful/skypages/internal/foundation/errors"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{}
	parser := kong.Parse(cli,
		kong.Name("skypages"),
		kong.Description("Build SKY Pages applications with webpack, including ahead-of-time compilation."),
		kong.UsageOnError(),
		kong.Bind(global),
	)

	if err := parser.Run(cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
