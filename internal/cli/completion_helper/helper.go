package completion_helper

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// DefaultFlagComplete prints the subcommands and flags of cmd for shell
// completion.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	for _, name := range Candidates(cmd) {
		fmt.Println(name)
	}
}

// Candidates lists the visible subcommand names of cmd followed by its flags,
// one-letter flags with a single dash.
func Candidates(cmd *cli.Command) []string {
	var out []string
	for _, sub := range cmd.Commands {
		if sub.Hidden {
			continue
		}
		out = append(out, sub.Name)
	}
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			if len(name) == 1 {
				out = append(out, "-"+name)
			} else {
				out = append(out, "--"+name)
			}
		}
	}
	return out
}
