package cli

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/semg6/personal-library/internal/entrypoint"
)

func usersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "Manage readers",
		Subcommands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a reader",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					name := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
					if name == "" {
						return cli.Exit("a name is required", 2)
					}

					return withApp(c, func(app *entrypoint.App) error {
						user, err := app.Library.AddUser(c.Context, name)
						if err != nil {
							return err
						}
						fmt.Fprintf(c.App.Writer, "Added reader %d: %s\n", user.ID, user.Name)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "List readers",
				Action: func(c *cli.Context) error {
					return withApp(c, func(app *entrypoint.App) error {
						users, err := app.Library.ListUsers(c.Context)
						if err != nil {
							return err
						}
						for _, u := range users {
							fmt.Fprintf(c.App.Writer, "%d\t%s\n", u.ID, u.Name)
						}
						return nil
					})
				},
			},
		},
	}
}
