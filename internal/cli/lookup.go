package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/semg6/personal-library/internal/entrypoint"
	"github.com/semg6/personal-library/internal/services"
)

func lookupCommand() *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Usage:     "Look up an ISBN and add the book to the library",
		ArgsUsage: "<isbn> [isbn...]",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return cli.Exit("at least one ISBN is required", 2)
			}

			return withApp(c, func(app *entrypoint.App) error {
				failed := 0
				for _, isbn := range c.Args().Slice() {
					result := app.Library.AddByISBN(c.Context, isbn)
					fmt.Fprintf(c.App.Writer, "%s: %s", isbn, result.Message)
					if result.Title != "" {
						fmt.Fprintf(c.App.Writer, " (%q, book %d)", result.Title, result.BookID)
					}
					fmt.Fprintln(c.App.Writer)

					if result.Kind == services.AddFailed {
						failed++
					}
				}
				if failed > 0 {
					return cli.Exit(fmt.Sprintf("%d lookups failed", failed), 1)
				}
				return nil
			})
		},
	}
}
