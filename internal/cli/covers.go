package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/semg6/personal-library/internal/covers"
	"github.com/semg6/personal-library/internal/results"
)

func downloadCoversCommand() *cli.Command {
	return &cli.Command{
		Name:  "download-covers",
		Usage: "Download the cover of every stored catalog record into IMAGES_DIR",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "dir",
				Usage: "Write images to `DIR` instead of IMAGES_DIR",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := configFrom(c)
			if err != nil {
				return err
			}

			imagesDir := cfg.Covers.ImagesDir
			if dir := c.String("dir"); dir != "" {
				imagesDir = dir
			}

			downloader := covers.NewDownloader(results.NewStore(cfg.Results.Dir), imagesDir, cfg.Covers.Timeout)
			summary, err := downloader.Run(c.Context)
			if err != nil {
				return err
			}

			w := c.App.Writer
			fmt.Fprintf(w, "Downloaded: %d\n", len(summary.Downloaded))
			fmt.Fprintf(w, "Skipped (already exists): %d\n", len(summary.Skipped))
			fmt.Fprintf(w, "Failed: %d\n", len(summary.Failed))
			for _, f := range summary.Failed {
				if f.URL != "" {
					fmt.Fprintf(w, "  %s (%s): %v\n", f.Record, f.URL, f.Err)
				} else {
					fmt.Fprintf(w, "  %s: %v\n", f.Record, f.Err)
				}
			}
			return nil
		},
	}
}
