package main

import (
	"fmt"
	"strings"

	"sponsors/internal/media"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

var slugCommand = &cli.Command{
	Name:      "slug",
	Usage:     "Print the media alias a sponsor logo would be registered under",
	ArgsUsage: "<sponsor name>",
	Action: func(c *cli.Context) error {
		name := strings.Join(c.Args().Slice(), " ")
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("sponsor name is required")
		}

		fmt.Println(media.Slugify(name))
		fmt.Println(media.Alias(name, uuid.NewString()))
		return nil
	},
}
