package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var collections = cli.Command{
	Name:   "collections",
	Usage:  "list the collections accepted by the marketplace",
	Action: collectionsAction,
}

var addcollection = cli.Command{
	Name:  "addcollection",
	Usage: "register a new collection",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "address",
			Usage:    "the address of the collection",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "name",
			Usage: "a human readable name",
		},
		&cli.BoolFlag{
			Name:  "active",
			Usage: "accept listings right away",
			Value: true,
		},
	},
	Action: addCollectionAction,
}

var setcollection = cli.Command{
	Name:  "setcollection",
	Usage: "enable or disable new listings of a collection",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "address",
			Usage:    "the address of the collection",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "active",
			Usage: "whether listings are accepted",
		},
	},
	Action: setCollectionAction,
}

func collectionsAction(_ *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodGet, "/v1/collections", nil)
}

func addCollectionAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodPost, "/v1/collections", map[string]interface{}{
		"address": ctx.String("address"),
		"name":    ctx.String("name"),
		"active":  ctx.Bool("active"),
	})
}

func setCollectionAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodPut, fmt.Sprintf(
		"/v1/collections/%s", url.PathEscape(ctx.String("address")),
	), map[string]bool{"active": ctx.Bool("active")})
}
