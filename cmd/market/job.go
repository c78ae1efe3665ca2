package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var runjob = cli.Command{
	Name:   "runjob",
	Usage:  "force the settlement of all expired auctions",
	Action: runJobAction,
}

func runJobAction(_ *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodPost, "/v1/job", nil)
}

var payouts = cli.Command{
	Name:  "payouts",
	Usage: "list the payouts still owed, or all the payouts of an item",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:  "item",
			Usage: "the id of the item",
		},
	},
	Action: payoutsAction,
}

func payoutsAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	if ctx.IsSet("item") {
		return client.call(
			http.MethodGet, fmt.Sprintf("/v1/items/%d/payouts", ctx.Uint64("item")), nil,
		)
	}
	return client.call(http.MethodGet, "/v1/payouts", nil)
}
