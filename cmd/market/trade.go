package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var buy = cli.Command{
	Name:   "buy",
	Usage:  "buy an item listed for direct sale",
	Flags:  []cli.Flag{&idFlag},
	Action: buyAction,
}

var bid = cli.Command{
	Name:  "bid",
	Usage: "place a bid on an auction",
	Flags: []cli.Flag{
		&idFlag,
		&cli.Uint64Flag{
			Name:     "amount",
			Usage:    "the amount of the bid",
			Required: true,
		},
	},
	Action: bidAction,
}

var bids = cli.Command{
	Name:   "bids",
	Usage:  "list the bids of an auction",
	Flags:  []cli.Flag{&idFlag},
	Action: bidsAction,
}

var settle = cli.Command{
	Name:   "settle",
	Usage:  "settle an expired auction",
	Flags:  []cli.Flag{&idFlag},
	Action: settleAction,
}

func buyAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(
		http.MethodPost, fmt.Sprintf("/v1/items/%d/buy", ctx.Uint64("id")), nil,
	)
}

func bidAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(
		http.MethodPost, fmt.Sprintf("/v1/items/%d/bids", ctx.Uint64("id")),
		map[string]uint64{"amount": ctx.Uint64("amount")},
	)
}

func bidsAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(
		http.MethodGet, fmt.Sprintf("/v1/items/%d/bids", ctx.Uint64("id")), nil,
	)
}

func settleAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(
		http.MethodPost, fmt.Sprintf("/v1/items/%d/settle", ctx.Uint64("id")), nil,
	)
}
