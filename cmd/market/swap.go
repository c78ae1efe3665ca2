package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var swapIDFlag = cli.Uint64Flag{
	Name:     "id",
	Usage:    "the id of the swap",
	Required: true,
}

var swaps = cli.Command{
	Name:   "swaps",
	Usage:  "list the swap offers",
	Flags:  []cli.Flag{&offsetFlag, &limitFlag},
	Action: swapsAction,
}

var requestswap = cli.Command{
	Name:  "requestswap",
	Usage: "offer one of your assets in exchange for the asset of somebody else",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "offered_collection",
			Usage:    "the collection of the offered asset",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "offered_asset_id",
			Usage:    "the id of the offered asset",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "requested_collection",
			Usage:    "the collection of the requested asset",
			Required: true,
		},
		&cli.Uint64Flag{
			Name:     "requested_asset_id",
			Usage:    "the id of the requested asset",
			Required: true,
		},
	},
	Action: requestSwapAction,
}

var approveswap = cli.Command{
	Name:   "approveswap",
	Usage:  "accept a swap offer, exchanging the assets",
	Flags:  []cli.Flag{&swapIDFlag},
	Action: approveSwapAction,
}

var cancelswap = cli.Command{
	Name:   "cancelswap",
	Usage:  "withdraw or reject a pending swap offer",
	Flags:  []cli.Flag{&swapIDFlag},
	Action: cancelSwapAction,
}

func swapsAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodGet, fmt.Sprintf(
		"/v1/swaps?offset=%d&limit=%d", ctx.Int("offset"), ctx.Int("limit"),
	), nil)
}

func requestSwapAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodPost, "/v1/swaps", map[string]interface{}{
		"offeredCollection":   ctx.String("offered_collection"),
		"offeredAssetId":      ctx.Uint64("offered_asset_id"),
		"requestedCollection": ctx.String("requested_collection"),
		"requestedAssetId":    ctx.Uint64("requested_asset_id"),
	})
}

func approveSwapAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(
		http.MethodPost, fmt.Sprintf("/v1/swaps/%d/approve", ctx.Uint64("id")), nil,
	)
}

func cancelSwapAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(
		http.MethodPost, fmt.Sprintf("/v1/swaps/%d/cancel", ctx.Uint64("id")), nil,
	)
}
