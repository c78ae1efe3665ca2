package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"
)

var (
	idFlag = cli.Uint64Flag{
		Name:     "id",
		Usage:    "the id of the item",
		Required: true,
	}
	collectionFlag = cli.StringFlag{
		Name:     "collection",
		Usage:    "the address of the asset collection",
		Required: true,
	}
	assetIDFlag = cli.Uint64Flag{
		Name:     "asset_id",
		Usage:    "the id of the asset in the collection",
		Required: true,
	}
	offsetFlag = cli.IntFlag{
		Name:  "offset",
		Usage: "the number of records to skip",
	}
	limitFlag = cli.IntFlag{
		Name:  "limit",
		Usage: "the max number of records to return",
		Value: 10,
	}
)

var items = cli.Command{
	Name:   "items",
	Usage:  "list the items of the marketplace",
	Flags:  []cli.Flag{&offsetFlag, &limitFlag},
	Action: itemsAction,
}

var item = cli.Command{
	Name:   "item",
	Usage:  "get an item by id",
	Flags:  []cli.Flag{&idFlag},
	Action: itemAction,
}

var listsale = cli.Command{
	Name:  "listsale",
	Usage: "list an asset for direct sale",
	Flags: []cli.Flag{
		&collectionFlag,
		&assetIDFlag,
		&cli.Uint64Flag{
			Name:     "price",
			Usage:    "the fixed price of the asset",
			Required: true,
		},
	},
	Action: listSaleAction,
}

var listauction = cli.Command{
	Name:  "listauction",
	Usage: "list an asset for auction",
	Flags: []cli.Flag{
		&collectionFlag,
		&assetIDFlag,
		&cli.Uint64Flag{
			Name:     "starting_price",
			Usage:    "the amount the first bid must exceed",
			Required: true,
		},
		&cli.Int64Flag{
			Name:     "expiry",
			Usage:    "the unix time after which bids are not accepted anymore",
			Required: true,
		},
	},
	Action: listAuctionAction,
}

var cancelitem = cli.Command{
	Name:   "cancelitem",
	Usage:  "withdraw an active listing",
	Flags:  []cli.Flag{&idFlag},
	Action: cancelItemAction,
}

func itemsAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodGet, fmt.Sprintf(
		"/v1/items?offset=%d&limit=%d", ctx.Int("offset"), ctx.Int("limit"),
	), nil)
}

func itemAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodGet, fmt.Sprintf("/v1/items/%d", ctx.Uint64("id")), nil)
}

func listSaleAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodPost, "/v1/items/sale", map[string]interface{}{
		"collection": ctx.String("collection"),
		"assetId":    ctx.Uint64("asset_id"),
		"price":      ctx.Uint64("price"),
	})
}

func listAuctionAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodPost, "/v1/items/auction", map[string]interface{}{
		"collection":    ctx.String("collection"),
		"assetId":       ctx.Uint64("asset_id"),
		"startingPrice": ctx.Uint64("starting_price"),
		"expiry":        ctx.Int64("expiry"),
	})
}

func cancelItemAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(
		http.MethodPost, fmt.Sprintf("/v1/items/%d/cancel", ctx.Uint64("id")), nil,
	)
}
