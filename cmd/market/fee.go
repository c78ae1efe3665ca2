package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var walletFlag = cli.StringFlag{
	Name:     "wallet",
	Usage:    "the wallet identity",
	Required: true,
}

var fees = cli.Command{
	Name:   "fees",
	Usage:  "print the fee policy of the marketplace",
	Action: feesAction,
}

var feecollector = cli.Command{
	Name:  "feecollector",
	Usage: "manage the wallets entitled to a share of every sale",
	Subcommands: []*cli.Command{
		{
			Name:  "add",
			Usage: "add a fee collector",
			Flags: []cli.Flag{
				&walletFlag,
				&cli.UintFlag{
					Name:     "percentage",
					Usage:    "the share in parts of the fee scale, ie. 7 is 0.7% with the default scale",
					Required: true,
				},
			},
			Action: addFeeCollectorAction,
		},
		{
			Name:   "remove",
			Usage:  "remove a fee collector",
			Flags:  []cli.Flag{&walletFlag},
			Action: removeFeeCollectorAction,
		},
	},
}

var publicationfee = cli.Command{
	Name:  "publicationfee",
	Usage: "manage the flat fees charged when listing an item",
	Subcommands: []*cli.Command{
		{
			Name:   "wallet",
			Usage:  "set the wallet receiving publication fees",
			Flags:  []cli.Flag{&walletFlag},
			Action: setPublicationWalletAction,
		},
		{
			Name:  "set",
			Usage: "set the publication fee of a listing kind",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kind",
					Usage:    "the listing kind: direct-sale or auction",
					Required: true,
				},
				&cli.Uint64Flag{
					Name:  "amount",
					Usage: "the flat fee amount",
				},
			},
			Action: setPublicationFeeAction,
		},
	},
}

func feesAction(_ *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodGet, "/v1/fees", nil)
}

func addFeeCollectorAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodPost, "/v1/fees/collectors", map[string]interface{}{
		"wallet":     ctx.String("wallet"),
		"percentage": ctx.Uint("percentage"),
	})
}

func removeFeeCollectorAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodDelete, fmt.Sprintf(
		"/v1/fees/collectors/%s", url.PathEscape(ctx.String("wallet")),
	), nil)
}

func setPublicationWalletAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodPut, "/v1/fees/publication/wallet", map[string]string{
		"wallet": ctx.String("wallet"),
	})
}

func setPublicationFeeAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodPut, fmt.Sprintf(
		"/v1/fees/publication/%s", url.PathEscape(ctx.String("kind")),
	), map[string]uint64{"amount": ctx.Uint64("amount")})
}
