package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var balance = cli.Command{
	Name:  "balance",
	Usage: "print the token balance and allowance of an account",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "account",
			Usage:    "the account identity",
			Required: true,
		},
	},
	Action: balanceAction,
}

var allowance = cli.Command{
	Name:  "allowance",
	Usage: "set the amount the marketplace can spend on your behalf",
	Flags: []cli.Flag{
		&cli.Uint64Flag{
			Name:     "amount",
			Usage:    "the allowance amount",
			Required: true,
		},
	},
	Action: allowanceAction,
}

var approvecollection = cli.Command{
	Name:  "approvecollection",
	Usage: "authorize the marketplace to move your assets of a collection",
	Flags: []cli.Flag{
		&collectionFlag,
		&cli.BoolFlag{
			Name:  "revoke",
			Usage: "revoke the authorization",
		},
	},
	Action: approveCollectionAction,
}

func balanceAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodGet, fmt.Sprintf(
		"/v1/ledger/balances/%s", url.PathEscape(ctx.String("account")),
	), nil)
}

func allowanceAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	if err := client.call(http.MethodPost, "/v1/ledger/allowance", map[string]uint64{
		"amount": ctx.Uint64("amount"),
	}); err != nil {
		return err
	}
	fmt.Println("allowance updated")
	return nil
}

func approveCollectionAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	if err := client.call(http.MethodPost, "/v1/ledger/approvals", map[string]interface{}{
		"collection": ctx.String("collection"),
		"approved":   !ctx.Bool("revoke"),
	}); err != nil {
		return err
	}
	fmt.Println("collection approval updated")
	return nil
}
