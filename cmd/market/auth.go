package main

import (
	"fmt"

	httpinterface "github.com/chro-network/chro-marketplace/internal/interfaces/http"
	"github.com/thanhpk/randstr"
	"github.com/urfave/cli/v2"
)

const secretLen = 32

var gensecret = cli.Command{
	Name:   "gensecret",
	Usage:  "generate a random secret to be used as MARKET_AUTH_SECRET",
	Action: genSecretAction,
}

var gentoken = cli.Command{
	Name:  "gentoken",
	Usage: "generate a bearer token for the given identity and store it in the local state",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "secret",
			Usage:    "the auth secret of the daemon",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "identity",
			Usage:    "the identity of the caller",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "operator",
			Usage: "grant the operator role",
		},
		&cli.DurationFlag{
			Name:  "ttl",
			Usage: "the validity of the token, 0 means no expiration",
		},
		&cli.BoolFlag{
			Name:  "print-only",
			Usage: "print the token without storing it",
		},
	},
	Action: genTokenAction,
}

func genSecretAction(_ *cli.Context) error {
	fmt.Println(randstr.Hex(secretLen))
	return nil
}

func genTokenAction(ctx *cli.Context) error {
	role := ""
	if ctx.Bool("operator") {
		role = httpinterface.RoleOperator
	}

	token, err := httpinterface.NewToken(
		ctx.String("secret"), ctx.String("identity"), role, ctx.Duration("ttl"),
	)
	if err != nil {
		return err
	}

	if ctx.Bool("print-only") {
		fmt.Println(token)
		return nil
	}
	if err := setState(map[string]string{"token": token}); err != nil {
		return err
	}
	fmt.Printf("token for %s has been set\n", ctx.String("identity"))
	return nil
}
