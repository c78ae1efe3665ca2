package main

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/urfave/cli/v2"
)

var addwebhook = cli.Command{
	Name:  "addwebhook",
	Usage: "add a webhook notified on marketplace events",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "topic",
			Usage:    "the event topic, ie. ITEM_SOLD, or * for all",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "endpoint",
			Usage:    "the url notified with a POST request",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "secret",
			Usage: "the secret used to sign the bearer token of the requests",
		},
	},
	Action: addWebhookAction,
}

var removewebhook = cli.Command{
	Name:  "removewebhook",
	Usage: "remove a webhook",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "id",
			Usage:    "the id of the webhook",
			Required: true,
		},
	},
	Action: removeWebhookAction,
}

var listwebhooks = cli.Command{
	Name:  "listwebhooks",
	Usage: "list the webhooks registered for some topic",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "topic",
			Usage: "the topic to filter hooks by, all if omitted",
		},
	},
	Action: listWebhooksAction,
}

func addWebhookAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	return client.call(http.MethodPost, "/v1/webhooks", map[string]string{
		"topic":    ctx.String("topic"),
		"endpoint": ctx.String("endpoint"),
		"secret":   ctx.String("secret"),
	})
}

func removeWebhookAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	if err := client.call(http.MethodDelete, fmt.Sprintf(
		"/v1/webhooks/%s", url.PathEscape(ctx.String("id")),
	), nil); err != nil {
		return err
	}
	fmt.Println("webhook removed")
	return nil
}

func listWebhooksAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}
	path := "/v1/webhooks"
	if topic := ctx.String("topic"); len(topic) > 0 {
		path += "?topic=" + url.QueryEscape(topic)
	}
	return client.call(http.MethodGet, path, nil)
}
