package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gorilla/websocket"
	"github.com/urfave/cli/v2"
)

var events = cli.Command{
	Name:  "events",
	Usage: "stream the events of the marketplace until interrupted",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "topic",
			Usage: "the topic to filter events by, all if omitted",
		},
	},
	Action: eventsAction,
}

func eventsAction(ctx *cli.Context) error {
	client, err := getClient()
	if err != nil {
		return err
	}

	wsURL := "ws" + strings.TrimPrefix(client.baseURL, "http") + "/v1/events"
	if topic := ctx.String("topic"); len(topic) > 0 {
		wsURL += "?topic=" + url.QueryEscape(topic)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return fmt.Errorf("unable to connect to marketd event stream: %w", err)
	}
	defer conn.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	interrupted := make(chan struct{})
	go func() {
		<-sigChan
		close(interrupted)
		conn.Close()
	}()

	for {
		var msg json.RawMessage
		if err := conn.ReadJSON(&msg); err != nil {
			select {
			case <-interrupted:
				return nil
			default:
			}
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				return nil
			}
			return err
		}
		printJSON(msg)
	}
}
