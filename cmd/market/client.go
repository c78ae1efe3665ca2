package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const requestTimeout = 30 * time.Second

type client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func getClient() (*client, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	address, ok := state["rpcserver"]
	if !ok || len(address) <= 0 {
		return nil, errors.New("set rpcserver with `config set rpcserver`")
	}

	return &client{
		baseURL:    strings.TrimSuffix(address, "/"),
		token:      state["token"],
		httpClient: &http.Client{Timeout: requestTimeout},
	}, nil
}

// call sends the request to the daemon and prints the JSON reply, if any.
func (c *client) call(method, path string, body interface{}) error {
	reply, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	if reply != nil {
		printJSON(reply)
	}
	return nil
}

func (c *client) do(method, path string, body interface{}) (interface{}, error) {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if len(c.token) > 0 {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to marketd: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var reply interface{}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("unable to decode response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if m, ok := reply.(map[string]interface{}); ok {
			if msg, ok := m["error"].(string); ok {
				return nil, fmt.Errorf("%s (%d)", msg, resp.StatusCode)
			}
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return reply, nil
}
