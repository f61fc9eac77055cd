package korfball_client

import (
	"time"

	"github.com/mcdev12/korfscore/go/clients"
)

// Client talks to the match server's JSON REST API.
type Client struct {
	*clients.BaseClient
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		BaseClient: clients.NewBaseClient(baseURL),
	}
	client.SetTimeout(10 * time.Second)
	return client
}

// WithToken sets a bearer token on every request.
func (c *Client) WithToken(token string) *Client {
	if token != "" {
		c.SetHeader("Authorization", "Bearer "+token)
	}
	return c
}
