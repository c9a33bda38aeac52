package addrbook

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/algoswap/swapshop/common"
)

const DefaultNFDTimeout = 10 * time.Second

// NFDClient talks to the NFD name service REST API.
type NFDClient struct {
	baseURL string
	client  *http.Client
}

type NFDOption func(*NFDClient)

func WithHTTPClient(client *http.Client) NFDOption {
	return func(c *NFDClient) {
		c.client = client
	}
}

func WithTimeout(d time.Duration) NFDOption {
	return func(c *NFDClient) {
		c.client.Timeout = d
	}
}

func NewNFDClient(baseURL string, opts ...NFDOption) *NFDClient {
	c := &NFDClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultNFDTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *NFDClient) get(ctx context.Context, path string, query url.Values, out interface{}) (int, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// Lookup returns the deposit account of an NFD name such as "alice.algo".
// Any failure, including the service being unreachable, is reported as an
// UnresolvedAliasError.
func (c *NFDClient) Lookup(ctx context.Context, name string) (string, error) {
	var body struct {
		DepositAccount string `json:"depositAccount"`
	}
	query := url.Values{}
	query.Set("view", "tiny")
	query.Set("poll", "false")
	query.Set("nocache", "false")

	status, err := c.get(ctx, "/nfd/"+url.PathEscape(strings.ToLower(name)), query, &body)
	if err != nil {
		return "", &UnresolvedAliasError{Alias: name, Err: err}
	}
	switch {
	case status == http.StatusNotFound:
		return "", &UnresolvedAliasError{Alias: name}
	case status != http.StatusOK:
		return "", &UnresolvedAliasError{Alias: name, Err: fmt.Errorf("name service returned status %d", status)}
	case !common.IsAddress(body.DepositAccount):
		return "", &UnresolvedAliasError{Alias: name, Err: fmt.Errorf("name has no deposit account")}
	}
	log.WithFields(log.Fields{"name": name, "address": body.DepositAccount}).Debug("nfd lookup")
	return body.DepositAccount, nil
}

// ReverseLookup returns the primary NFD name of address, or "" when it has
// none.
func (c *NFDClient) ReverseLookup(ctx context.Context, address string) (string, error) {
	body := map[string]struct {
		Name string `json:"name"`
	}{}
	query := url.Values{}
	query.Set("address", address)

	status, err := c.get(ctx, "/nfd/lookup", query, &body)
	if err != nil {
		return "", fmt.Errorf("nfd reverse lookup of %s: %w", address, err)
	}
	switch status {
	case http.StatusOK:
		return body[address].Name, nil
	case http.StatusNotFound:
		return "", nil
	}
	return "", fmt.Errorf("nfd reverse lookup of %s: status %d", address, status)
}
