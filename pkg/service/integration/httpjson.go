package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/aadee-inc/steward/pkg/utils/retry"
	"github.com/aadee-inc/steward/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

const maxErrorBody = 4096

// jsonClient talks to a JSON REST endpoint with a bearer token.
type jsonClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func newJSONClient(baseURL, token string, client *http.Client) *jsonClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &jsonClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

// do sends in as the JSON body (when not nil) and decodes the response into
// out (when not nil). 4xx responses other than 429 are permanent errors.
func (c *jsonClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return retry.Permanent(goerr.Wrap(err, "failed to encode request body"))
		}
		body = bytes.NewReader(raw)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return retry.Permanent(goerr.Wrap(err, "failed to create request", goerr.V("url", url)))
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return goerr.Wrap(err, "request failed", goerr.V("method", method), goerr.V("url", url))
	}
	defer safe.Close(ctx, resp.Body)

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		err := goerr.New("unexpected response status",
			goerr.V("method", method),
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
			goerr.V("body", string(msg)),
		)
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return retry.Permanent(err)
		}
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return goerr.Wrap(err, "failed to decode response", goerr.V("url", url))
	}
	return nil
}
