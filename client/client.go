// Package client calls a content reports service over HTTP.
package client

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/foomo/contentreports/requests"
	"github.com/foomo/contentreports/responses"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type (
	// Client a content reports service client
	Client struct {
		endpoint   string
		httpClient *http.Client
	}
	Option func(*Client)
)

// ------------------------------------------------------------------------------------------------
// ~ Constructor
// ------------------------------------------------------------------------------------------------

// New a client for the service behind endpoint, e.g.
// "http://localhost:8080/contentreports"
func New(endpoint string, opts ...Option) *Client {
	inst := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(inst)
	}
	return inst
}

// ------------------------------------------------------------------------------------------------
// ~ Options
// ------------------------------------------------------------------------------------------------

func WithHTTPClient(v *http.Client) Option {
	return func(o *Client) {
		o.httpClient = v
	}
}

// ------------------------------------------------------------------------------------------------
// ~ Public methods
// ------------------------------------------------------------------------------------------------

// Overview site wide content counts
func (c *Client) Overview(ctx context.Context, request *requests.Overview) (map[string]interface{}, error) {
	response := map[string]interface{}{}
	if err := c.call(ctx, "overview", request, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// RawReport runs a configured report and returns its payload
func (c *Client) RawReport(ctx context.Context, request *requests.RawReport) (map[string]interface{}, error) {
	response := map[string]interface{}{}
	if err := c.call(ctx, "rawReport", request, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// Sites the sites known to the service
func (c *Client) Sites(ctx context.Context) ([]responses.Site, error) {
	var response []responses.Site
	if err := c.call(ctx, "sites", &requests.Sites{}, &response); err != nil {
		return nil, err
	}
	return response, nil
}

// Update tells the service to update its repository
func (c *Client) Update(ctx context.Context) (*responses.Update, error) {
	response := &responses.Update{}
	if err := c.call(ctx, "update", &requests.Update{}, response); err != nil {
		return nil, err
	}
	return response, nil
}

// ------------------------------------------------------------------------------------------------
// ~ Private methods
// ------------------------------------------------------------------------------------------------

func (c *Client) call(ctx context.Context, route string, request, response interface{}) error {
	requestBytes, err := json.Marshal(request)
	if err != nil {
		return errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/"+route, bytes.NewBuffer(requestBytes))
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	httpResponse, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d", httpResponse.StatusCode)
	}

	responseBytes, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	var envelope struct {
		Reply jsoniter.RawMessage `json:"reply"`
	}
	if err := json.Unmarshal(responseBytes, &envelope); err != nil {
		return errors.Wrap(err, "failed to unmarshal reply envelope")
	}

	// error replies share the envelope with regular payloads
	var apiError responses.Error
	if err := json.Unmarshal(envelope.Reply, &apiError); err == nil && apiError.Code != 0 {
		return apiError
	}

	return errors.Wrap(json.Unmarshal(envelope.Reply, response), "failed to unmarshal reply")
}
