// Package zeroex is a typed client for the 0x-style swap quoting API:
// an indicative /price lookup and a firm /quote that returns a submittable
// transaction plus an optional permit2 typed-data signature request.
package zeroex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"monadswap/internal/config"
)

// DefaultBaseURL is the hosted quoting API endpoint.
const DefaultBaseURL = "https://api.0x.org"

const apiVersion = "v2"

// Client issues price and quote lookups. It holds no state beyond the
// connection settings; every input change is a fresh request (no caching).
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a quoting API client. baseURL defaults to the hosted
// endpoint when empty; apiKey may be empty when talking to a local proxy
// that injects it server-side.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: config.QuoteHTTPTimeout},
	}
}

// PriceRequest holds the parameters of a price or quote lookup. Exactly one
// of SellAmount/BuyAmount must be set for a price; a firm quote is always
// sell-amount driven.
type PriceRequest struct {
	ChainID               int64
	SellToken             string
	BuyToken              string
	SellAmount            string
	BuyAmount             string
	Taker                 string
	SwapFeeRecipient      string
	SwapFeeBps            int
	SwapFeeToken          string
	TradeSurplusRecipient string
}

// Values encodes the request as query parameters, omitting empty fields.
func (r PriceRequest) Values() url.Values {
	v := url.Values{}
	v.Set("chainId", strconv.FormatInt(r.ChainID, 10))
	v.Set("sellToken", r.SellToken)
	v.Set("buyToken", r.BuyToken)
	if r.SellAmount != "" {
		v.Set("sellAmount", r.SellAmount)
	}
	if r.BuyAmount != "" {
		v.Set("buyAmount", r.BuyAmount)
	}
	if r.Taker != "" {
		v.Set("taker", r.Taker)
	}
	if r.SwapFeeRecipient != "" {
		v.Set("swapFeeRecipient", r.SwapFeeRecipient)
		v.Set("swapFeeBps", strconv.Itoa(r.SwapFeeBps))
		v.Set("swapFeeToken", r.SwapFeeToken)
	}
	if r.TradeSurplusRecipient != "" {
		v.Set("tradeSurplusRecipient", r.TradeSurplusRecipient)
	}
	return v
}

// Price fetches an indicative price for the pair and amount. A response with
// validation errors is returned as a normal *PriceResponse — the caller
// decides how to surface them.
func (c *Client) Price(ctx context.Context, req PriceRequest) (*PriceResponse, error) {
	var out PriceResponse
	if err := c.get(ctx, "/swap/permit2/price", req.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Quote fetches a firm quote. Called only once the user has committed to a
// price; must be re-issued whenever the pair, amount or taker changes.
func (c *Client) Quote(ctx context.Context, req PriceRequest) (*QuoteResponse, error) {
	req.BuyAmount = "" // firm quotes are sell-amount driven
	var out QuoteResponse
	if err := c.get(ctx, "/swap/permit2/quote", req.Values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("0x-api-key", c.apiKey)
	}
	req.Header.Set("0x-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("quote API request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading quote API response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing quote API response: %w", err)
	}
	return nil
}

// parseAPIError extracts structured detail from an error body. The API
// reports either {"validationErrors": [...]} or a plain message field.
func parseAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var detail struct {
		Message          string            `json:"message"`
		Error            string            `json:"error"`
		ValidationErrors []ValidationError `json:"validationErrors"`
	}
	if err := json.Unmarshal(body, &detail); err == nil {
		apiErr.ValidationErrors = detail.ValidationErrors
		apiErr.Message = detail.Message
		if apiErr.Message == "" {
			apiErr.Message = detail.Error
		}
	}
	return apiErr
}
