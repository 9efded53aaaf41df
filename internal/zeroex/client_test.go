package zeroex

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"monadswap/internal/config"
)

// ---------------------------------------------------------------------------
// fixedTransport: replaces the HTTP client without needing a real server.
// ---------------------------------------------------------------------------

type fixedTransport struct {
	body    string
	code    int
	err     error
	lastReq *http.Request
}

func (ft *fixedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ft.lastReq = req
	if ft.err != nil {
		return nil, ft.err
	}
	return &http.Response{
		StatusCode: ft.code,
		Body:       io.NopCloser(strings.NewReader(ft.body)),
		Header:     make(http.Header),
	}, nil
}

func newMockClient(body string, code int) (*Client, *fixedTransport) {
	ft := &fixedTransport{body: body, code: code}
	c := NewClient("", "test-key")
	c.client = &http.Client{Transport: ft}
	return c, ft
}

func testRequest() PriceRequest {
	return PriceRequest{
		ChainID:               10143,
		SellToken:             "0x760AfE86e5de5fa0Ee542fc7B7B713e1c5425701",
		BuyToken:              "0xf817257fed379853cDe0fa4F97AB987181B1E5Ea",
		SellAmount:            "10000000000000000000",
		Taker:                 "0x1111111111111111111111111111111111111111",
		SwapFeeRecipient:      "0x75A94931B81d81C7a62b76DC0FcFAC77FbE1e917",
		SwapFeeBps:            100,
		SwapFeeToken:          "0xf817257fed379853cDe0fa4F97AB987181B1E5Ea",
		TradeSurplusRecipient: "0x75A94931B81d81C7a62b76DC0FcFAC77FbE1e917",
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", "test-key")

	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, config.QuoteHTTPTimeout, c.client.Timeout)
}

// ---------------------------------------------------------------------------
// Price
// ---------------------------------------------------------------------------

func TestPriceSuccess(t *testing.T) {
	body := `{
		"sellToken": "0x760afe86e5de5fa0ee542fc7b7b713e1c5425701",
		"buyToken": "0xf817257fed379853cde0fa4f97ab987181b1e5ea",
		"sellAmount": "10000000000000000000",
		"buyAmount": "4210000",
		"price": "0.421",
		"issues": {"allowance": null}
	}`
	c, ft := newMockClient(body, http.StatusOK)

	price, err := c.Price(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "4210000", price.BuyAmount)
	assert.Equal(t, int64(4210000), price.BuyAmountInt().Int64())
	assert.Nil(t, price.Issues.Allowance)

	// Request shape.
	q := ft.lastReq.URL.Query()
	assert.Equal(t, "10143", q.Get("chainId"))
	assert.Equal(t, "10000000000000000000", q.Get("sellAmount"))
	assert.Empty(t, q.Get("buyAmount"), "only one amount side may be sent")
	assert.Equal(t, "100", q.Get("swapFeeBps"))
	assert.Equal(t, "test-key", ft.lastReq.Header.Get("0x-api-key"))
	assert.Equal(t, "v2", ft.lastReq.Header.Get("0x-version"))
	assert.Contains(t, ft.lastReq.URL.Path, "/swap/permit2/price")
}

func TestPriceWithAllowanceIssue(t *testing.T) {
	body := `{
		"sellAmount": "1000000",
		"buyAmount": "999000",
		"issues": {"allowance": {"spender": "0x000000000022D473030F116dDEE9F6B43aC78BA3", "actual": "0"}}
	}`
	c, _ := newMockClient(body, http.StatusOK)

	price, err := c.Price(context.Background(), testRequest())
	require.NoError(t, err)
	require.NotNil(t, price.Issues.Allowance)
	assert.Equal(t, "0x000000000022D473030F116dDEE9F6B43aC78BA3", price.Issues.Allowance.Spender)
}

func TestPriceValidationErrorsPassThrough(t *testing.T) {
	body := `{
		"validationErrors": [
			{"field": "sellAmount", "code": "INSUFFICIENT_ASSET_LIQUIDITY", "reason": "not enough liquidity"}
		]
	}`
	c, _ := newMockClient(body, http.StatusOK)

	price, err := c.Price(context.Background(), testRequest())
	require.NoError(t, err)
	require.Len(t, price.ValidationErrors, 1)
	assert.Equal(t, "sellAmount", price.ValidationErrors[0].Field)
	assert.Nil(t, price.BuyAmountInt())
}

func TestPriceNon2xxReturnsAPIError(t *testing.T) {
	body := `{"validationErrors": [{"field": "buyToken", "code": "INVALID", "reason": "unsupported token"}]}`
	c, _ := newMockClient(body, http.StatusBadRequest)

	_, err := c.Price(context.Background(), testRequest())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	require.Len(t, apiErr.Entries(), 1)
	assert.Equal(t, "buyToken", apiErr.Entries()[0].Field)
}

func TestPriceNon2xxPlainMessage(t *testing.T) {
	c, _ := newMockClient(`{"message": "rate limited"}`, http.StatusTooManyRequests)

	_, err := c.Price(context.Background(), testRequest())
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	entries := apiErr.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "API_ERROR", entries[0].Code)
	assert.Contains(t, entries[0].Reason, "rate limited")
}

func TestPriceMalformedJSON(t *testing.T) {
	c, _ := newMockClient("{not json", http.StatusOK)
	_, err := c.Price(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing quote API response")
}

func TestPriceNetworkError(t *testing.T) {
	ft := &fixedTransport{err: &netError{"connection refused"}}
	c := NewClient("", "")
	c.client = &http.Client{Transport: ft}

	_, err := c.Price(context.Background(), testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quote API request")
}

// ---------------------------------------------------------------------------
// Quote
// ---------------------------------------------------------------------------

func TestQuoteCarriesTransactionAndPermit2(t *testing.T) {
	body := `{
		"sellAmount": "10000000000000000000",
		"buyAmount": "4210000",
		"issues": {"allowance": null},
		"transaction": {
			"to": "0xdef1c0ded9bec7f1a1670819833240f027b25eff",
			"data": "0xabcd",
			"value": "0",
			"gas": "250000",
			"gasPrice": "50000000000"
		},
		"permit2": {
			"eip712": {"types": {"EIP712Domain": []}, "primaryType": "PermitTransferFrom", "domain": {}, "message": {}}
		}
	}`
	c, ft := newMockClient(body, http.StatusOK)

	quote, err := c.Quote(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "0xabcd", quote.Transaction.Data)
	assert.Equal(t, "250000", quote.Transaction.Gas)
	require.NotNil(t, quote.Permit2)
	assert.Contains(t, string(quote.Permit2.EIP712), "PermitTransferFrom")
	assert.Contains(t, ft.lastReq.URL.Path, "/swap/permit2/quote")
}

func TestQuoteDropsBuyAmountSide(t *testing.T) {
	c, ft := newMockClient(`{"transaction": {"to": "0x1", "data": "0x"}}`, http.StatusOK)

	req := testRequest()
	req.SellAmount = "1000"
	req.BuyAmount = "999" // must not be forwarded
	_, err := c.Quote(context.Background(), req)
	require.NoError(t, err)

	q := ft.lastReq.URL.Query()
	assert.Equal(t, "1000", q.Get("sellAmount"))
	assert.Empty(t, q.Get("buyAmount"))
}

func TestQuoteWithoutPermit2(t *testing.T) {
	body := `{"transaction": {"to": "0x1", "data": "0xdead", "value": "0", "gas": "21000", "gasPrice": "1"}}`
	c, _ := newMockClient(body, http.StatusOK)

	quote, err := c.Quote(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Nil(t, quote.Permit2)
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

type netError struct{ msg string }

func (e *netError) Error() string { return e.msg }
