package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"monadswap/internal/config"
)

// Handlers contains all dependencies for the API endpoint handlers.
type Handlers struct {
	Config *Config
	Logger *logrus.Logger
	Client *http.Client // outbound client for the quoting API
}

// NewHandlers wires handlers with a default outbound client.
func NewHandlers(cfg *Config, log *logrus.Logger) *Handlers {
	return &Handlers{
		Config: cfg,
		Logger: log,
		Client: &http.Client{Timeout: config.QuoteHTTPTimeout},
	}
}

func (h *Handlers) err(c echo.Context, code int, msg string) error {
	return c.JSON(code, ErrorResponse{Error: msg, Code: code})
}

// Health returns a simple health check.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// quoteParams is the whitelist of query parameters forwarded upstream.
var quoteParams = []string{
	"chainId", "sellToken", "buyToken", "sellAmount", "buyAmount",
	"taker", "swapFeeRecipient", "swapFeeBps", "swapFeeToken",
	"tradeSurplusRecipient",
}

// Price proxies an indicative price lookup to the quoting API.
func (h *Handlers) Price(c echo.Context) error {
	return h.proxy(c, "/swap/permit2/price")
}

// Quote proxies a firm quote request to the quoting API.
func (h *Handlers) Quote(c echo.Context) error {
	return h.proxy(c, "/swap/permit2/quote")
}

// proxy relays a validated query upstream with the API key injected, and
// hands the upstream status and body back unchanged. The key never reaches
// the browser; that is the whole point of the route.
func (h *Handlers) proxy(c echo.Context, path string) error {
	if c.QueryParam("sellToken") == "" || c.QueryParam("buyToken") == "" {
		return h.err(c, http.StatusBadRequest, "sellToken and buyToken are required")
	}
	if c.QueryParam("sellAmount") == "" && c.QueryParam("buyAmount") == "" {
		return h.err(c, http.StatusBadRequest, "one of sellAmount or buyAmount is required")
	}

	query := url.Values{}
	for _, p := range quoteParams {
		if v := c.QueryParam(p); v != "" {
			query.Set(p, v)
		}
	}

	req, err := http.NewRequestWithContext(
		c.Request().Context(), http.MethodGet,
		h.Config.ZeroExURL+path+"?"+query.Encode(), nil,
	)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "building upstream request failed")
	}
	req.Header.Set("0x-api-key", h.Config.ZeroExAPIKey)
	req.Header.Set("0x-version", "v2")

	resp, err := h.Client.Do(req)
	if err != nil {
		h.Logger.WithError(err).WithField("path", path).Warn("quoting API unreachable")
		return h.err(c, http.StatusBadGateway, "quoting API unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return h.err(c, http.StatusBadGateway, "reading upstream response failed")
	}
	return c.Blob(resp.StatusCode, echo.MIMEApplicationJSON, body)
}

// Manifest serves the Farcaster mini-app manifest from configuration.
func (h *Handlers) Manifest(c echo.Context) error {
	cfg := h.Config
	return c.JSON(http.StatusOK, Manifest{
		AccountAssociation: AccountAssociation{
			Header:    cfg.AccountHeader,
			Payload:   cfg.AccountPayload,
			Signature: cfg.AccountSignature,
		},
		Frame: Frame{
			Version:     "1",
			Name:        cfg.FrameName,
			IconURL:     cfg.AppURL + "/icon.png",
			HomeURL:     cfg.AppURL,
			ImageURL:    cfg.AppURL + "/image.png",
			ButtonTitle: "Launch " + cfg.FrameName,
			WebhookURL:  cfg.WebhookURL,
		},
	})
}

// Webhook acknowledges Farcaster host events. Events are logged, nothing
// more: notification delivery is out of scope here.
func (h *Handlers) Webhook(c echo.Context) error {
	var ev WebhookEvent
	if err := json.NewDecoder(c.Request().Body).Decode(&ev); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json")
	}
	h.Logger.WithFields(logrus.Fields{
		"event": ev.Event,
		"fid":   ev.FID,
	}).Info("webhook event received")
	return c.JSON(http.StatusOK, WebhookResponse{Success: true})
}
