package server

// ErrorResponse is the standard error shape for every failure.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// HealthResponse is the health check body.
type HealthResponse struct {
	OK bool `json:"ok"`
}

// AccountAssociation proves domain ownership to the Farcaster host.
type AccountAssociation struct {
	Header    string `json:"header"`
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
}

// Frame describes the mini app to the Farcaster host.
type Frame struct {
	Version          string `json:"version"`
	Name             string `json:"name"`
	IconURL          string `json:"iconUrl"`
	HomeURL          string `json:"homeUrl"`
	ImageURL         string `json:"imageUrl,omitempty"`
	ButtonTitle      string `json:"buttonTitle,omitempty"`
	SplashImageURL   string `json:"splashImageUrl,omitempty"`
	SplashBackground string `json:"splashBackgroundColor,omitempty"`
	WebhookURL       string `json:"webhookUrl,omitempty"`
}

// Manifest is the /.well-known/farcaster.json document. Its fields come
// straight from configuration; the format itself is not validated here.
type Manifest struct {
	AccountAssociation AccountAssociation `json:"accountAssociation"`
	Frame              Frame              `json:"frame"`
}

// WebhookEvent is the envelope the Farcaster host posts on app events
// (frame added, notifications enabled, and so on).
type WebhookEvent struct {
	Event string `json:"event"`
	FID   int64  `json:"fid,omitempty"`
}

// WebhookResponse acknowledges a webhook delivery.
type WebhookResponse struct {
	Success bool `json:"success"`
}
