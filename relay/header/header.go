// Package header handles headers on both legs of the relay:
//
//	Client <--> Relay <--> Upstream completion API
//
// The upstream request is built fresh on every call, so nothing from the
// client is forwarded; the relay injects its own credential. Upstream
// response headers are copied back to the client minus the ones each leg
// negotiates independently.
package header

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/chatrelay/pkg/utils"
)

// Handler manages headers between relay connections.
type Handler struct {
	credential string
}

// NewHandler creates a header Handler that authenticates upstream requests
// with the given bearer credential.
func NewHandler(credential string) *Handler {
	return &Handler{credential: credential}
}

// skipResponse is the set of upstream response headers (client <-- relay <-- upstream)
// that are not copied back to the downstream client.
var skipResponse = map[string]struct{}{
	// Hop-by-hop headers: only meaningful for a single transport-level connection.
	"Connection":        {},
	"Keep-Alive":        {},
	"Transfer-Encoding": {},

	// Go's http.Transport already decompressed the body; fiber's compress
	// middleware sets its own encoding and length for the client leg.
	"Content-Encoding": {},
	"Content-Length":   {},

	// Upstream session cookies belong to the relay's credential, not the client.
	"Set-Cookie": {},

	// CORS on the client leg is owned by the relay's own middleware.
	"Access-Control-Allow-Origin":      {},
	"Access-Control-Allow-Credentials": {},
	"Access-Control-Allow-Headers":     {},
	"Access-Control-Allow-Methods":     {},
	"Access-Control-Expose-Headers":    {},
	"Access-Control-Max-Age":           {},
	"Vary":                             {},

	// The requestid middleware owns the id; it must match the relay's logs.
	"X-Request-Id": {},
}

// SetUpstreamRequestHeaders sets the headers of an outgoing upstream request.
func (h *Handler) SetUpstreamRequestHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+h.credential)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "chatrelay/"+utils.Version)
}

// SetClientResponseHeaders copies response headers from the upstream
// http.Response to the Fiber context, filtering headers that should not be
// forwarded back down to the client.
func (h *Handler) SetClientResponseHeaders(c *fiber.Ctx, resp *http.Response) {
	for k, v := range resp.Header {
		if _, skip := skipResponse[http.CanonicalHeaderKey(k)]; !skip {
			c.Set(k, strings.Join(v, ", "))
		}
	}
}
