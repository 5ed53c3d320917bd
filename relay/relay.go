// Package relay provides the HTTP relay that forwards chat conversations to
// an upstream completion API on behalf of browser clients.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/papercomputeco/chatrelay/pkg/chat"
	"github.com/papercomputeco/chatrelay/pkg/utils"
	"github.com/papercomputeco/chatrelay/relay/header"
)

const (
	chatPath            = "/api/chat"
	faviconPath         = "/favicon.ico"
	chatCompletionsPath = "/chat/completions"

	// maxLoggedBody caps the bytes of a payload written to debug logs.
	maxLoggedBody = 4096
)

// Relay accepts conversations from clients, repairs invalid roles and
// forwards them to the upstream completion API with the relay's credential.
// It holds no per-request state, so requests are served concurrently.
type Relay struct {
	config        Config
	logger        *slog.Logger
	httpClient    *http.Client
	server        *fiber.App
	headerHandler *header.Handler
}

// completion is a successful upstream reply.
type completion struct {
	body json.RawMessage
	resp *http.Response
}

// New creates a new Relay. Returns an error if no credential or upstream is
// configured.
func New(config Config, logger *slog.Logger) (*Relay, error) {
	if config.Credential == "" {
		return nil, errors.New("credential is required")
	}
	if config.UpstreamURL == "" {
		return nil, errors.New("upstream URL is required")
	}
	config.UpstreamURL = strings.TrimRight(config.UpstreamURL, "/")

	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
	}))
	app.Use(compress.New())

	r := &Relay{
		config:        config,
		logger:        logger,
		server:        app,
		headerHandler: header.NewHandler(config.Credential),
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}

	app.Post(chatPath, r.handleChat)
	app.All(faviconPath, r.handleFavicon)

	return r, nil
}

// Run starts the relay on the configured listening address.
func (r *Relay) Run() error {
	r.logger.Info("starting relay server",
		"listen", r.config.ListenAddr,
		"upstream", r.config.UpstreamURL,
	)

	return r.server.Listen(r.config.ListenAddr)
}

// RunWithListener starts the relay using the provided listener.
func (r *Relay) RunWithListener(listener net.Listener) error {
	r.logger.Info("starting relay server",
		"listen", listener.Addr().String(),
		"upstream", r.config.UpstreamURL,
	)

	return r.server.Listener(listener)
}

// Close gracefully shuts down the relay, letting in-flight requests finish.
func (r *Relay) Close() error {
	return r.server.Shutdown()
}

// handleChat sanitizes the client's conversation, forwards it upstream and
// relays the upstream reply.
func (r *Relay) handleChat(c *fiber.Ctx) error {
	startTime := time.Now()
	logger := r.logger.With("request_id", c.GetRespHeader(fiber.HeaderXRequestID))

	turns, err := chat.ParseRequest(c.Body())
	if err != nil {
		logger.Warn("rejected malformed chat request", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	logger.Info("received chat request", "message_count", len(turns))
	if logger.Enabled(c.Context(), slog.LevelDebug) {
		if raw, err := json.Marshal(turns); err == nil {
			logger.Debug("received messages", "messages", utils.Truncate(string(raw), maxLoggedBody))
		}
	}

	sanitized, coerced := chat.Sanitize(turns)
	for _, co := range coerced {
		logger.Warn("invalid role detected, changing it to assistant",
			"index", co.Index,
			"role", co.Role,
		)
	}

	result, err := r.complete(c.Context(), sanitized)
	if err != nil {
		var upErr *UpstreamError
		if !errors.As(err, &upErr) {
			upErr = &UpstreamError{Err: err}
		}

		logger.Error("upstream completion failed",
			"error", err,
			"status", upErr.StatusCode,
			"duration", time.Since(startTime),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: upErr.ClientMessage()})
	}

	logger.Info("relayed completion",
		"status", result.resp.StatusCode,
		"duration", time.Since(startTime),
	)
	logger.Debug("upstream response", "body", utils.Truncate(string(result.body), maxLoggedBody))

	r.headerHandler.SetClientResponseHeaders(c, result.resp)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	return c.Status(fiber.StatusOK).Send(result.body)
}

// handleFavicon answers browsers' favicon probes with an empty response.
func (r *Relay) handleFavicon(c *fiber.Ctx) error {
	c.Status(fiber.StatusNoContent)
	return nil
}

// complete posts the sanitized turns to the upstream completion endpoint.
// Any failure is returned as an *UpstreamError.
func (r *Relay) complete(ctx context.Context, turns []chat.Turn) (*completion, error) {
	payload, err := json.Marshal(chat.NewUpstreamRequest(turns))
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("encoding upstream request: %w", err)}
	}

	url := r.config.UpstreamURL + chatCompletionsPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("creating upstream request: %w", err)}
	}

	r.headerHandler.SetUpstreamRequestHeaders(httpReq)

	r.logger.Debug("forwarding request to upstream",
		"url", url,
		"model", chat.Model,
		"message_count", len(turns),
	)

	httpResp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &UpstreamError{
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("reading upstream response: %w", err),
		}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		r.logger.Debug("upstream error body",
			"status", httpResp.StatusCode,
			"body", utils.Truncate(string(respBody), maxLoggedBody),
		)
		return nil, &UpstreamError{
			StatusCode: httpResp.StatusCode,
			Message:    upstreamErrorMessage(respBody),
			Err:        ErrUpstreamStatus,
		}
	}

	if !gjson.ValidBytes(respBody) {
		return nil, &UpstreamError{
			StatusCode: httpResp.StatusCode,
			Err:        ErrMalformedResponse,
		}
	}

	return &completion{body: respBody, resp: httpResp}, nil
}

// upstreamErrorMessage extracts error.message from an upstream error body.
// It returns "" when the body is not JSON or carries no string message.
func upstreamErrorMessage(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}

	msg := gjson.GetBytes(body, "error.message")
	if msg.Type != gjson.String {
		return ""
	}
	return msg.Str
}

// errorHandler renders errors that escape a handler (unknown routes,
// recovered panics) in the same {"error": ...} shape as relay failures.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := FallbackMessage

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	return c.Status(code).JSON(ErrorResponse{Error: msg})
}
