package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/chatrelay/pkg/logger"
)

func decodeLine(buf *bytes.Buffer) map[string]any {
	var parsed map[string]any
	ExpectWithOffset(1, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &parsed)).To(Succeed())
	return parsed
}

var _ = Describe("New", func() {
	It("writes text records with attributes", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf))
		l.Info("relay started", "listen", ":5000")

		Expect(buf.String()).To(ContainSubstring("relay started"))
		Expect(buf.String()).To(ContainSubstring("listen=:5000"))
	})

	It("drops debug records unless debug is enabled", func() {
		var quiet, loud bytes.Buffer
		logger.New(logger.WithWriter(&quiet)).Debug("upstream body")
		logger.New(logger.WithWriter(&loud), logger.WithDebug(true)).Debug("upstream body")

		Expect(quiet.String()).To(BeEmpty())
		Expect(loud.String()).To(ContainSubstring("upstream body"))
	})

	It("writes one JSON object per record", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
		l.Warn("invalid role detected", "role", "bogus", "index", 1)

		parsed := decodeLine(&buf)
		Expect(parsed["msg"]).To(Equal("invalid role detected"))
		Expect(parsed["level"]).To(Equal("WARN"))
		Expect(parsed["role"]).To(Equal("bogus"))
		Expect(parsed["index"]).To(BeNumerically("==", 1))
	})

	It("prefers JSON over pretty when both are set", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true), logger.WithPretty(true))
		l.Info("chosen")

		Expect(decodeLine(&buf)["msg"]).To(Equal("chosen"))
	})

	It("writes pretty output through charmbracelet/log", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithPretty(true), logger.WithDebug(true))
		l.Debug("pretty output", "status", 200)

		Expect(buf.String()).To(ContainSubstring("pretty output"))
		Expect(buf.String()).To(ContainSubstring("status"))
	})

	It("copies records to every writer", func() {
		var a, b bytes.Buffer
		logger.New(logger.WithWriters(&a, &b)).Info("twice")

		Expect(a.String()).To(ContainSubstring("twice"))
		Expect(b.String()).To(ContainSubstring("twice"))
	})

	It("nests grouped attributes", func() {
		var buf bytes.Buffer
		l := logger.New(logger.WithWriter(&buf), logger.WithJSON(true))
		l.WithGroup("upstream").Info("responded", "status", 502)

		group, ok := decodeLine(&buf)["upstream"].(map[string]any)
		Expect(ok).To(BeTrue())
		Expect(group["status"]).To(BeNumerically("==", 502))
	})
})

var _ = Describe("Nop", func() {
	It("is disabled at every level", func() {
		l := logger.Nop()
		Expect(l.Handler().Enabled(context.Background(), slog.LevelError)).To(BeFalse())
		Expect(func() { l.With("k", "v").Error("ignored") }).NotTo(Panic())
	})
})

var _ = Describe("Multi", func() {
	It("dispatches to all loggers", func() {
		var text, js bytes.Buffer
		multi := logger.Multi(
			logger.New(logger.WithWriter(&text)),
			logger.New(logger.WithWriter(&js), logger.WithJSON(true)),
		)

		multi.Info("broadcast", "request_id", "abc")

		Expect(text.String()).To(ContainSubstring("broadcast"))
		Expect(decodeLine(&js)["request_id"]).To(Equal("abc"))
	})

	It("keeps bound attributes on every child handler", func() {
		var buf bytes.Buffer
		multi := logger.Multi(logger.New(logger.WithWriter(&buf), logger.WithJSON(true)))

		multi.With("component", "relay").Info("hello")

		Expect(decodeLine(&buf)["component"]).To(Equal("relay"))
	})

	It("only forwards records a child handler accepts", func() {
		var info, debug bytes.Buffer
		multi := logger.Multi(
			logger.New(logger.WithWriter(&info)),
			logger.New(logger.WithWriter(&debug), logger.WithDebug(true)),
		)

		multi.Debug("details")

		Expect(info.String()).To(BeEmpty())
		Expect(debug.String()).To(ContainSubstring("details"))
	})

	It("keeps writing to the other loggers when one fails", func() {
		var buf bytes.Buffer
		multi := logger.Multi(
			logger.New(logger.WithWriter(failingWriter{}), logger.WithJSON(true)),
			logger.New(logger.WithWriter(&buf), logger.WithJSON(true)),
		)

		r := slog.NewRecord(time.Now(), slog.LevelInfo, "still here", 0)
		err := multi.Handler().Handle(context.Background(), r)

		Expect(err).To(MatchError(errDiskFull))
		Expect(decodeLine(&buf)["msg"]).To(Equal("still here"))
	})

	It("skips nil loggers", func() {
		var buf bytes.Buffer
		multi := logger.Multi(nil, logger.New(logger.WithWriter(&buf), logger.WithJSON(true)))

		multi.Info("hello")

		Expect(decodeLine(&buf)["msg"]).To(Equal("hello"))
	})
})

var errDiskFull = errors.New("disk full")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }
