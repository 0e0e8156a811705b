// RQAGuard - Streaming Recurrence and Fusion Intrusion Detection
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/rqaguard

package logging

import (
	"context"
	"log/slog"
	"time"

	"github.com/rs/zerolog"
)

// fieldSink is satisfied by both zerolog.Context and *zerolog.Event, so
// handler attributes can be baked into a child logger or written per record
// with the same code.
type fieldSink[T any] interface {
	Str(key, val string) T
	Int64(key string, i int64) T
	Uint64(key string, i uint64) T
	Float64(key string, f float64) T
	Bool(key string, b bool) T
	Dur(key string, d time.Duration) T
	Time(key string, t time.Time) T
	Interface(key string, i any) T
}

func putAttr[T fieldSink[T]](dst T, prefix string, a slog.Attr) T {
	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return dst.Str(key, v.String())
	case slog.KindInt64:
		return dst.Int64(key, v.Int64())
	case slog.KindUint64:
		return dst.Uint64(key, v.Uint64())
	case slog.KindFloat64:
		return dst.Float64(key, v.Float64())
	case slog.KindBool:
		return dst.Bool(key, v.Bool())
	case slog.KindDuration:
		return dst.Dur(key, v.Duration())
	case slog.KindTime:
		return dst.Time(key, v.Time())
	case slog.KindGroup:
		for _, member := range v.Group() {
			dst = putAttr(dst, key, member)
		}
		return dst
	default:
		return dst.Interface(key, v.Any())
	}
}

// SlogHandler is a slog.Handler writing through zerolog. Attributes added
// with WithAttrs are baked into the wrapped logger once instead of being
// re-encoded on every record.
type SlogHandler struct {
	logger zerolog.Logger
	prefix string
}

// NewSlogHandler wraps the global logger as it is at call time.
func NewSlogHandler() *SlogHandler {
	return NewSlogHandlerWithLogger(Logger())
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSlogHandlerWithLogger(logger zerolog.Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	zl := slogToZerologLevel(level)
	return zl >= zerolog.GlobalLevel() && zl >= h.logger.GetLevel()
}

//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *SlogHandler) Handle(_ context.Context, rec slog.Record) error {
	e := h.logger.WithLevel(slogToZerologLevel(rec.Level))
	if e == nil {
		return nil
	}
	rec.Attrs(func(a slog.Attr) bool {
		e = putAttr(e, h.prefix, a)
		return true
	})
	e.Msg(rec.Message)
	return nil
}

func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	zc := h.logger.With()
	for _, a := range attrs {
		zc = putAttr(zc, h.prefix, a)
	}
	return &SlogHandler{logger: zc.Logger(), prefix: h.prefix}
}

func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	prefix := name
	if h.prefix != "" {
		prefix = h.prefix + "." + name
	}
	return &SlogHandler{logger: h.logger, prefix: prefix}
}

// slogToZerologLevel buckets slog levels, which may fall between the named
// ones, onto the nearest zerolog level at or below them.
func slogToZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	case level >= slog.LevelDebug:
		return zerolog.DebugLevel
	}
	return zerolog.TraceLevel
}

// NewSlogLogger is what the supervisor tree logs through:
//
//	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), cfg)
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler())
}
