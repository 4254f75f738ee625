package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mintly/mintly-api/internal/api/handler/v1/response"
	"github.com/mintly/mintly-api/internal/domain"
	"github.com/mintly/mintly-api/internal/metrics"
)

const (
	IdempotencyHeader = "Idempotency-Key"
	ReplayedHeader    = "Idempotent-Replayed"

	maxIdempotencyKeyLength = 255
)

var (
	errKeyTooLong      = errors.New("idempotency key must be at most 255 characters")
	errKeyInFlight     = errors.New("a request with this idempotency key is still in progress")
	errKeyReusedOnPath = errors.New("idempotency key was already used for a different request")
)

// IdempotencyStore is shared by every replica; Reserve must be atomic.
type IdempotencyStore interface {
	// Reserve claims entry.Key. When the key is already held it returns the
	// stored entry, which is pending while the first request still runs.
	Reserve(ctx context.Context, entry domain.IdempotentResponse) (domain.IdempotentResponse, bool, error)
	Complete(ctx context.Context, resp domain.IdempotentResponse) error
	Release(ctx context.Context, key string) error
}

// Idempotency replays the stored response when a request repeats an
// Idempotency-Key. Requests without the header pass through. Server errors
// and throttled responses are not stored so the client can retry them.
type Idempotency struct {
	store IdempotencyStore
}

func NewIdempotency(store IdempotencyStore) *Idempotency {
	return &Idempotency{
		store: store,
	}
}

func (i *Idempotency) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		key := strings.TrimSpace(ctx.GetHeader(IdempotencyHeader))
		if key == "" {
			ctx.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			response.RenderErr(ctx, response.ErrBadRequest(errKeyTooLong))
			return
		}

		entry := domain.IdempotentResponse{
			Key:       key,
			RequestID: requestid.Get(ctx),
			Method:    ctx.Request.Method,
			Path:      ctx.Request.URL.Path,
			CreatedAt: time.Now(),
		}

		held, reserved, err := i.store.Reserve(ctx.Request.Context(), entry)
		if err != nil {
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
		if !reserved {
			i.replay(ctx, held)
			return
		}

		// Also runs when the handler panics.
		settled := false
		defer func() {
			if !settled {
				i.release(ctx, key)
			}
		}()

		writer := &bodyWriter{ResponseWriter: ctx.Writer}
		ctx.Writer = writer
		ctx.Next()

		status := writer.Status()
		if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
			return
		}

		settled = true
		entry.Status = status
		entry.Body = writer.body.String()
		if err = i.store.Complete(context.WithoutCancel(ctx.Request.Context()), entry); err != nil {
			zap.L().Warn("failed to store idempotent response",
				zap.String("idempotency_key", key),
				zap.Error(err),
			)
		}
	}
}

func (i *Idempotency) replay(ctx *gin.Context, stored domain.IdempotentResponse) {
	if stored.Method != ctx.Request.Method || stored.Path != ctx.Request.URL.Path {
		response.RenderErr(ctx, response.ErrUnprocessable("idempotency_key_reused", errKeyReusedOnPath))
		return
	}
	if stored.Pending() {
		response.RenderErr(ctx, response.ErrConflict("idempotency_in_progress", errKeyInFlight))
		return
	}

	metrics.IncIdempotentReplay()
	ctx.Header(ReplayedHeader, "true")
	ctx.Data(stored.Status, "application/json; charset=utf-8", []byte(stored.Body))
	ctx.Abort()
}

func (i *Idempotency) release(ctx *gin.Context, key string) {
	if err := i.store.Release(context.WithoutCancel(ctx.Request.Context()), key); err != nil {
		zap.L().Warn("failed to release idempotency key",
			zap.String("idempotency_key", key),
			zap.Error(err),
		)
	}
}

type bodyWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
