package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderIdempotencyHit = "X-Idempotency-Hit"

	lockTTL     = 30 * time.Second
	responseTTL = 24 * time.Hour
	inProgress  = "PROCESSING"
)

type storedResponse struct {
	Status int             `json:"status"`
	Body   json.RawMessage `json:"body"`
}

// recorder tees the response so it can be replayed for a repeated key.
type recorder struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (r *recorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *recorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Idempotency replays the first response for a repeated Idempotency-Key
// from the same visitor. A request that is still running under the same key
// gets 409. Server errors release the key so the client may retry, and an
// unreadable stored value is dropped. A nil client or a redis failure passes
// requests straight through.
func Idempotency(redisClient *redis.Client, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Only apply to state-changing methods
			if redisClient == nil || (r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch) {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get(HeaderIdempotencyKey)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			// keys are per visitor so a replay never serves another visitor's response
			idemKey := fmt.Sprintf("idempotency:%s:%s:%s", SessionID(r), r.URL.Path, key)
			ctx := r.Context()

			val, err := redisClient.Get(ctx, idemKey).Result()
			switch {
			case err == nil && val == inProgress:
				writeConflict(w)
				return
			case err == nil:
				var stored storedResponse
				if err := json.Unmarshal([]byte(val), &stored); err == nil && stored.Status >= http.StatusOK {
					w.Header().Set("Content-Type", "application/json")
					w.Header().Set(HeaderIdempotencyHit, "true")
					w.WriteHeader(stored.Status)
					_, _ = w.Write(stored.Body)
					return
				}
				logger.Warn("idempotency: dropping unreadable stored response", "key", idemKey)
				if err := redisClient.Del(ctx, idemKey).Err(); err != nil {
					logger.Warn("idempotency: redis unavailable", "error", err)
					next.ServeHTTP(w, r)
					return
				}
			case !errors.Is(err, redis.Nil):
				logger.Warn("idempotency: redis unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			acquired, err := redisClient.SetNX(ctx, idemKey, inProgress, lockTTL).Result()
			if err != nil || !acquired {
				writeConflict(w)
				return
			}

			rec := &recorder{ResponseWriter: w}
			next.ServeHTTP(rec, r)

			if rec.status >= http.StatusInternalServerError || !json.Valid(rec.body.Bytes()) {
				redisClient.Del(ctx, idemKey)
				return
			}

			data, _ := json.Marshal(storedResponse{Status: rec.status, Body: rec.body.Bytes()})
			if err := redisClient.Set(ctx, idemKey, data, responseTTL).Err(); err != nil {
				logger.Warn("idempotency: store response failed", "error", err)
			}
		})
	}
}

func writeConflict(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusConflict)
	_, _ = w.Write([]byte(`{"error": "concurrent request"}`))
}
