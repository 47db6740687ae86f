package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/BouramaNG/designfrontwaw-sub001/internal/confirmation"

	"github.com/redis/go-redis/v9"
)

type GetConfirmation struct {
	flow        *confirmation.Flow
	redisClient *redis.Client
	ttl         time.Duration
	logger      *slog.Logger
}

// NewGetConfirmation caches Found views in redisClient for ttl. A nil client
// or a zero ttl disables the cache.
func NewGetConfirmation(flow *confirmation.Flow, redisClient *redis.Client, ttl time.Duration, logger *slog.Logger) *GetConfirmation {
	if logger == nil {
		logger = slog.Default()
	}
	return &GetConfirmation{flow: flow, redisClient: redisClient, ttl: ttl, logger: logger}
}

func (uc *GetConfirmation) Execute(ctx context.Context, q url.Values) confirmation.View {
	ref, ok := confirmation.ReferenceFrom(q)
	if !ok || !uc.cacheEnabled() {
		return uc.flow.Resolve(ctx, q)
	}

	cacheKey := fmt.Sprintf("confirmation:%s", ref)
	if val, err := uc.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		var v confirmation.View
		if err := json.Unmarshal([]byte(val), &v); err == nil {
			return v
		}
	}

	v := uc.flow.Resolve(ctx, q)
	// NotFound is not cached so a just-created order shows up on reload.
	if v.State == confirmation.StateFound {
		if data, err := json.Marshal(v); err == nil {
			if err := uc.redisClient.Set(ctx, cacheKey, data, uc.ttl).Err(); err != nil {
				uc.logger.Warn("confirmation: cache write failed", "reference", ref, "error", err)
			}
		}
	}
	return v
}

func (uc *GetConfirmation) cacheEnabled() bool {
	return uc.redisClient != nil && uc.ttl > 0
}
