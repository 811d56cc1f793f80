package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nusapay/nusapay-api/internal/db"
	"github.com/nusapay/nusapay-api/internal/gas"
	"github.com/nusapay/nusapay-api/internal/logger"
	"go.uber.org/zap"
)

// DefaultPriceTTL bounds how stale a cached price snapshot may be. Prices in
// the store are refreshed every few seconds by the sync worker, so a short
// TTL keeps estimates fresh without hammering the database.
const DefaultPriceTTL = 10 * time.Second

// PriceOracle reads the native-asset USD price and the USD-to-fiat rate from
// the price store, caching both behind a short TTL. A failed leg degrades to
// 0 with a warning; reads never fail. Concurrent refreshes of the same entry
// may race; the duplicate fetch is accepted in exchange for lock-free reads.
type PriceOracle struct {
	queries db.Querier
	logger  *zap.Logger
	ttl     time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedSnapshot
}

type cachedSnapshot struct {
	snapshot  gas.PriceSnapshot
	expiresAt time.Time
}

// NewPriceOracle creates a price oracle over the given store. ttl <= 0 uses
// DefaultPriceTTL.
func NewPriceOracle(queries db.Querier, ttl time.Duration) *PriceOracle {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	return &PriceOracle{
		queries: queries,
		logger:  logger.Log,
		ttl:     ttl,
		cache:   make(map[string]*cachedSnapshot),
	}
}

// Snapshot returns the cached price pair for (priceSymbol, fiatPair),
// refetching synchronously when the entry is missing or expired. Both legs
// are independent and fetched concurrently.
func (o *PriceOracle) Snapshot(ctx context.Context, priceSymbol, fiatPair string) gas.PriceSnapshot {
	key := fmt.Sprintf("%s_%s", priceSymbol, fiatPair)

	o.mu.RLock()
	if entry, ok := o.cache[key]; ok && time.Now().Before(entry.expiresAt) {
		snapshot := entry.snapshot
		o.mu.RUnlock()
		return snapshot
	}
	o.mu.RUnlock()

	snapshot := o.fetch(ctx, priceSymbol, fiatPair)

	o.mu.Lock()
	o.cache[key] = &cachedSnapshot{
		snapshot:  snapshot,
		expiresAt: snapshot.FetchedAt.Add(o.ttl),
	}
	o.mu.Unlock()

	return snapshot
}

func (o *PriceOracle) fetch(ctx context.Context, priceSymbol, fiatPair string) gas.PriceSnapshot {
	var (
		wg       sync.WaitGroup
		nativeUSD float64
		fiatRate  float64
		priceErr  error
		rateErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		price, err := o.queries.GetCryptoPrice(ctx, priceSymbol)
		if err != nil {
			priceErr = err
			return
		}
		nativeUSD = price.PriceUsd
	}()
	go func() {
		defer wg.Done()
		rate, err := o.queries.GetExchangeRate(ctx, fiatPair)
		if err != nil {
			rateErr = err
			return
		}
		fiatRate = rate.Rate
	}()
	wg.Wait()

	snapshot := gas.PriceSnapshot{
		NativeUSD:   nativeUSD,
		USDFiatRate: fiatRate,
		FetchedAt:   time.Now(),
	}

	if priceErr != nil || nativeUSD <= 0 {
		if priceErr != nil {
			o.logger.Warn("native price fetch failed",
				zap.String("symbol", priceSymbol),
				zap.Error(priceErr))
		}
		snapshot.NativeUSD = 0
		snapshot.Warnings = append(snapshot.Warnings, gas.WarnNativePriceMissing)
	}
	if rateErr != nil || fiatRate <= 0 {
		if rateErr != nil {
			o.logger.Warn("fiat rate fetch failed",
				zap.String("pair", fiatPair),
				zap.Error(rateErr))
		}
		snapshot.USDFiatRate = 0
		snapshot.Warnings = append(snapshot.Warnings, gas.WarnFiatRateMissing)
	}

	return snapshot
}

// ClearCache drops all cached snapshots.
func (o *PriceOracle) ClearCache() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cache = make(map[string]*cachedSnapshot)
}
