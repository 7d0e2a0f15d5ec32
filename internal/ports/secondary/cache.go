package secondary

import (
	"context"
	"fmt"
	"time"
)

// AnalyticsCache is a cache-aside store for computed analytics reports.
// Values are opaque encoded reports.
type AnalyticsCache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key for ttl. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Generation returns the user's current cache generation. It starts at 0
	// and only grows.
	Generation(ctx context.Context, userID string) (int64, error)

	// InvalidateUser advances the user's generation and then removes every
	// cached entry of the user.
	InvalidateUser(ctx context.Context, userID string) error
}

// ChallengePresenter runs a Recovery Challenge and reports whether the user
// passed it.
type ChallengePresenter interface {
	Present(ctx context.Context) (bool, error)
}

// AnalyticsKeyPrefix namespaces every analytics cache key.
const AnalyticsKeyPrefix = "streak:analytics:"

// AnalyticsUserPrefix returns the key prefix shared by all entries of a user.
func AnalyticsUserPrefix(userID string) string {
	return AnalyticsKeyPrefix + userID + ":"
}

// AnalyticsGenerationKey returns the key holding a user's cache generation.
// It lives outside the user prefix so invalidation never resets it.
func AnalyticsGenerationKey(userID string) string {
	return "streak:analytics-gen:" + userID
}

// AnalyticsCacheKey returns the key of the report for (user, rangeDays,
// asOfDay) computed in the given generation. A report computed before an
// invalidation lands under an old generation and is never read again.
func AnalyticsCacheKey(userID string, generation int64, rangeDays int, asOfDay string) string {
	return fmt.Sprintf("%sg%d:%d:%s", AnalyticsUserPrefix(userID), generation, rangeDays, asOfDay)
}
