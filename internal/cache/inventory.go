package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache key builders. Every cached entity has exactly one key shape so
// invalidation stays greppable.
func UserKey(id uint) string           { return fmt.Sprintf("user:%d", id) }
func ProfileKey(userID uint) string    { return fmt.Sprintf("profile:user:%d", userID) }
func ProfilesListKey() string          { return "profiles:list" }
func GithubKey(username string) string { return fmt.Sprintf("github:%s", username) }

// TTLs per entity. Profiles change more often than accounts; the GitHub
// proxy cache mostly exists to stay under the unauthenticated rate limit.
const (
	UserTTL         = 15 * time.Minute
	ProfileTTL      = 5 * time.Minute
	ProfilesListTTL = 1 * time.Minute
	GithubTTL       = 10 * time.Minute
)

// InvalidateUser drops the cached user record.
func InvalidateUser(ctx context.Context, id uint) {
	Invalidate(ctx, UserKey(id))
}

// InvalidateProfile drops the cached profile for a user along with the
// profiles list, which embeds it.
func InvalidateProfile(ctx context.Context, userID uint) {
	Invalidate(ctx, ProfileKey(userID), ProfilesListKey())
}
