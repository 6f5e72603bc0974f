package cache

import "strings"

const (
	GlobalKeyPrefix = "quizlearn"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// StatsKey holds the cached global counts.
func StatsKey() string {
	return GenerateCacheKey("admin", "stats", "global")
}

// DraftKey holds the unsaved answers of one learner for one topic.
func DraftKey(userID, topicID string) string {
	return GenerateCacheKey("test", "draft", userID, topicID)
}

// RevokedTokenKey marks a logged-out access token by its jti.
func RevokedTokenKey(tokenID string) string {
	return GenerateCacheKey("auth", "revoked", tokenID)
}
