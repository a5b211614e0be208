package utils

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	blacklistedTokens = make(map[string]time.Time)
	blacklistMutex    sync.RWMutex
)

// BlacklistToken menyimpan token sampai waktu kedaluwarsanya sendiri.
func BlacklistToken(token string, expiresAt time.Time) {
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(24 * time.Hour)
	}
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	blacklistedTokens[token] = expiresAt
}

func IsTokenBlacklisted(token string) bool {
	blacklistMutex.RLock()
	expiry, exists := blacklistedTokens[token]
	blacklistMutex.RUnlock()

	return exists && time.Now().Before(expiry)
}

// CleanupBlacklist removes expired entries every interval until ctx is done.
func CleanupBlacklist(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			purgeBlacklist(now)
		}
	}
}

func purgeBlacklist(now time.Time) {
	blacklistMutex.Lock()
	defer blacklistMutex.Unlock()
	for token, expiry := range blacklistedTokens {
		if now.After(expiry) {
			delete(blacklistedTokens, token)
		}
	}
}

// ValidateToken = ParseToken + blacklist check.
func ValidateToken(tokenString string) (*CustomClaims, error) {
	if IsTokenBlacklisted(tokenString) {
		return nil, errors.New("token telah di-blacklist")
	}
	return ParseToken(tokenString)
}
