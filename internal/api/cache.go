package api

import (
	"strconv" // Cache key formatting

	"finwallet/internal/utils" // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// walletCacheKey is the cache key for a user's wallet
func walletCacheKey(userID uint) string {
	return "wallet:user:" + strconv.FormatUint(uint64(userID), 10)
}

// txCacheKey is the cache key for a user's transaction history
func txCacheKey(userID uint) string {
	return "txhistory:user:" + strconv.FormatUint(uint64(userID), 10)
}

// invalidateUserCache drops the user's cached wallet and transaction history
// after a balance-changing operation
func invalidateUserCache(c *gin.Context, rdb *redis.Client, userID uint) {
	ctx := c.Request.Context()
	_ = utils.DeleteCache(ctx, rdb, walletCacheKey(userID))
	_ = utils.DeleteCache(ctx, rdb, txCacheKey(userID))
}
