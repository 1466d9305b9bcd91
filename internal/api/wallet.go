package api

import (
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes
	"strconv"  // Path parameter parsing
	"time"     // Cache TTL

	"finwallet/internal/domain" // Importing domain models
	"finwallet/internal/store"  // Document store
	"finwallet/internal/utils"  // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// cacheTTL is how long wallet and transaction reads stay cached
const cacheTTL = 60 * time.Second

// CreateWalletRequest is the body for wallet creation
type CreateWalletRequest struct {
	UserID uint `json:"userId" binding:"required"` // Owner of the new wallet
}

// WithdrawRequest is the body for a withdrawal
type WithdrawRequest struct {
	UserID          uint    `json:"userId" binding:"required"`      // Wallet owner
	Amount          float64 `json:"amount" binding:"required,gt=0"` // Withdrawal amount
	ExternalAccount string  `json:"externalAccount"`                // Destination reference
}

// CreateWalletHandler creates a wallet for a user (one wallet per user)
func CreateWalletHandler(s *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateWalletRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		wallet, err := s.CreateWallet(req.UserID)
		if errors.Is(err, store.ErrWalletExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Wallet already exists"})
			return
		}
		// Log successful wallet creation
		logrus.WithFields(logrus.Fields{
			"user_id":        req.UserID,               // Owner user ID
			"wallet_id":      wallet.ID,                // Wallet ID
			"account_number": wallet.AccountNumber,     // Generated account number
			"request_id":     c.GetString("requestID"), // Request correlation id
		}).Info("Wallet created")
		invalidateUserCache(c, rdb, req.UserID) // Drop any stale cached miss
		c.JSON(http.StatusCreated, gin.H{"message": "Wallet created", "wallet": wallet})
	}
}

// GetWalletHandler returns a user's wallet
func GetWalletHandler(s *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("userId"), 10, 32) // Parse path parameter
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		userID := uint(id)
		ctx := c.Request.Context()
		cacheKey := walletCacheKey(userID)
		var wallet domain.Wallet
		// Serve from cache when possible
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &wallet); err == nil && found {
			c.JSON(http.StatusOK, wallet)
			return
		}
		wallet, err = s.WalletByUser(userID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, wallet, cacheTTL) // Cache the wallet
		c.JSON(http.StatusOK, wallet)
	}
}

// WithdrawHandler moves funds out of a wallet and logs the transaction
func WithdrawHandler(s *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WithdrawRequest // Bind JSON request to struct
		// Non-numeric and non-positive amounts are rejected at the boundary
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount"})
			return
		}
		wallet, err := s.Withdraw(req.UserID, req.Amount, req.ExternalAccount)
		switch {
		case errors.Is(err, store.ErrWalletNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Wallet not found"})
			return
		case errors.Is(err, store.ErrInsufficientFunds):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient funds"})
			return
		}
		// Log successful withdrawal
		logrus.WithFields(logrus.Fields{
			"user_id":    req.UserID,               // Wallet owner
			"amount":     req.Amount,               // Withdrawal amount
			"balance":    wallet.Balance,           // Balance after withdrawal
			"type":       store.TypeWithdrawal,     // Transaction type
			"request_id": c.GetString("requestID"), // Request correlation id
		}).Info("Withdrawal transaction")
		invalidateUserCache(c, rdb, req.UserID) // Drop stale cached reads
		c.JSON(http.StatusOK, gin.H{"message": "Withdrawal successful", "wallet": wallet})
	}
}

// TransactionsHandler returns a user's transactions, most recent first
func TransactionsHandler(s *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("userId"), 10, 32) // Parse path parameter
		if err != nil {
			// Unknown users have no transactions
			c.JSON(http.StatusOK, []domain.Transaction{})
			return
		}
		userID := uint(id)
		ctx := c.Request.Context()
		cacheKey := txCacheKey(userID)
		var transactions []domain.Transaction
		// Serve from cache when possible
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &transactions); err == nil && found {
			c.JSON(http.StatusOK, transactions)
			return
		}
		transactions = s.Transactions(userID)
		_ = utils.SetCache(ctx, rdb, cacheKey, transactions, cacheTTL) // Cache the list
		c.JSON(http.StatusOK, transactions)
	}
}

// LookupHandler resolves an account number to its owner's display name.
// Registered as /wallet/:userId/:accountNumber because gin cannot mix a
// static "lookup" segment with the :userId wildcard; only the account
// number parameter is read.
func LookupHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		accountNumber := c.Param("accountNumber") // Account number from path
		wallet, ownerName, err := s.Lookup(accountNumber)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"valid": true, "ownerName": ownerName, "walletId": wallet.ID})
	}
}
