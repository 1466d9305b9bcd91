package api

import (
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes

	"finwallet/internal/store" // Document store

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// ApplyLoanRequest is the body for a loan application. The wallet is
// resolved by accountNumber when given, else by userId.
type ApplyLoanRequest struct {
	UserID        uint    `json:"userId"`                         // Applicant, optional with accountNumber
	LoanID        uint    `json:"loanId" binding:"required"`      // Static loan option id
	Amount        float64 `json:"amount" binding:"required,gt=0"` // Requested amount
	AccountNumber string  `json:"accountNumber"`                  // Target account, optional
}

// LoanOptionsHandler returns the static loan catalog
func LoanOptionsHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, s.LoanOptions())
	}
}

// ApplyLoanHandler records an approved loan and credits the target wallet
func ApplyLoanHandler(s *store.Store, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ApplyLoanRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		loan, wallet, err := s.ApplyLoan(req.UserID, req.LoanID, req.Amount, req.AccountNumber)
		if errors.Is(err, store.ErrInvalidAccount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid wallet account"})
			return
		}
		// Log the approved loan credit
		logrus.WithFields(logrus.Fields{
			"user_id":     loan.UserID,              // Applicant
			"loan_id":     loan.LoanID,              // Static option id
			"amount":      loan.Amount,              // Credited amount
			"credited_to": loan.CreditedTo,          // Target account number
			"type":        store.TypeLoanCredit,     // Transaction type
			"request_id":  c.GetString("requestID"), // Request correlation id
		}).Info("Loan credit transaction")
		invalidateUserCache(c, rdb, wallet.UserID) // The credit lands on the wallet owner
		c.JSON(http.StatusCreated, gin.H{"message": "Loan approved", "loan": loan, "newBalance": wallet.Balance})
	}
}
