package api

import (
	"errors"   // Sentinel error matching
	"net/http" // HTTP status codes

	"finwallet/internal/domain" // Importing domain models
	"finwallet/internal/store"  // Document store
	"finwallet/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// OnboardingRequest is the body for user onboarding
type OnboardingRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
	FullName string `json:"fullName" binding:"required"` // Full name must be provided
}

// LoginRequest is the body for login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// VerifyRequest is the body for the verification flow
type VerifyRequest struct {
	UserID uint `json:"userId" binding:"required"` // User to verify
}

// UserResponse is a user without the password field
type UserResponse struct {
	ID       uint   `json:"id"`       // User ID
	Email    string `json:"email"`    // Email address
	FullName string `json:"fullName"` // Display name
	Verified bool   `json:"verified"` // Verification flag
}

// userResponse strips the password from a user record
func userResponse(u domain.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, FullName: u.FullName, Verified: u.Verified}
}

// OnboardingHandler registers a new user
func OnboardingHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req OnboardingRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		user, err := s.CreateUser(req.Email, req.Password, req.FullName)
		if err != nil {
			// Duplicate email is the only creation failure
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}
		// Log successful onboarding
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,                      // New user ID
			"email":      user.Email,                   // Email address
			"request_id": c.GetString("requestID"),     // Request correlation id
		}).Info("User onboarded")
		c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": userResponse(user)})
	}
}

// LoginHandler authenticates a user and issues a session token
func LoginHandler(s *store.Store, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := s.Authenticate(req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Issue a session token alongside the user record
		token, err := utils.GenerateJWT(user.ID, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": userResponse(user), "token": token})
	}
}

// VerifyHandler marks a user as verified
func VerifyHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		user, err := s.Verify(req.UserID)
		if errors.Is(err, store.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Log verification
		logrus.WithFields(logrus.Fields{
			"user_id":    user.ID,                  // Verified user ID
			"request_id": c.GetString("requestID"), // Request correlation id
		}).Info("User verified")
		c.JSON(http.StatusOK, gin.H{"message": "Verification successful", "verified": true, "user": userResponse(user)})
	}
}

// MeHandler returns the authenticated user's record
func MeHandler(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		user, err := s.UserByID(userID.(uint))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": userResponse(user)})
	}
}
