package domain

// User Model
type User struct {
	ID       uint   `json:"id"`       // Sequential identifier
	Email    string `json:"email"`    // Unique email address
	Password string `json:"password"` // Stored as provided, compared exactly on login
	FullName string `json:"fullName"` // Display name
	Verified bool   `json:"verified"` // Flipped true by the verification flow
}
