package domain

// Wallet Model
type Wallet struct {
	ID            uint    `json:"id"`            // Sequential identifier
	UserID        uint    `json:"userId"`        // Owning user, one wallet per user
	Balance       float64 `json:"balance"`       // Current balance
	AccountNumber string  `json:"accountNumber"` // Generated 10-digit account number
}
