package domain

// Transaction Model
type Transaction struct {
	ID              uint    `json:"id"`                        // Sequential identifier
	UserID          uint    `json:"userId"`                    // Wallet owner affected
	Type            string  `json:"type"`                      // Transaction type: Withdrawal, Loan Credit
	Amount          float64 `json:"amount"`                    // Amount moved
	ExternalAccount string  `json:"externalAccount,omitempty"` // Destination reference, withdrawals only
	Date            string  `json:"date"`                      // ISO-8601 UTC timestamp
	Status          string  `json:"status"`                    // Always "Completed"
}
