package domain

// Loan Model
type Loan struct {
	ID         uint    `json:"id"`         // Sequential identifier
	UserID     uint    `json:"userId"`     // Applicant
	LoanID     uint    `json:"loanId"`     // References a static loan option
	Amount     float64 `json:"amount"`     // Approved amount
	Status     string  `json:"status"`     // Always "Approved"
	CreditedTo string  `json:"creditedTo"` // Account number the funds went to
}

// LoanOption is a static loan product, never persisted
type LoanOption struct {
	ID           uint    `json:"id"`           // Option identifier
	Name         string  `json:"name"`         // Product name
	InterestRate string  `json:"interestRate"` // Display rate, e.g. "5%"
	MaxAmount    float64 `json:"maxAmount"`    // Advertised cap
}
