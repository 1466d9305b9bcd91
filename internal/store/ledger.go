package store

import (
	"sort" // Transaction ordering
	"time" // Transaction timestamps

	"finwallet/internal/domain" // Importing domain models
)

// Transaction types and terminal statuses
const (
	TypeWithdrawal = "Withdrawal"
	TypeLoanCredit = "Loan Credit"

	statusCompleted = "Completed"
	statusApproved  = "Approved"
)

// isoMillis matches the original document's timestamps: UTC, millisecond precision
const isoMillis = "2006-01-02T15:04:05.000Z"

// Static loan catalog, configuration data rather than stored state
var loanCatalog = []domain.LoanOption{
	{ID: 1, Name: "Personal Loan", InterestRate: "5%", MaxAmount: 5000},
	{ID: 2, Name: "Home Improvement", InterestRate: "4.5%", MaxAmount: 15000},
	{ID: 3, Name: "Business Starter", InterestRate: "6%", MaxAmount: 10000},
}

// LoanOptions returns the static loan catalog
func (s *Store) LoanOptions() []domain.LoanOption {
	return loanCatalog
}

// Withdraw decrements the user's wallet balance and logs a Withdrawal
// transaction. The balance never goes below zero.
func (s *Store) Withdraw(userID uint, amount float64, externalAccount string) (domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findWalletByUser(userID)
	if i < 0 {
		return domain.Wallet{}, ErrWalletNotFound
	}
	wallet := &s.doc.Wallets[i]
	if amount > wallet.Balance {
		return domain.Wallet{}, ErrInsufficientFunds
	}
	wallet.Balance -= amount
	s.appendTransaction(userID, TypeWithdrawal, amount, externalAccount)
	s.persist()
	return *wallet, nil
}

// ApplyLoan records an approved loan and credits the target wallet,
// resolved by account number when given, else by the applicant's user id.
// Every application is approved immediately; there is no underwriting.
func (s *Store) ApplyLoan(userID, loanID uint, amount float64, accountNumber string) (domain.Loan, domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var i int
	if accountNumber != "" {
		i = s.findWalletByAccount(accountNumber)
	} else {
		i = s.findWalletByUser(userID)
	}
	if i < 0 {
		return domain.Loan{}, domain.Wallet{}, ErrInvalidAccount
	}
	wallet := &s.doc.Wallets[i]
	loan := domain.Loan{
		ID:         s.nextLoanID,
		UserID:     userID,
		LoanID:     loanID,
		Amount:     amount,
		Status:     statusApproved,
		CreditedTo: wallet.AccountNumber,
	}
	s.nextLoanID++
	s.doc.Loans = append(s.doc.Loans, loan)
	wallet.Balance += amount
	// The credit belongs to the wallet owner, not necessarily the applicant
	s.appendTransaction(wallet.UserID, TypeLoanCredit, amount, "")
	s.persist()
	return loan, *wallet, nil
}

// Transactions returns the user's transactions ordered by date descending
func (s *Store) Transactions(userID uint) []domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Transaction{}
	for _, t := range s.doc.Transactions {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	// Timestamps share a fixed-width layout, so the lexicographic order is
	// the chronological order
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// appendTransaction appends a completed ledger entry. Caller holds the lock.
func (s *Store) appendTransaction(userID uint, txType string, amount float64, externalAccount string) domain.Transaction {
	t := domain.Transaction{
		ID:              s.nextTxID,
		UserID:          userID,
		Type:            txType,
		Amount:          amount,
		ExternalAccount: externalAccount,
		Date:            time.Now().UTC().Format(isoMillis),
		Status:          statusCompleted,
	}
	s.nextTxID++
	s.doc.Transactions = append(s.doc.Transactions, t)
	return t
}
