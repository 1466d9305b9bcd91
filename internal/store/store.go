package store

import (
	"encoding/json" // Document encoding
	"errors"        // Sentinel errors
	"fmt"           // Error wrapping
	"os"            // File access
	"sync"          // Mutex for concurrent handlers

	"finwallet/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
)

// Sentinel errors returned by store operations, mapped to HTTP statuses in the API layer
var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrWalletExists       = errors.New("wallet already exists")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidAccount     = errors.New("invalid wallet account")
)

// document is the on-disk representation: one JSON file, four collections
type document struct {
	Users        []domain.User        `json:"users"`        // All users
	Wallets      []domain.Wallet      `json:"wallets"`      // All wallets
	Loans        []domain.Loan        `json:"loans"`        // All loans
	Transactions []domain.Transaction `json:"transactions"` // Append-only ledger
}

// Store owns the document file and the in-memory copy of it.
// Every operation takes the mutex: gin serves requests concurrently.
type Store struct {
	mu   sync.Mutex // Guards doc, counters and the file
	path string     // Document file path
	doc  document   // In-memory copy of the document

	// Monotonic id counters, seeded max(id)+1 at load
	nextUserID uint
	nextWallID uint
	nextLoanID uint
	nextTxID   uint
}

// Open loads the document at path, creating an empty one if none exists
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run: write the empty default document
		s.doc = document{
			Users:        []domain.User{},
			Wallets:      []domain.Wallet{},
			Loans:        []domain.Loan{},
			Transactions: []domain.Transaction{},
		}
		if err := s.writeFile(); err != nil {
			return nil, fmt.Errorf("initialize store %s: %w", path, err)
		}
	case err != nil:
		return nil, fmt.Errorf("read store %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &s.doc); err != nil {
			return nil, fmt.Errorf("decode store %s: %w", path, err)
		}
	}
	s.seedCounters()
	logrus.WithField("path", path).Info("Store loaded into memory")
	return s, nil
}

// seedCounters sets each id counter to max(id)+1 over its collection,
// so ids stay unique even if records were ever removed by hand
func (s *Store) seedCounters() {
	s.nextUserID, s.nextWallID, s.nextLoanID, s.nextTxID = 1, 1, 1, 1
	for _, u := range s.doc.Users {
		if u.ID >= s.nextUserID {
			s.nextUserID = u.ID + 1
		}
	}
	for _, w := range s.doc.Wallets {
		if w.ID >= s.nextWallID {
			s.nextWallID = w.ID + 1
		}
	}
	for _, l := range s.doc.Loans {
		if l.ID >= s.nextLoanID {
			s.nextLoanID = l.ID + 1
		}
	}
	for _, t := range s.doc.Transactions {
		if t.ID >= s.nextTxID {
			s.nextTxID = t.ID + 1
		}
	}
}

// Save flushes the in-memory document to disk
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeFile()
}

// writeFile rewrites the whole document, pretty-printed. Caller holds the lock.
func (s *Store) writeFile() error {
	b, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

// persist rewrites the document after a mutation. Failures are logged and
// swallowed: the mutation already happened in memory and the caller has no
// rollback path. Caller holds the lock.
func (s *Store) persist() {
	if err := s.writeFile(); err != nil {
		logrus.WithFields(logrus.Fields{
			"path":  s.path,
			"error": err.Error(),
		}).Error("Failed to persist store")
	}
}
