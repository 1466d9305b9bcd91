package store

import (
	"math/rand/v2" // Account number generation
	"strconv"      // Number formatting

	"finwallet/internal/domain" // Importing domain models
)

// CreateUser appends a new unverified user. Fails if the email is taken.
func (s *Store) CreateUser(email, password, fullName string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.doc.Users {
		if u.Email == email {
			return domain.User{}, ErrUserExists
		}
	}
	user := domain.User{
		ID:       s.nextUserID,
		Email:    email,
		Password: password,
		FullName: fullName,
		Verified: false,
	}
	s.nextUserID++
	s.doc.Users = append(s.doc.Users, user)
	s.persist()
	return user, nil
}

// Authenticate returns the user matching the credentials exactly
func (s *Store) Authenticate(email, password string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.doc.Users {
		if u.Email == email && u.Password == password {
			return u, nil
		}
	}
	return domain.User{}, ErrInvalidCredentials
}

// UserByID returns the user with the given id
func (s *Store) UserByID(id uint) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.doc.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return domain.User{}, ErrUserNotFound
}

// Verify flips the user's verified flag. There is no challenge protocol.
func (s *Store) Verify(userID uint) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.doc.Users {
		if s.doc.Users[i].ID == userID {
			s.doc.Users[i].Verified = true
			s.persist()
			return s.doc.Users[i], nil
		}
	}
	return domain.User{}, ErrUserNotFound
}

// CreateWallet creates the user's wallet with zero balance and a fresh
// account number. At most one wallet per user.
func (s *Store) CreateWallet(userID uint) (domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findWalletByUser(userID) >= 0 {
		return domain.Wallet{}, ErrWalletExists
	}
	wallet := domain.Wallet{
		ID:            s.nextWallID,
		UserID:        userID,
		Balance:       0,
		AccountNumber: s.newAccountNumber(),
	}
	s.nextWallID++
	s.doc.Wallets = append(s.doc.Wallets, wallet)
	s.persist()
	return wallet, nil
}

// WalletByUser returns the wallet owned by userID
func (s *Store) WalletByUser(userID uint) (domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findWalletByUser(userID); i >= 0 {
		return s.doc.Wallets[i], nil
	}
	return domain.Wallet{}, ErrWalletNotFound
}

// Lookup resolves an account number to its wallet and the owner's display name
func (s *Store) Lookup(accountNumber string) (domain.Wallet, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findWalletByAccount(accountNumber)
	if i < 0 {
		return domain.Wallet{}, "", ErrWalletNotFound
	}
	wallet := s.doc.Wallets[i]
	ownerName := "Unknown User"
	for _, u := range s.doc.Users {
		if u.ID == wallet.UserID {
			ownerName = u.FullName
			break
		}
	}
	return wallet, ownerName, nil
}

// findWalletByUser returns the index of userID's wallet, or -1. Caller holds the lock.
func (s *Store) findWalletByUser(userID uint) int {
	for i, w := range s.doc.Wallets {
		if w.UserID == userID {
			return i
		}
	}
	return -1
}

// findWalletByAccount returns the index of the wallet with the account number, or -1.
// Caller holds the lock.
func (s *Store) findWalletByAccount(accountNumber string) int {
	for i, w := range s.doc.Wallets {
		if w.AccountNumber == accountNumber {
			return i
		}
	}
	return -1
}

// newAccountNumber generates a random 10-digit account number, re-rolling
// while it collides with an existing wallet. Caller holds the lock.
func (s *Store) newAccountNumber() string {
	for {
		n := 1000000000 + rand.Int64N(9000000000)
		acct := strconv.FormatInt(n, 10)
		if s.findWalletByAccount(acct) < 0 {
			return acct
		}
	}
}
