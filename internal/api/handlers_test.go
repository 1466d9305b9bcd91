package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"finwallet/internal/middleware"
	"finwallet/internal/store"
	"finwallet/internal/utils"

	"github.com/gin-gonic/gin"
)

const testJWTSecret = "test-secret"

// ---- helpers ----

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	s, err := store.Open(filepath.Join(t.TempDir(), "db.json"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	r := gin.New()
	apiGroup := r.Group("/api")
	apiGroup.POST("/onboarding", OnboardingHandler(s))
	apiGroup.POST("/login", LoginHandler(s, testJWTSecret))
	apiGroup.POST("/verify", VerifyHandler(s))
	apiGroup.POST("/wallet/create", CreateWalletHandler(s, nil))
	apiGroup.POST("/wallet/withdraw", WithdrawHandler(s, nil))
	apiGroup.GET("/wallet/:userId", GetWalletHandler(s, nil))
	apiGroup.GET("/wallet/:userId/:accountNumber", LookupHandler(s))
	apiGroup.GET("/transactions/:userId", TransactionsHandler(s, nil))
	apiGroup.GET("/loans/static", LoanOptionsHandler(s))
	apiGroup.POST("/loans/apply", ApplyLoanHandler(s, nil))
	meGroup := apiGroup.Group("/me")
	meGroup.Use(middleware.JWTAuthMiddleware(testJWTSecret))
	meGroup.GET("", MeHandler(s))
	return r, s
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// ---- tests ----

func TestOnboarding(t *testing.T) {
	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "success - user created",
			body:           map[string]string{"email": "a@x.com", "password": "pw", "fullName": "A"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - missing fields",
			body:           map[string]string{"email": "b@x.com"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Missing required fields",
		},
		{
			name:           "bad request - duplicate email",
			body:           map[string]string{"email": "a@x.com", "password": "pw2", "fullName": "A2"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "User already exists",
		},
	}

	router, _ := newTestRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/onboarding", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			resp := decodeBody(t, w)
			if tt.expectedError != "" && resp["error"] != tt.expectedError {
				t.Errorf("expected error %q, got %v", tt.expectedError, resp["error"])
			}
		})
	}
}

func TestOnboardingNeverReturnsPassword(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doRequest(router, http.MethodPost, "/api/onboarding", map[string]string{
		"email": "a@x.com", "password": "pw", "fullName": "A",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	user, ok := decodeBody(t, w)["user"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing user in response: %s", w.Body.String())
	}
	if _, present := user["password"]; present {
		t.Error("response user must not carry the password")
	}
	if user["verified"] != false {
		t.Errorf("new user must be unverified, got %v", user["verified"])
	}
}

func TestLogin(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/api/onboarding", map[string]string{
		"email": "a@x.com", "password": "pw", "fullName": "A",
	})

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "success - valid credentials",
			body:           map[string]string{"email": "a@x.com", "password": "pw"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unauthorised - wrong password",
			body:           map[string]string{"email": "a@x.com", "password": "nope"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unauthorised - unknown email",
			body:           map[string]string{"email": "z@x.com", "password": "pw"},
			expectedStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus == http.StatusOK {
				resp := decodeBody(t, w)
				token, _ := resp["token"].(string)
				if token == "" {
					t.Fatal("login response missing token")
				}
				claims, err := utils.ParseJWT(token, testJWTSecret)
				if err != nil {
					t.Fatalf("issued token does not parse: %v", err)
				}
				if claims.UserID != 1 {
					t.Errorf("expected token for user 1, got %d", claims.UserID)
				}
			}
		})
	}
}

func TestVerify(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/api/onboarding", map[string]string{
		"email": "a@x.com", "password": "pw", "fullName": "A",
	})

	w := doRequest(router, http.MethodPost, "/api/verify", map[string]uint{"userId": 1})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if resp := decodeBody(t, w); resp["verified"] != true {
		t.Errorf("expected verified true, got %v", resp["verified"])
	}

	w = doRequest(router, http.MethodPost, "/api/verify", map[string]uint{"userId": 99})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if resp := decodeBody(t, w); resp["error"] != "User not found" {
		t.Errorf("expected error 'User not found', got %v", resp["error"])
	}
}

func TestCreateAndGetWallet(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/wallet/create", map[string]uint{"userId": 1})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	w = doRequest(router, http.MethodPost, "/api/wallet/create", map[string]uint{"userId": 1})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on second create, got %d", w.Code)
	}
	if resp := decodeBody(t, w); resp["error"] != "Wallet already exists" {
		t.Errorf("expected error 'Wallet already exists', got %v", resp["error"])
	}

	w = doRequest(router, http.MethodGet, "/api/wallet/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	wallet := decodeBody(t, w)
	if wallet["balance"] != float64(0) {
		t.Errorf("expected zero balance, got %v", wallet["balance"])
	}
	if acct, _ := wallet["accountNumber"].(string); len(acct) != 10 {
		t.Errorf("expected 10-digit account number, got %q", acct)
	}

	w = doRequest(router, http.MethodGet, "/api/wallet/2", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing wallet, got %d", w.Code)
	}
}

func TestWithdraw(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/api/wallet/create", map[string]uint{"userId": 1})
	doRequest(router, http.MethodPost, "/api/loans/apply", map[string]interface{}{
		"userId": 1, "loanId": 1, "amount": 500,
	})

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "success - funds withdrawn",
			body:           map[string]interface{}{"userId": 1, "amount": 200, "externalAccount": "EXT-1"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "bad request - insufficient funds",
			body:           map[string]interface{}{"userId": 1, "amount": 1000, "externalAccount": "EXT-1"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Insufficient funds",
		},
		{
			name:           "bad request - negative amount",
			body:           map[string]interface{}{"userId": 1, "amount": -5, "externalAccount": "EXT-1"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid amount",
		},
		{
			name:           "bad request - non-numeric amount",
			body:           map[string]interface{}{"userId": 1, "amount": "lots", "externalAccount": "EXT-1"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid amount",
		},
		{
			name:           "not found - no wallet",
			body:           map[string]interface{}{"userId": 9, "amount": 10, "externalAccount": "EXT-1"},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Wallet not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/wallet/withdraw", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			resp := decodeBody(t, w)
			if tt.expectedError != "" && resp["error"] != tt.expectedError {
				t.Errorf("expected error %q, got %v", tt.expectedError, resp["error"])
			}
		})
	}

	// Rejected withdrawals left the balance at 300
	w := doRequest(router, http.MethodGet, "/api/wallet/1", nil)
	if bal := decodeBody(t, w)["balance"]; bal != float64(300) {
		t.Errorf("expected balance 300, got %v", bal)
	}
}

func TestLoanApply(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/api/wallet/create", map[string]uint{"userId": 1})

	w := doRequest(router, http.MethodPost, "/api/loans/apply", map[string]interface{}{
		"userId": 1, "loanId": 2, "amount": 500,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["newBalance"] != float64(500) {
		t.Errorf("expected newBalance 500, got %v", resp["newBalance"])
	}
	loan, _ := resp["loan"].(map[string]interface{})
	if loan["status"] != "Approved" {
		t.Errorf("expected loan status Approved, got %v", loan["status"])
	}

	w = doRequest(router, http.MethodPost, "/api/loans/apply", map[string]interface{}{
		"userId": 9, "loanId": 2, "amount": 500,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown wallet, got %d", w.Code)
	}
	if resp := decodeBody(t, w); resp["error"] != "Invalid wallet account" {
		t.Errorf("expected error 'Invalid wallet account', got %v", resp["error"])
	}
}

func TestLoanApplyByAccountNumber(t *testing.T) {
	router, s := newTestRouter(t)
	doRequest(router, http.MethodPost, "/api/wallet/create", map[string]uint{"userId": 1})
	wallet, err := s.WalletByUser(1)
	if err != nil {
		t.Fatalf("wallet lookup: %v", err)
	}

	w := doRequest(router, http.MethodPost, "/api/loans/apply", map[string]interface{}{
		"loanId": 1, "amount": 250, "accountNumber": wallet.AccountNumber,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", w.Code, w.Body.String())
	}
	loan, _ := decodeBody(t, w)["loan"].(map[string]interface{})
	if loan["creditedTo"] != wallet.AccountNumber {
		t.Errorf("expected creditedTo %q, got %v", wallet.AccountNumber, loan["creditedTo"])
	}
}

func TestLoanOptions(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doRequest(router, http.MethodGet, "/api/loans/static", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var opts []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &opts); err != nil {
		t.Fatalf("decode catalog: %v", err)
	}
	if len(opts) != 3 {
		t.Fatalf("expected 3 loan options, got %d", len(opts))
	}
	if opts[0]["name"] != "Personal Loan" || opts[0]["interestRate"] != "5%" {
		t.Errorf("unexpected first option: %v", opts[0])
	}
}

func TestTransactionsOrdering(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/api/wallet/create", map[string]uint{"userId": 1})
	doRequest(router, http.MethodPost, "/api/loans/apply", map[string]interface{}{
		"userId": 1, "loanId": 1, "amount": 500,
	})
	doRequest(router, http.MethodPost, "/api/wallet/withdraw", map[string]interface{}{
		"userId": 1, "amount": 200, "externalAccount": "EXT-1",
	})

	w := doRequest(router, http.MethodGet, "/api/transactions/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var txs []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &txs); err != nil {
		t.Fatalf("decode transactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	for i := 1; i < len(txs); i++ {
		if txs[i-1]["date"].(string) < txs[i]["date"].(string) {
			t.Errorf("transactions not in descending date order: %v before %v", txs[i-1]["date"], txs[i]["date"])
		}
	}

	// Users with no history get an empty list, not an error
	w = doRequest(router, http.MethodGet, "/api/transactions/42", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for empty history, got %d", w.Code)
	}
	if body := strings.TrimSpace(w.Body.String()); body != "[]" {
		t.Errorf("expected empty array, got %s", body)
	}
}

func TestWalletLookup(t *testing.T) {
	router, s := newTestRouter(t)
	doRequest(router, http.MethodPost, "/api/onboarding", map[string]string{
		"email": "a@x.com", "password": "pw", "fullName": "Alice Adams",
	})
	doRequest(router, http.MethodPost, "/api/wallet/create", map[string]uint{"userId": 1})
	wallet, err := s.WalletByUser(1)
	if err != nil {
		t.Fatalf("wallet lookup: %v", err)
	}

	w := doRequest(router, http.MethodGet, "/api/wallet/lookup/"+wallet.AccountNumber, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["valid"] != true || resp["ownerName"] != "Alice Adams" || resp["walletId"] != float64(wallet.ID) {
		t.Errorf("unexpected lookup response: %v", resp)
	}

	w = doRequest(router, http.MethodGet, "/api/wallet/lookup/0000000000", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if resp := decodeBody(t, w); resp["error"] != "Account not found" {
		t.Errorf("expected error 'Account not found', got %v", resp["error"])
	}
}

func TestMe(t *testing.T) {
	router, _ := newTestRouter(t)
	doRequest(router, http.MethodPost, "/api/onboarding", map[string]string{
		"email": "a@x.com", "password": "pw", "fullName": "A",
	})
	login := doRequest(router, http.MethodPost, "/api/login", map[string]string{
		"email": "a@x.com", "password": "pw",
	})
	token, _ := decodeBody(t, login)["token"].(string)
	if token == "" {
		t.Fatal("login did not return a token")
	}

	req, _ := http.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	user, _ := decodeBody(t, w)["user"].(map[string]interface{})
	if user["email"] != "a@x.com" {
		t.Errorf("expected own user record, got %v", user)
	}

	w = doRequest(router, http.MethodGet, "/api/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
