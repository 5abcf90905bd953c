package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/lagkaka/internal/app"
)

type AuthHandler struct {
	service *app.Service
}

func NewAuthHandler(service *app.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// HandleIssueToken exchanges leader credentials for a signed token.
// Leaders start with the fixed initial credential provisioned at
// registration. Evaluator tokens are minted out-of-band.
func (h *AuthHandler) HandleIssueToken(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := http.StatusOK
	defer func() { observe(r, start, status) }()

	if !h.service.Auth.Enabled() {
		status = http.StatusNotFound
		http.Error(w, "Auth is disabled", status)
		return
	}

	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		status = http.StatusBadRequest
		http.Error(w, "Invalid request body", status)
		return
	}

	identity, err := h.service.Store.GetLeaderIdentityByEmail(r.Context(), creds.Email)
	if err != nil {
		status = http.StatusUnauthorized
		http.Error(w, "Invalid credentials", status)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(creds.Password)); err != nil {
		logger.Debug.Printf("Password mismatch for %s", creds.Email)
		status = http.StatusUnauthorized
		http.Error(w, "Invalid credentials", status)
		return
	}

	token, err := h.service.Auth.IssueToken(identity.Email, identity.Role)
	if err != nil {
		logger.Error.Printf("Failed to issue token for %s: %v", creds.Email, err)
		status = http.StatusInternalServerError
		http.Error(w, "Failed to issue token", status)
		return
	}

	writeJSON(w, status, map[string]interface{}{
		"token": token,
		"role":  identity.Role,
	})
}
