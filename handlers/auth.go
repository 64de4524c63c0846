package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/focusflow/focusflow/services"
	"github.com/focusflow/focusflow/store"
)

// AuthHandler handles the magic-link login flow. A successful login
// also starts the store's sync session for that user.
type AuthHandler struct {
	authService *services.AuthService
	store       *store.Store
}

func NewAuthHandler(authService *services.AuthService, st *store.Store) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       st,
	}
}

// Login sends (or, in development, returns) a magic link.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request format", http.StatusBadRequest)
		return
	}

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		http.Error(w, "Invalid email address", http.StatusBadRequest)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	baseURL := fmt.Sprintf("%s://%s", scheme, r.Host)

	magicLink, err := h.authService.GenerateMagicLink(req.Email, baseURL)
	if err != nil {
		log.Printf("Error generating magic link: %v", err)
		http.Error(w, "Failed to generate login link", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":    "success",
		"message":   "Magic link has been sent",
		"magicLink": magicLink, // For development only
	})
}

// HandleMagicLink redeems a one-time token, issues a JWT, starts the
// sync session and redirects back to the frontend.
func (h *AuthHandler) HandleMagicLink(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusBadRequest)
		return
	}

	email, err := h.authService.VerifyMagicLinkToken(token)
	if err != nil {
		http.Error(w, "Invalid or expired token", http.StatusBadRequest)
		return
	}

	jwtToken, err := h.authService.CreateJWT(email)
	if err != nil {
		log.Printf("Error creating JWT: %v", err)
		http.Error(w, "Authentication error", http.StatusInternalServerError)
		return
	}

	// Session start does the full refetch (or first migration). A
	// failure leaves the store local-only; login still succeeds.
	if err := h.store.StartSession(r.Context(), email); err != nil {
		log.Printf("Error starting sync session for %s: %v", email, err)
	}

	redirectURL := fmt.Sprintf("/?token=%s&email=%s", jwtToken, email)
	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// VerifyToken checks a JWT and re-attaches the sync session after a
// server restart.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		http.Error(w, "Missing authorization header", http.StatusUnauthorized)
		return
	}

	authParts := strings.Split(authHeader, " ")
	if len(authParts) != 2 || authParts[0] != "Bearer" {
		http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
		return
	}

	email, err := h.authService.VerifyJWT(authParts[1])
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	if !h.store.SessionActive() {
		if err := h.store.StartSession(r.Context(), email); err != nil {
			log.Printf("Error starting sync session for %s: %v", email, err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"email":  email,
		"status": "valid",
	})
}
