package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"emotional-analysis/internal/domain/dto"
	Iservices "emotional-analysis/internal/domain/interfaces/services"
	"emotional-analysis/internal/infra/logger"
	"emotional-analysis/internal/infra/services"
)

// AuthHandlers expose dashboard account registration and login.
type AuthHandlers struct {
	Logger      *logger.Logger
	AuthService Iservices.IAuthService
}

func NewAuthHandlers(logger *logger.Logger, authService Iservices.IAuthService) *AuthHandlers {
	return &AuthHandlers{Logger: logger, AuthService: authService}
}

// Login handles POST /api/auth/login.
func (th *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.AuthResponse{Status: "failure", Message: "Invalid request body"})
		return
	}
	defer r.Body.Close()

	user, err := th.AuthService.Login(r.Context(), creds.Username, creds.Password, creds.Role)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			writeJSON(w, http.StatusUnauthorized, dto.AuthResponse{Status: "failure", Message: "User not found"})
		case errors.Is(err, services.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, dto.AuthResponse{Status: "failure", Message: "Incorrect password"})
		default:
			th.Logger.Error(fmt.Sprintf("login failed: %v", err))
			writeJSON(w, http.StatusInternalServerError, dto.AuthResponse{Status: "failure", Message: "Server error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{Status: "success", Role: user.Role, Message: "Login successful"})
}

// Register handles POST /api/auth/register.
func (th *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var creds dto.CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, dto.AuthResponse{Status: "failure", Message: "Invalid request body"})
		return
	}
	defer r.Body.Close()

	err := th.AuthService.Register(r.Context(), creds.Username, creds.Password, creds.Role)
	if err != nil {
		if errors.Is(err, services.ErrUserExists) {
			writeJSON(w, http.StatusBadRequest, dto.AuthResponse{Status: "failure", Message: "User already exists"})
			return
		}
		th.Logger.Error(fmt.Sprintf("registration failed: %v", err))
		writeJSON(w, http.StatusInternalServerError, dto.AuthResponse{Status: "failure", Message: "Server error"})
		return
	}

	writeJSON(w, http.StatusCreated, dto.AuthResponse{Status: "success", Message: "User registered successfully"})
}
