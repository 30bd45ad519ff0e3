package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/stockseer-ai/stockseer-server/internal/common"
	"github.com/stockseer-ai/stockseer-server/internal/models"
)

// AuthErrorCode is a closed enum of user-facing auth failure kinds. Anything
// the handlers cannot classify maps to AuthErrUnknown.
type AuthErrorCode string

const (
	AuthErrInvalidEmail       AuthErrorCode = "invalid_email"
	AuthErrWeakPassword       AuthErrorCode = "weak_password"
	AuthErrEmailInUse         AuthErrorCode = "email_in_use"
	AuthErrUserNotFound       AuthErrorCode = "user_not_found"
	AuthErrWrongPassword      AuthErrorCode = "wrong_password"
	AuthErrInvalidAccountType AuthErrorCode = "invalid_account_type"
	AuthErrUnknown            AuthErrorCode = "unknown"
)

// authErrorMessages maps each code to its fixed user-facing string.
var authErrorMessages = map[AuthErrorCode]string{
	AuthErrInvalidEmail:       "Please enter a valid email address",
	AuthErrWeakPassword:       "Password must be at least 8 characters",
	AuthErrEmailInUse:         "An account with this email already exists",
	AuthErrUserNotFound:       "No account found with this email",
	AuthErrWrongPassword:      "Incorrect email or password",
	AuthErrInvalidAccountType: "Account type must be 'live' or 'dummy'",
	AuthErrUnknown:            "Something went wrong, please try again",
}

func writeAuthError(w http.ResponseWriter, statusCode int, code AuthErrorCode) {
	msg, ok := authErrorMessages[code]
	if !ok {
		code = AuthErrUnknown
		msg = authErrorMessages[AuthErrUnknown]
	}
	WriteErrorWithCode(w, statusCode, msg, string(code))
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	AccountType string `json:"account_type"`
}

type authResponse struct {
	Token   string              `json:"token"`
	Expires time.Time           `json:"expires"`
	Profile *models.UserProfile `json:"profile"`
}

// handleSignup creates a profile and issues a token.
// POST /api/auth/signup
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req signupRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") || len(email) < 3 {
		writeAuthError(w, http.StatusBadRequest, AuthErrInvalidEmail)
		return
	}
	if len(req.Password) < 8 {
		writeAuthError(w, http.StatusBadRequest, AuthErrWeakPassword)
		return
	}

	accountType := models.AccountType(strings.ToLower(strings.TrimSpace(req.AccountType)))
	if accountType == "" {
		accountType = models.AccountTypeDummy
	}
	if !accountType.Valid() {
		writeAuthError(w, http.StatusBadRequest, AuthErrInvalidAccountType)
		return
	}

	// bcrypt reads at most 72 bytes; truncate explicitly so longer
	// passwords verify consistently.
	password := req.Password
	if len(password) > 72 {
		password = password[:72]
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("Password hash failed")
		writeAuthError(w, http.StatusInternalServerError, AuthErrUnknown)
		return
	}

	profile := &models.UserProfile{
		UID:          uuid.New().String(),
		Email:        email,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		PasswordHash: string(hash),
		AccountType:  accountType,
	}

	if err := s.app.ProfileService.Create(r.Context(), profile); err != nil {
		if strings.Contains(err.Error(), "already registered") {
			writeAuthError(w, http.StatusConflict, AuthErrEmailInUse)
			return
		}
		s.logger.Error().Err(err).Msg("Signup failed")
		writeAuthError(w, http.StatusInternalServerError, AuthErrUnknown)
		return
	}

	s.issueToken(w, profile)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin verifies credentials and issues a token.
// POST /api/auth/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	profile, err := s.app.ProfileService.GetByEmail(r.Context(), req.Email)
	if err != nil {
		writeAuthError(w, http.StatusUnauthorized, AuthErrUserNotFound)
		return
	}

	password := req.Password
	if len(password) > 72 {
		password = password[:72]
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		writeAuthError(w, http.StatusUnauthorized, AuthErrWrongPassword)
		return
	}

	s.issueToken(w, profile)
}

// handleValidate reports the authenticated user for a bearer token.
// POST /api/auth/validate
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost, http.MethodGet) {
		return
	}

	uc := common.UserContextFromContext(r.Context())
	if uc == nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":        true,
		"uid":          uc.UID,
		"email":        uc.Email,
		"display_name": uc.DisplayName,
		"role":         uc.Role,
	})
}

// issueToken signs an HS256 JWT for the profile and writes the auth response.
// The password hash is stripped from the returned profile.
func (s *Server) issueToken(w http.ResponseWriter, profile *models.UserProfile) {
	now := time.Now()
	expires := now.Add(s.app.Config.Auth.GetTokenExpiry())

	claims := jwt.MapClaims{
		"jti":   uuid.New().String(),
		"sub":   profile.UID,
		"email": profile.Email,
		"iss":   "stockseer-server",
		"iat":   now.Unix(),
		"exp":   expires.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.app.Config.Auth.JWTSecret))
	if err != nil {
		s.logger.Error().Err(err).Msg("Token signing failed")
		writeAuthError(w, http.StatusInternalServerError, AuthErrUnknown)
		return
	}

	sanitized := *profile
	sanitized.PasswordHash = ""

	WriteJSON(w, http.StatusOK, authResponse{
		Token:   signed,
		Expires: expires,
		Profile: &sanitized,
	})
}
