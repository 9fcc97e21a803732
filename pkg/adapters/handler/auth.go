package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/nateepat/applink/pkg/config"
	"github.com/nateepat/applink/pkg/core/domain"
	"github.com/nateepat/applink/pkg/ports"
)

const (
	authCookieName  = "auth_token"
	stateCookieName = "oauthstate"

	sessionTTL = 24 * time.Hour
)

// authClaims binds the session to a user row. Subject carries the user
// ID; the email rides along for display and logging.
type authClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthHandler struct {
	oauthConfig   *oauth2.Config
	repo          ports.Repository
	jwtSecret     []byte
	adminURL      string
	allowedEmails []string
	isProduction  bool
}

type googleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func NewAuthHandler(cfg *config.Config, repo ports.Repository) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		repo:          repo,
		jwtSecret:     []byte(cfg.JWTSecret),
		adminURL:      cfg.AdminURL,
		allowedEmails: cfg.AllowedEmails,
		isProduction:  cfg.IsProduction(),
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := h.generateStateOauthCookie(w)
	url := h.oauthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	oauthState, err := r.Cookie(stateCookieName)
	if err != nil {
		log.Warn().Err(err).Msg("oauth callback missing state cookie")
		http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
		return
	}

	if r.FormValue("state") != oauthState.Value {
		log.Warn().Msg("oauth callback state mismatch")
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		log.Error().Err(err).Msg("oauth code exchange failed")
		http.Error(w, "code exchange failed", http.StatusInternalServerError)
		return
	}

	gu, err := fetchGoogleUser(r.Context(), token.AccessToken)
	if err != nil {
		log.Error().Err(err).Msg("failed fetching google user info")
		http.Error(w, "failed getting user info", http.StatusInternalServerError)
		return
	}

	if !h.emailAllowed(gu.Email) {
		log.Warn().Str("email", gu.Email).Msg("login rejected, email not in allowlist")
		http.Error(w, "access denied: your email is not in the allowlist", http.StatusForbidden)
		return
	}

	user, err := h.upsertUser(r.Context(), gu)
	if err != nil {
		log.Error().Err(err).Str("email", gu.Email).Msg("failed upserting user")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	expiresAt := time.Now().Add(sessionTTL)
	claims := &authClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	if err != nil {
		log.Error().Err(err).Msg("failed signing session token")
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    signed,
		Expires:  expiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})

	log.Info().Str("email", user.Email).Msg("login successful")
	http.Redirect(w, r, h.adminURL, http.StatusTemporaryRedirect)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Expires:  time.Now().Add(-1 * time.Hour),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusTemporaryRedirect)
}

// upsertUser keeps the stable user ID across logins: an existing row
// keeps its ID (apps reference it), only name and picture refresh.
func (h *AuthHandler) upsertUser(ctx context.Context, gu *googleUser) (*domain.User, error) {
	existing, err := h.repo.GetUserByEmail(ctx, gu.Email)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:   gu.Email,
		Name:    gu.Name,
		Picture: gu.Picture,
	}
	if existing != nil {
		user.ID = existing.ID
		user.CreatedAt = existing.CreatedAt
	} else {
		user.ID = uuid.NewString()
		user.CreatedAt = time.Now()
	}

	if err := h.repo.UpsertUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (h *AuthHandler) emailAllowed(email string) bool {
	if len(h.allowedEmails) == 0 {
		return true
	}
	for _, allowed := range h.allowedEmails {
		if allowed == email {
			return true
		}
	}
	return false
}

func fetchGoogleUser(ctx context.Context, accessToken string) (*googleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		"https://www.googleapis.com/oauth2/v2/userinfo?access_token="+accessToken, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var gu googleUser
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return nil, err
	}
	return &gu, nil
}

func (h *AuthHandler) generateStateOauthCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Expires:  time.Now().Add(20 * time.Minute),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
	return state
}
