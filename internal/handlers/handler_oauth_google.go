package handlers

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	portssvc "github.com/splitledger/bill_split_app/internal/core/ports/services"
	"github.com/splitledger/bill_split_app/internal/dto"
	"github.com/splitledger/bill_split_app/internal/middleware"
	"github.com/splitledger/bill_split_app/internal/platform/config"
)

const oauthStateCookie = "oauth_state"

// GoogleOAuthHandler drives the Google sign-in flow: redirect to Google,
// then exchange the callback code for an application token pair.
type GoogleOAuthHandler struct {
	oauthService portssvc.GoogleOAuthSvcFacade
	userService  portssvc.UserSvcFacade
	tokenService portssvc.TokenSvcFacade
	frontendURL  string
	secureCookie bool
}

// NewGoogleOAuthHandler creates a new GoogleOAuthHandler.
func NewGoogleOAuthHandler(cfg *config.Config, services *portssvc.ServiceContainer) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		oauthService: services.GoogleOAuth,
		userService:  services.User,
		tokenService: services.Token,
		frontendURL:  cfg.FrontendBaseURL,
		secureCookie: cfg.IsProduction,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes. They stay
// public: the whole point is that the caller has no token yet.
func registerGoogleOAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(cfg, services)

	google := r.Group("/api/v1/auth/google")
	{
		google.GET("/login", h.LoginGoogle)
		google.GET("/callback", h.CallbackGoogle)
	}
}

// LoginGoogle godoc
// @Summary Start Google sign-in
// @Description Redirects the browser to Google's consent screen. A state
// @Description nonce is stored in a short-lived cookie for CSRF protection.
// @Tags oauth
// @Success 307 "Redirect to Google"
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *GoogleOAuthHandler) LoginGoogle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	state, err := h.oauthService.GenerateStateString(c.Request.Context())
	if err != nil {
		logger.Error("Failed to generate OAuth state", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start Google sign-in"})
		return
	}

	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauthService.GetLoginURL(c.Request.Context(), state))
}

// CallbackGoogle godoc
// @Summary Google sign-in callback
// @Description Validates the state nonce, exchanges the authorization code,
// @Description resolves the user by verified email and issues tokens. When a
// @Description frontend base URL is configured the browser is redirected
// @Description there; otherwise the token pair is returned as JSON.
// @Tags oauth
// @Produce json
// @Param state query string true "State nonce"
// @Param code query string true "Authorization code"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "State mismatch or invalid code"
// @Router /auth/google/callback [get]
func (h *GoogleOAuthHandler) CallbackGoogle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		logger.Warn("OAuth state mismatch")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "OAuth state mismatch"})
		return
	}
	// One-shot nonce.
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookie, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Authorization code is required"})
		return
	}

	email, displayName, err := h.oauthService.ExchangeAndVerify(c.Request.Context(), code)
	if err != nil {
		logger.Warn("Google code exchange failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired authorization code"})
		return
	}

	user, err := h.userService.FindOrCreateOAuthUser(c.Request.Context(), email, displayName)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to resolve Google user")
		return
	}

	accessToken, expiresAt, err := h.tokenService.GenerateAccessToken(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate access token")
		return
	}
	refreshToken, _, err := h.tokenService.GenerateRefreshToken(c.Request.Context(), user)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate refresh token")
		return
	}

	logger.Info("User signed in via Google", slog.String("user_id", user.UserID))

	if h.frontendURL != "" {
		q := url.Values{}
		q.Set("access_token", accessToken)
		q.Set("refresh_token", refreshToken)
		q.Set("user_id", user.UserID)
		c.Redirect(http.StatusTemporaryRedirect, h.frontendURL+"/auth/callback?"+q.Encode())
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		User:         dto.ToUserResponse(user),
		AccessToken:  accessToken,
		ExpiresAt:    expiresAt,
		RefreshToken: refreshToken,
	})
}
