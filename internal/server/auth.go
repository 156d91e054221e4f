package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"

	"github.com/Tejaswini280/creater-AI-sub008/internal/config"
)

const sessionTTL = 12 * time.Hour

// AuthService guards the API with TOTP login and in-memory sessions.
type AuthService struct {
	logger *zap.Logger
	cfg    config.AuthConfig

	mu       sync.Mutex
	sessions map[string]time.Time // token -> expiry
}

func NewAuthService(logger *zap.Logger, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		logger:   logger,
		cfg:      cfg,
		sessions: make(map[string]time.Time),
	}
}

// ValidateToken checks a TOTP code against the configured secret.
func (a *AuthService) ValidateToken(token string) bool {
	valid := totp.Validate(token, a.cfg.TOTPSecret)
	if !valid {
		a.logger.Warn("TOTP token validation failed")
	}
	return valid
}

// CreateSession issues a random session token.
func (a *AuthService) CreateSession() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	token := hex.EncodeToString(buf)

	a.mu.Lock()
	a.sessions[token] = time.Now().Add(sessionTTL)
	a.mu.Unlock()

	return token
}

func (a *AuthService) isValidSession(token string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	expiry, ok := a.sessions[token]
	if !ok {
		return false
	}
	if time.Now().After(expiry) {
		delete(a.sessions, token)
		return false
	}
	return true
}

// Middleware rejects requests without a valid session cookie. Auth is
// opt-in via config; when disabled everything passes through.
func (a *AuthService) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.cfg.Enabled {
			c.Next()
			return
		}

		token, err := c.Cookie("auth_token")
		if err != nil || !a.isValidSession(token) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	if !s.Config.Auth.Enabled {
		c.JSON(http.StatusOK, gin.H{"message": "auth disabled"})
		return
	}

	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !s.Auth.ValidateToken(req.Token) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	session := s.Auth.CreateSession()
	c.SetCookie("auth_token", session, int(sessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "login successful"})
}
