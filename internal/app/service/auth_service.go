package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/wardenbot/warden/internal/infra/storage"
)

// ErrInvalidToken covers every bearer rejection: malformed token,
// unknown digest and expired token alike, so callers leak nothing.
var ErrInvalidToken = errors.New("invalid token")

const tokenTTL = 7 * 24 * time.Hour

// Implemented by internal/adapters/oauth.Client.
type IdentityProvider interface {
	// ExchangeCode resolves an OAuth authorization code to the
	// platform user ID, revoking the access token afterwards.
	ExchangeCode(ctx context.Context, code string) (string, error)
}

// AuthService issues and validates API bearer tokens of the form
// `<hex user id>.<hex secret>`. Only a sha-256 digest of the secret
// half is stored.
type AuthService struct {
	tokens   TokenStore
	identity IdentityProvider
}

func NewAuthService(tokens TokenStore, identity IdentityProvider) *AuthService {
	return &AuthService{tokens: tokens, identity: identity}
}

// Login exchanges an OAuth code for a fresh bearer token.
func (s *AuthService) Login(ctx context.Context, code string) (string, time.Time, error) {
	userID, err := s.identity.ExchangeCode(ctx, code)
	if err != nil {
		return "", time.Time{}, err
	}
	return s.IssueToken(ctx, userID)
}

// IssueToken mints a token for the given decimal user ID.
func (s *AuthService) IssueToken(ctx context.Context, userID string) (string, time.Time, error) {
	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return "", time.Time{}, err
	}

	secret := make([]byte, 16)
	if _, err := rand.Read(secret); err != nil {
		return "", time.Time{}, err
	}

	hash := sha256.Sum256(secret)
	expiresAt := time.Now().Add(tokenTTL)

	err = s.tokens.Insert(ctx, storage.APIToken{
		UserID:    userID,
		Hash:      hash[:],
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", time.Time{}, err
	}

	token := strconv.FormatUint(id, 16) + "." + hex.EncodeToString(secret)
	return token, expiresAt, nil
}

// ValidateToken returns the owning decimal user ID when the token is
// well-formed, known and unexpired.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (string, error) {
	idPart, secretPart, ok := strings.Cut(token, ".")
	if !ok || idPart == "" || secretPart == "" {
		return "", ErrInvalidToken
	}

	id, err := strconv.ParseUint(idPart, 16, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	userID := strconv.FormatUint(id, 10)

	secret, err := hex.DecodeString(secretPart)
	if err != nil {
		return "", ErrInvalidToken
	}
	hash := sha256.Sum256(secret)

	stored, err := s.tokens.Lookup(ctx, userID, hash[:])
	if errors.Is(err, storage.ErrNotFound) {
		return "", ErrInvalidToken
	} else if err != nil {
		return "", err
	}

	if subtle.ConstantTimeCompare(stored.Hash, hash[:]) != 1 {
		return "", ErrInvalidToken
	}
	if !time.Now().Before(stored.ExpiresAt) {
		return "", ErrInvalidToken
	}
	return stored.UserID, nil
}
