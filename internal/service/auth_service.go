package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"formsmith/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

const (
	ownerTokenTTL      = 7 * 24 * time.Hour
	respondentTokenTTL = 24 * time.Hour
)

// ownerNamespace scopes the deterministic owner ids
var ownerNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("formsmith/owners"))

// dummyHash is compared against when the username is unknown
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("formsmith"), bcrypt.MinCost)

// AuthService handles owner and respondent authentication
type AuthService struct {
	accounts  map[string]string // username -> bcrypt hash
	jwtSecret []byte
	now       func() time.Time
}

// NewAuthService creates a new auth service. accounts maps usernames to bcrypt hashes.
func NewAuthService(jwtSecret string, accounts map[string]string) *AuthService {
	return &AuthService{
		accounts:  accounts,
		jwtSecret: []byte(jwtSecret),
		now:       time.Now,
	}
}

// HashPassword returns a bcrypt hash suitable for OWNER_ACCOUNTS
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// OwnerID derives the stable owner id for a username
func OwnerID(username string) string {
	return "owner_" + uuid.NewSHA1(ownerNamespace, []byte(username)).String()[:8]
}

// Login validates credentials and returns an owner token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	hash, ok := s.accounts[username]
	if !ok {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	ownerID := OwnerID(username)
	now := s.now()
	claims := &model.OwnerClaims{
		OwnerID:  ownerID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   ownerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ownerTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:   tokenString,
		OwnerID: ownerID,
	}, nil
}

func (s *AuthService) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, ErrInvalidToken
	}
	return s.jwtSecret, nil
}

// ValidateOwnerToken validates an owner JWT and returns claims
func (s *AuthService) ValidateOwnerToken(tokenString string) (*model.OwnerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.OwnerClaims{}, s.keyFunc)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.OwnerClaims)
	if !ok || !token.Valid || claims.OwnerID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GenerateRespondentToken creates a token scoped to one form session
func (s *AuthService) GenerateRespondentToken(formID, sessionID string) (string, error) {
	now := s.now()
	claims := &model.RespondentClaims{
		FormID:    formID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(respondentTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateRespondentToken validates a respondent JWT and returns claims
func (s *AuthService) ValidateRespondentToken(tokenString string) (*model.RespondentClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.RespondentClaims{}, s.keyFunc)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.RespondentClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
