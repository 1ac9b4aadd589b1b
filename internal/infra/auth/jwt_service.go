package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"passport/config"
	"passport/internal/domain/entity"
	"passport/internal/domain/service"
	"passport/internal/errors"
)

const (
	tokenTypeActivation = "activation"
	tokenTypeSession    = "session"

	activationTTL = time.Hour
	sessionTTL    = time.Hour
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
// Activation and session tokens share one signing secret; the "type" claim keeps
// them from being interchangeable.
type jwtService struct {
	secret        string
	activationTTL time.Duration
	sessionTTL    time.Duration
}

// NewJWTService is the constructor for jwtService.
// It fails fast when no signing secret is configured.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Token == "" {
		return nil, errors.New("jwt signing secret must be provided")
	}
	return &jwtService{
		secret:        cfg.SecretKey.Token,
		activationTTL: activationTTL,
		sessionTTL:    sessionTTL,
	}, nil
}

// GenerateActivationToken creates a signed, time-limited token bound to an email address.
func (s *jwtService) GenerateActivationToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"email": email,
		"type":  tokenTypeActivation,
		"iat":   now.Unix(),
		"exp":   now.Add(s.activationTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "sign activation token")
	}

	return signed, nil
}

// ValidateActivationToken verifies the token and returns its email claim.
// Every failure mode collapses into ErrInvalidToken.
func (s *jwtService) ValidateActivationToken(tokenString string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != tokenTypeActivation {
		return "", service.ErrInvalidToken
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return "", service.ErrInvalidToken
	}

	return email, nil
}

// GenerateSessionToken creates a bearer token carrying the account's public identity.
func (s *jwtService) GenerateSessionToken(account *entity.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":       account.ID.String(),
		"email":     account.Email,
		"firstName": account.FirstName,
		"lastName":  account.LastName,
		"type":      tokenTypeSession,
		"iat":       now.Unix(),
		"exp":       now.Add(s.sessionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", errors.Wrap(err, "sign session token")
	}

	return signed, nil
}

// ValidateSessionToken verifies the token and returns the identity claims.
// Every failure mode collapses into ErrInvalidToken.
func (s *jwtService) ValidateSessionToken(tokenString string) (*service.SessionClaims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}

	tokenType, _ := claims["type"].(string)
	if tokenType != tokenTypeSession {
		return nil, service.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	accountID, err := uuid.Parse(sub)
	if err != nil {
		return nil, service.ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	firstName, _ := claims["firstName"].(string)
	lastName, _ := claims["lastName"].(string)

	return &service.SessionClaims{
		AccountID: accountID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}, nil
}

// parse verifies signature, signing method and expiry, and returns the claims.
func (s *jwtService) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, service.ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, service.ErrInvalidToken
	}

	return claims, nil
}
