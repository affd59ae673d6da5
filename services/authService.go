package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/Taraweeh/models"
	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrTokenRevoked    = errors.New("token revoked")
	ErrTokenInvalid    = errors.New("invalid or expired token")
	ErrAuthUnavailable = errors.New("auth provider unavailable")
)

// TokenVerifier turns a bearer token into verified identity claims.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (models.AuthToken, error)
}

var tokenVerifier TokenVerifier

func SetTokenVerifier(v TokenVerifier) {
	tokenVerifier = v
}

func GetTokenVerifier() TokenVerifier {
	return tokenVerifier
}

type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) VerifyToken(ctx context.Context, token string) (models.AuthToken, error) {
	decoded, err := v.client.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		switch {
		case auth.IsIDTokenRevoked(err):
			return models.AuthToken{}, ErrTokenRevoked
		case auth.IsCertificateFetchFailed(err):
			return models.AuthToken{}, fmt.Errorf("%w: %v", ErrAuthUnavailable, err)
		default:
			return models.AuthToken{}, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}

	return models.AuthToken{
		UID:         decoded.UID,
		Name:        stringClaim(decoded.Claims, "name"),
		Email:       stringClaim(decoded.Claims, "email"),
		Picture:     stringClaim(decoded.Claims, "picture"),
		PhoneNumber: stringClaim(decoded.Claims, "phone_number"),
	}, nil
}

// DevTokenVerifier accepts HS256 tokens signed with a shared secret. It stands
// in for Firebase in local development and tests.
type DevTokenVerifier struct {
	secret []byte
}

func NewDevTokenVerifier(secret string) *DevTokenVerifier {
	return &DevTokenVerifier{secret: []byte(secret)}
}

func (v *DevTokenVerifier) VerifyToken(_ context.Context, tokenString string) (models.AuthToken, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return models.AuthToken{}, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return models.AuthToken{}, ErrTokenInvalid
	}
	if revoked, _ := claims["revoked"].(bool); revoked {
		return models.AuthToken{}, ErrTokenRevoked
	}

	uid := stringClaim(claims, "sub")
	if uid == "" {
		return models.AuthToken{}, ErrTokenInvalid
	}

	return models.AuthToken{
		UID:         uid,
		Name:        stringClaim(claims, "name"),
		Email:       stringClaim(claims, "email"),
		Picture:     stringClaim(claims, "picture"),
		PhoneNumber: stringClaim(claims, "phone_number"),
	}, nil
}

// SignDevToken issues a development token for uid, valid for ttl.
func SignDevToken(secret string, uid string, extra map[string]interface{}, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub": uid,
		"exp": time.Now().Add(ttl).Unix(),
	}
	for k, v := range extra {
		claims[k] = v
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func stringClaim(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
