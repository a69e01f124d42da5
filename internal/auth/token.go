package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	errorsx "github.com/seolim/thoughtcast/pkg/errors"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// HMACVerifier verifies tokens of the form "<userID>.<hex hmac-sha256>",
// where the signature covers the user id with a shared secret.
type HMACVerifier struct {
	secret []byte
}

func NewHMACVerifier(secret string) *HMACVerifier {
	return &HMACVerifier{secret: []byte(secret)}
}

// Sign issues a token for a user id.
func (v *HMACVerifier) Sign(userID string) string {
	return userID + "." + v.signature(userID)
}

// Verify checks the token signature and returns the embedded user id.
func (v *HMACVerifier) Verify(token string) (string, error) {
	dot := strings.LastIndex(token, ".")
	if dot <= 0 || dot == len(token)-1 {
		return "", errorsx.NewAuthError("malformed token")
	}

	userID := token[:dot]
	provided := token[dot+1:]

	expected := v.signature(userID)
	if !hmac.Equal([]byte(provided), []byte(expected)) {
		return "", errorsx.NewAuthError("invalid token signature")
	}
	return userID, nil
}

func (v *HMACVerifier) signature(userID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(userID))
	return hex.EncodeToString(mac.Sum(nil))
}
