package auth

import (
	"testing"

	errorsx "github.com/seolim/thoughtcast/pkg/errors"
)

func TestHMACVerifierRoundTrip(t *testing.T) {
	verifier := NewHMACVerifier("test-secret")

	token := verifier.Sign("user-42")
	userID, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != "user-42" {
		t.Errorf("userID = %q", userID)
	}
}

func TestHMACVerifierRejects(t *testing.T) {
	verifier := NewHMACVerifier("test-secret")
	other := NewHMACVerifier("other-secret")

	cases := []string{
		"",
		"no-dot",
		".aabb",
		"user-42.",
		"user-42.deadbeef",
		other.Sign("user-42"),
	}
	for _, token := range cases {
		if _, err := verifier.Verify(token); err == nil {
			t.Errorf("token %q accepted", token)
		} else if errorsx.Kind(err) != errorsx.KindAuth {
			t.Errorf("token %q: kind = %s, want auth", token, errorsx.Kind(err))
		}
	}
}
