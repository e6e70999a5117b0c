package utils

import "testing"

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("test-secret", 42, "seller", 15)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	uid, role, err := ParseAccessToken("test-secret", tok.Token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != 42 || role != "seller" {
		t.Fatalf("claims mangled: uid=%d role=%q", uid, role)
	}
}

func TestAccessTokenWrongSecret(t *testing.T) {
	tok, err := NewAccessToken("test-secret", 42, "buyer", 15)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, _, err := ParseAccessToken("other-secret", tok.Token); err == nil {
		t.Fatal("token signed with a different secret must be rejected")
	}
}

func TestAccessTokenGarbage(t *testing.T) {
	if _, _, err := ParseAccessToken("test-secret", "not.a.jwt"); err == nil {
		t.Fatal("malformed token must be rejected")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret1", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !VerifyPassword(hash, "secret1") {
		t.Fatal("correct password rejected")
	}
	if VerifyPassword(hash, "secret2") {
		t.Fatal("wrong password accepted")
	}
}
