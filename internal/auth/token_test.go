package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestNewTokenService_EmptySecret(t *testing.T) {
	t.Parallel()

	for _, secret := range []string{"", "   ", "\t\n"} {
		if _, err := NewTokenService(secret); err == nil {
			t.Errorf("NewTokenService(%q) should fail", secret)
		}
	}
}

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}

	token, err := svc.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if token == "" {
		t.Fatal("Issue returned an empty token")
	}

	subject, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if subject != "user-123" {
		t.Fatalf("subject mismatch: got %q want %q", subject, "user-123")
	}
}

// signedWithExpiry builds a token with the service secret but an arbitrary
// expiry, to exercise the time window without sleeping.
func signedWithExpiry(t *testing.T, svc *TokenService, subject string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-TokenTTL)),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString(svc.secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerify_ExpiryWindow(t *testing.T) {
	t.Parallel()

	svc, err := NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}

	// Still inside the window: expiry one minute from now.
	fresh := signedWithExpiry(t, svc, "u1", time.Now().Add(time.Minute))
	if _, err := svc.Verify(fresh); err != nil {
		t.Errorf("Verify rejected an unexpired token: %v", err)
	}

	// One minute past expiry.
	stale := signedWithExpiry(t, svc, "u1", time.Now().Add(-time.Minute))
	if _, err := svc.Verify(stale); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify(expired) error = %v, want ErrTokenExpired", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	svcA, _ := NewTokenService("secret-a")
	svcB, _ := NewTokenService("secret-b")

	token, err := svcA.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if _, err := svcB.Verify(token); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify with wrong secret error = %v, want ErrTokenMalformed", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	svc, _ := NewTokenService("test-secret")

	for _, tok := range []string{"", "garbage", "not.a.jwt", "eyJhbGciOiJIUzI1NiJ9.x.y"} {
		if _, err := svc.Verify(tok); !errors.Is(err, ErrTokenMalformed) {
			t.Errorf("Verify(%q) error = %v, want ErrTokenMalformed", tok, err)
		}
	}
}

func TestVerify_MissingSubject(t *testing.T) {
	t.Parallel()

	svc, _ := NewTokenService("test-secret")

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
	})
	signed, err := token.SignedString(svc.secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(signed); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify(no subject) error = %v, want ErrTokenMalformed", err)
	}
}

func TestVerify_MissingExpiry(t *testing.T) {
	t.Parallel()

	svc, _ := NewTokenService("test-secret")

	// A correctly signed token without an exp claim must not verify.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  "user-123",
		IssuedAt: jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString(svc.secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(signed); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify(no expiry) error = %v, want ErrTokenMalformed", err)
	}
}

func TestVerify_RejectsNonHMAC(t *testing.T) {
	t.Parallel()

	svc, _ := NewTokenService("test-secret")

	// alg=none style tokens must not verify.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := svc.Verify(signed); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify(alg=none) error = %v, want ErrTokenMalformed", err)
	}
}
