package signature

import (
	"encoding/base64"
	"strings"
	"testing"
)

func TestSign_KnownVector(t *testing.T) {
	// RFC 4231 test case 2.
	got := Sign("Jefe", []byte("what do ya want for nothing?"))
	want := "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843"
	if got != want {
		t.Errorf("Sign() = %s, want %s", got, want)
	}
}

func TestVerify(t *testing.T) {
	body := []byte(`{"meetingId":"m-1","eventType":"Transcription completed"}`)
	sig := Sign("s3cret", body)

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{"bare hex", sig, true},
		{"prefixed", "sha256=" + sig, true},
		{"uppercase hex", strings.ToUpper(sig), true},
		{"empty", "", false},
		{"prefix only", "sha256=", false},
		{"truncated", sig[:10], false},
		{"wrong secret", Sign("other", body), false},
		{"tampered", "sha256=" + strings.Repeat("0", len(sig)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Verify("s3cret", body, tt.header); got != tt.want {
				t.Errorf("Verify(%q) = %v, want %v", tt.header, got, tt.want)
			}
		})
	}
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	if err != nil {
		t.Fatalf("GenerateSecret() error = %v", err)
	}
	raw, err := base64.RawURLEncoding.DecodeString(a)
	if err != nil {
		t.Fatalf("secret is not base64url: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("secret bytes = %d, want 32", len(raw))
	}

	b, _ := GenerateSecret()
	if a == b {
		t.Error("two generated secrets are equal")
	}
}
