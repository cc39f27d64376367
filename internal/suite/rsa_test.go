package suite

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
)

func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	return key
}

func TestForFamily(t *testing.T) {
	tests := []struct {
		family  string
		wantErr bool
	}{
		{FamilyRSA, false},
		{FamilyEC, false},
		{"OKP", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			s, err := ForFamily(tt.family)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFamily) {
					t.Errorf("expected ErrUnsupportedFamily, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ForFamily(%q) error = %v", tt.family, err)
			}
			if s.Family() != tt.family {
				t.Errorf("Family() = %q, want %q", s.Family(), tt.family)
			}
		})
	}
}

func TestRSASuite_SignVerify(t *testing.T) {
	s, err := ForFamily(FamilyRSA)
	if err != nil {
		t.Fatal(err)
	}

	key := testRSAKey(t)
	message := []byte(`{"cek":{"bob-1":"d2F0"},"kid":"alice-1","payload":"cGF5bG9hZA"}`)

	sig, err := s.Sign(message, key)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if err := s.Verify(message, sig, &key.PublicKey); err != nil {
		t.Errorf("Verify() error = %v", err)
	}
}

func TestRSASuite_VerifyRejects(t *testing.T) {
	s, _ := ForFamily(FamilyRSA)
	key := testRSAKey(t)
	other := testRSAKey(t)
	message := []byte("canonical bytes")

	sig, err := s.Sign(message, key)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		message []byte
		sig     []byte
		pub     any
	}{
		{"tampered message", []byte("canonical bytez"), sig, &key.PublicKey},
		{"tampered signature", message, flipByte(sig, 0), &key.PublicKey},
		{"wrong key", message, sig, &other.PublicKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Verify(tt.message, tt.sig, tt.pub); !errors.Is(err, ErrBadSignature) {
				t.Errorf("expected ErrBadSignature, got %v", err)
			}
		})
	}
}

func TestRSASuite_WrapUnwrap_RoundTrip(t *testing.T) {
	s, _ := ForFamily(FamilyRSA)
	key := testRSAKey(t)

	cek := make([]byte, 32)
	if _, err := rand.Read(cek); err != nil {
		t.Fatal(err)
	}

	wrapped, err := s.WrapKey(cek, &key.PublicKey)
	if err != nil {
		t.Fatalf("WrapKey() error = %v", err)
	}

	if bytes.Contains(wrapped, cek) {
		t.Error("wrapped blob contains the raw CEK")
	}

	unwrapped, err := s.UnwrapKey(wrapped, key)
	if err != nil {
		t.Fatalf("UnwrapKey() error = %v", err)
	}

	if !bytes.Equal(unwrapped, cek) {
		t.Error("unwrapped CEK differs from original")
	}
}

func TestRSASuite_UnwrapWrongKey(t *testing.T) {
	s, _ := ForFamily(FamilyRSA)
	key := testRSAKey(t)
	other := testRSAKey(t)

	cek := make([]byte, 32)
	wrapped, err := s.WrapKey(cek, &key.PublicKey)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.UnwrapKey(wrapped, other); !errors.Is(err, ErrUnwrapFailed) {
		t.Errorf("expected ErrUnwrapFailed, got %v", err)
	}
}

func TestRSASuite_RejectsECKeys(t *testing.T) {
	s, _ := ForFamily(FamilyRSA)

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := s.Sign([]byte("m"), ecKey); !errors.Is(err, ErrWrongKeyType) {
		t.Errorf("Sign: expected ErrWrongKeyType, got %v", err)
	}
	if err := s.Verify([]byte("m"), []byte("sig"), &ecKey.PublicKey); !errors.Is(err, ErrWrongKeyType) {
		t.Errorf("Verify: expected ErrWrongKeyType, got %v", err)
	}
	if _, err := s.WrapKey(make([]byte, 32), &ecKey.PublicKey); !errors.Is(err, ErrWrongKeyType) {
		t.Errorf("WrapKey: expected ErrWrongKeyType, got %v", err)
	}
	if _, err := s.UnwrapKey([]byte("blob"), ecKey); !errors.Is(err, ErrWrongKeyType) {
		t.Errorf("UnwrapKey: expected ErrWrongKeyType, got %v", err)
	}
}

func flipByte(b []byte, i int) []byte {
	out := bytes.Clone(b)
	out[i] ^= 0x01
	return out
}
