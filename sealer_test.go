package sealbox

import (
	"bytes"
	"crypto/rand"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sealbox/sealbox-go/internal/crypto"
)

func testDescriptor(t *testing.T, kid string, family Family, curve Curve) KeyDescriptor {
	t.Helper()
	d, err := GenerateKeyDescriptor(kid, family, curve)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestSeal_ConcreteScenario(t *testing.T) {
	alice := testDescriptor(t, "alice-1", FamilyRSA, "")
	bob := testDescriptor(t, "bob-1", FamilyRSA, "")

	sealer, err := NewSealer(alice, []KeyDescriptor{bob.PublicOnly()})
	if err != nil {
		t.Fatalf("NewSealer() error = %v", err)
	}

	envelope, err := sealer.SealString("hello", "bob-1")
	if err != nil {
		t.Fatalf("SealString() error = %v", err)
	}

	if envelope.Kid != "alice-1" {
		t.Errorf("kid = %q, want %q", envelope.Kid, "alice-1")
	}
	if len(envelope.Cek) != 1 {
		t.Errorf("cek entries = %d, want 1", len(envelope.Cek))
	}
	if _, ok := envelope.Cek["bob-1"]; !ok {
		t.Error("cek has no entry for bob-1")
	}

	payload, err := crypto.FromBase64(envelope.Payload)
	if err != nil {
		t.Fatal(err)
	}
	if len(payload) < 28 {
		t.Errorf("payload = %d bytes, want at least 28", len(payload))
	}

	unsealer, err := NewUnsealer(bob, []KeyDescriptor{alice.PublicOnly()})
	if err != nil {
		t.Fatalf("NewUnsealer() error = %v", err)
	}

	plaintext, err := unsealer.Unseal(envelope)
	if err != nil {
		t.Fatalf("Unseal() error = %v", err)
	}
	if string(plaintext) != "hello" {
		t.Errorf("plaintext = %q, want %q", plaintext, "hello")
	}
}

func TestSeal_NoRecipients(t *testing.T) {
	alice := testDescriptor(t, "alice-1", FamilyRSA, "")
	bob := testDescriptor(t, "bob-1", FamilyRSA, "")

	sealer, err := NewSealer(alice, []KeyDescriptor{bob.PublicOnly()})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := sealer.Seal([]byte("message")); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("expected ErrNoRecipients, got %v", err)
	}
}

func TestSeal_UnknownRecipient(t *testing.T) {
	alice := testDescriptor(t, "alice-1", FamilyRSA, "")
	bob := testDescriptor(t, "bob-1", FamilyRSA, "")

	sealer, err := NewSealer(alice, []KeyDescriptor{bob.PublicOnly()})
	if err != nil {
		t.Fatal(err)
	}

	_, err = sealer.Seal([]byte("message"), "bob-1", "mallory-1")
	if !errors.Is(err, ErrUnknownRecipient) {
		t.Fatalf("expected ErrUnknownRecipient, got %v", err)
	}

	var unknownErr *UnknownRecipientError
	if !errors.As(err, &unknownErr) || unknownErr.Kid != "mallory-1" {
		t.Errorf("error does not name the offending kid: %v", err)
	}
}

// countingReader counts every read from the protocol random source, so tests
// can assert that validation failures happen before any cryptography.
type countingReader struct {
	mu    sync.Mutex
	reads int
}

func (c *countingReader) Read(p []byte) (int, error) {
	c.mu.Lock()
	c.reads++
	c.mu.Unlock()
	return rand.Read(p)
}

func (c *countingReader) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

func TestSeal_ValidationPrecedesCrypto(t *testing.T) {
	alice := testDescriptor(t, "alice-1", FamilyRSA, "")
	bob := testDescriptor(t, "bob-1", FamilyRSA, "")

	sealer, err := NewSealer(alice, []KeyDescriptor{bob.PublicOnly()})
	if err != nil {
		t.Fatal(err)
	}

	counter := &countingReader{}
	restore := crypto.SetRandReaderForTesting(counter)
	defer restore()

	if _, err := sealer.Seal([]byte("message")); !errors.Is(err, ErrNoRecipients) {
		t.Fatalf("expected ErrNoRecipients, got %v", err)
	}
	if _, err := sealer.Seal([]byte("message"), "mallory-1"); !errors.Is(err, ErrUnknownRecipient) {
		t.Fatalf("expected ErrUnknownRecipient, got %v", err)
	}

	if counter.count() != 0 {
		t.Errorf("random source read %d times before validation failure, want 0", counter.count())
	}

	// A valid seal does draw randomness through the same source.
	if _, err := sealer.Seal([]byte("message"), "bob-1"); err != nil {
		t.Fatal(err)
	}
	if counter.count() == 0 {
		t.Error("successful seal drew no randomness from the instrumented source")
	}
}

func TestNewSealer_MixedKeyTypes(t *testing.T) {
	rsaSigner := testDescriptor(t, "alice-1", FamilyRSA, "")
	ecSigner := testDescriptor(t, "alice-2", FamilyEC, CurveP256)
	rsaRecipient := testDescriptor(t, "bob-1", FamilyRSA, "")
	ecRecipient := testDescriptor(t, "bob-2", FamilyEC, CurveP256)

	tests := []struct {
		name       string
		signing    KeyDescriptor
		recipients []KeyDescriptor
	}{
		{"rsa signer, ec recipient", rsaSigner, []KeyDescriptor{ecRecipient.PublicOnly()}},
		{"ec signer, rsa recipient", ecSigner, []KeyDescriptor{rsaRecipient.PublicOnly()}},
		{"mixed recipients", rsaSigner, []KeyDescriptor{rsaRecipient.PublicOnly(), ecRecipient.PublicOnly()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSealer(tt.signing, tt.recipients); !errors.Is(err, ErrMixedKeyTypes) {
				t.Errorf("expected ErrMixedKeyTypes, got %v", err)
			}
		})
	}
}

func TestSeal_SharedCommitment(t *testing.T) {
	alice := testDescriptor(t, "alice-1", FamilyRSA, "")
	bob := testDescriptor(t, "bob-1", FamilyRSA, "")
	carol := testDescriptor(t, "carol-1", FamilyRSA, "")

	sealer, err := NewSealer(alice, []KeyDescriptor{bob.PublicOnly(), carol.PublicOnly()})
	if err != nil {
		t.Fatal(err)
	}

	envelope, err := sealer.Seal([]byte("shared message"), "bob-1", "carol-1")
	if err != nil {
		t.Fatal(err)
	}

	if envelope.Cek["bob-1"] == envelope.Cek["carol-1"] {
		t.Error("wrapped CEKs for different recipients are identical")
	}

	senders := []KeyDescriptor{alice.PublicOnly()}

	bobUnsealer, err := NewUnsealer(bob, senders)
	if err != nil {
		t.Fatal(err)
	}
	carolUnsealer, err := NewUnsealer(carol, senders)
	if err != nil {
		t.Fatal(err)
	}

	bobPlaintext, err := bobUnsealer.Unseal(envelope)
	if err != nil {
		t.Fatalf("bob Unseal() error = %v", err)
	}
	carolPlaintext, err := carolUnsealer.Unseal(envelope)
	if err != nil {
		t.Fatalf("carol Unseal() error = %v", err)
	}

	if !bytes.Equal(bobPlaintext, carolPlaintext) {
		t.Error("recipients recovered different plaintexts from one envelope")
	}
	if string(bobPlaintext) != "shared message" {
		t.Errorf("plaintext = %q, want %q", bobPlaintext, "shared message")
	}
}

func TestSeal_EphemeralFreshness(t *testing.T) {
	alice := testDescriptor(t, "alice-1", FamilyEC, CurveP256)
	bob := testDescriptor(t, "bob-1", FamilyEC, CurveP256)

	sealer, err := NewSealer(alice, []KeyDescriptor{bob.PublicOnly()})
	if err != nil {
		t.Fatal(err)
	}

	first, err := sealer.Seal([]byte("message"), "bob-1")
	if err != nil {
		t.Fatal(err)
	}
	second, err := sealer.Seal([]byte("message"), "bob-1")
	if err != nil {
		t.Fatal(err)
	}

	a, err := crypto.FromBase64(first.Cek["bob-1"])
	if err != nil {
		t.Fatal(err)
	}
	b, err := crypto.FromBase64(second.Cek["bob-1"])
	if err != nil {
		t.Fatal(err)
	}

	// P-256 uncompressed ephemeral point prefix.
	if bytes.Equal(a[:65], b[:65]) {
		t.Error("two seal calls reused an ephemeral key")
	}
}

func TestSeal_Concurrent(t *testing.T) {
	alice := testDescriptor(t, "alice-1", FamilyEC, CurveP256)
	bob := testDescriptor(t, "bob-1", FamilyEC, CurveP256)

	sealer, err := NewSealer(alice, []KeyDescriptor{bob.PublicOnly()})
	if err != nil {
		t.Fatal(err)
	}
	unsealer, err := NewUnsealer(bob, []KeyDescriptor{alice.PublicOnly()})
	if err != nil {
		t.Fatal(err)
	}

	const workers = 8

	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			message := []byte{byte(n), 0xff, byte(n)}
			envelope, err := sealer.Seal(message, "bob-1")
			if err != nil {
				errs <- err
				return
			}
			plaintext, err := unsealer.Unseal(envelope)
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(plaintext, message) {
				errs <- errors.New("plaintext mismatch")
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestNewSealerFromKeySet(t *testing.T) {
	alice := testDescriptor(t, "alice-1", FamilyRSA, "")
	bob := testDescriptor(t, "bob-1", FamilyRSA, "")
	carol := testDescriptor(t, "carol-1", FamilyRSA, "")

	keys := KeySet{Keys: []KeyDescriptor{alice, bob.PublicOnly(), carol.PublicOnly()}}

	sealer, err := NewSealerFromKeySet(keys, "alice-1")
	if err != nil {
		t.Fatalf("NewSealerFromKeySet() error = %v", err)
	}

	kids := sealer.Recipients()
	if len(kids) != 2 {
		t.Errorf("recipients = %v, want bob-1 and carol-1", kids)
	}

	if _, err := NewSealerFromKeySet(keys, "nobody"); !errors.Is(err, ErrKeyImport) {
		t.Errorf("expected ErrKeyImport for missing signing kid, got %v", err)
	}
}

var _ io.Reader = (*countingReader)(nil)
