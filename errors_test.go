package sealbox

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestTypedErrors_SentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		rejected bool
	}{
		{"unknown recipient", &UnknownRecipientError{Kid: "x"}, ErrUnknownRecipient, false},
		{"unknown sender", &UnknownSenderError{Kid: "x"}, ErrUnknownSender, false},
		{"key import", &KeyImportError{Kid: "x", Err: errors.New("boom")}, ErrKeyImport, false},
		{"signature", &SignatureError{Kid: "x"}, ErrInvalidSignature, true},
		{"key unwrap", &KeyUnwrapError{Kid: "x", Err: errors.New("boom")}, ErrKeyUnwrap, true},
		{"commitment", &CommitmentError{}, ErrInvalidCommitment, true},
		{"authentication", &AuthenticationError{}, ErrAuthenticationFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%T, sentinel) = false", tt.err)
			}
			if got := errors.Is(tt.err, ErrEnvelopeRejected); got != tt.rejected {
				t.Errorf("errors.Is(%T, ErrEnvelopeRejected) = %v, want %v", tt.err, got, tt.rejected)
			}
		})
	}
}

func TestTypedErrors_MarkerInterface(t *testing.T) {
	all := []error{
		&UnknownRecipientError{},
		&UnknownSenderError{},
		&KeyImportError{},
		&SignatureError{},
		&KeyUnwrapError{},
		&CommitmentError{},
		&AuthenticationError{},
	}

	for _, err := range all {
		if _, ok := err.(SealboxError); !ok {
			t.Errorf("%T does not implement SealboxError", err)
		}
	}
}

func TestTypedErrors_Unwrap(t *testing.T) {
	inner := errors.New("inner cause")

	if got := errors.Unwrap(&KeyImportError{Kid: "k", Err: inner}); got != inner {
		t.Errorf("KeyImportError Unwrap = %v", got)
	}
	if got := errors.Unwrap(&KeyUnwrapError{Kid: "k", Err: inner}); got != inner {
		t.Errorf("KeyUnwrapError Unwrap = %v", got)
	}
}

func TestTypedErrors_Messages(t *testing.T) {
	err := &UnknownRecipientError{Kid: "mallory-1"}
	if !strings.Contains(err.Error(), "mallory-1") {
		t.Errorf("message does not name the kid: %s", err)
	}

	wrapped := fmt.Errorf("seal: %w", err)
	if !errors.Is(wrapped, ErrUnknownRecipient) {
		t.Error("wrapping broke sentinel matching")
	}
}
