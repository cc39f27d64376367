package sealbox

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is() checks.
var (
	// ErrNoRecipients is returned when seal is called with an empty
	// recipient list.
	ErrNoRecipients = errors.New("no recipients selected")

	// ErrUnknownRecipient is returned when a requested recipient key id is
	// not in the sealer's key set.
	ErrUnknownRecipient = errors.New("unknown recipient key id")

	// ErrUnknownSender is returned when an envelope's kid is not in the
	// unsealer's sender key set.
	ErrUnknownSender = errors.New("unknown sender key id")

	// ErrMixedKeyTypes is returned when the signing key's algorithm family
	// differs from a recipient or sender key's family.
	ErrMixedKeyTypes = errors.New("mixed signing and recipient key families")

	// ErrUnsupportedKeyType is returned for key material outside the RSA and
	// EC (P-256, P-384) families.
	ErrUnsupportedKeyType = errors.New("unsupported key type")

	// ErrInvalidSignature is returned when the envelope signature does not
	// verify against the sender's public key.
	ErrInvalidSignature = errors.New("envelope signature verification failed")

	// ErrNoCEKForRecipient is returned when an envelope carries no wrapped
	// content key for the unsealer's key id.
	ErrNoCEKForRecipient = errors.New("envelope has no content key for this recipient")

	// ErrKeyUnwrap is returned when the wrapped content key cannot be
	// recovered.
	ErrKeyUnwrap = errors.New("content key unwrap failed")

	// ErrInvalidCommitment is returned when the recomputed payload
	// commitment does not match the envelope's ctx field.
	ErrInvalidCommitment = errors.New("payload commitment mismatch")

	// ErrAuthenticationFailed is returned when the payload's AEAD tag does
	// not verify.
	ErrAuthenticationFailed = errors.New("payload authentication failed")

	// ErrKeyImport is returned when key material cannot be imported.
	ErrKeyImport = errors.New("key import failed")

	// ErrInvalidEnvelope is returned for structurally invalid envelopes:
	// missing fields, undecodable base64, or a payload too short to hold an
	// IV and authentication tag.
	ErrInvalidEnvelope = errors.New("invalid envelope")

	// ErrEnvelopeRejected matches every cryptographic rejection
	// (ErrInvalidSignature, ErrKeyUnwrap, ErrInvalidCommitment,
	// ErrAuthenticationFailed). Callers that must not act as a rejection
	// oracle can report this single error while logging the specific kind.
	ErrEnvelopeRejected = errors.New("envelope rejected")
)

// SealboxError is implemented by all errors produced by this package.
type SealboxError interface {
	error
	SealboxError() // marker method
}

// UnknownRecipientError reports which requested recipient id was not found.
type UnknownRecipientError struct {
	Kid string
}

func (e *UnknownRecipientError) Error() string {
	return fmt.Sprintf("unknown recipient key id %q", e.Kid)
}

// Is implements errors.Is for sentinel error matching.
func (e *UnknownRecipientError) Is(target error) bool {
	return target == ErrUnknownRecipient
}

// SealboxError implements the SealboxError interface.
func (e *UnknownRecipientError) SealboxError() {}

// UnknownSenderError reports an envelope kid with no registered public key.
type UnknownSenderError struct {
	Kid string
}

func (e *UnknownSenderError) Error() string {
	return fmt.Sprintf("unknown sender key id %q", e.Kid)
}

// Is implements errors.Is for sentinel error matching.
func (e *UnknownSenderError) Is(target error) bool {
	return target == ErrUnknownSender
}

// SealboxError implements the SealboxError interface.
func (e *UnknownSenderError) SealboxError() {}

// KeyImportError reports a failure to import one key descriptor.
type KeyImportError struct {
	Kid string
	Err error
}

func (e *KeyImportError) Error() string {
	return fmt.Sprintf("import key %q: %v", e.Kid, e.Err)
}

// Unwrap returns the underlying error.
func (e *KeyImportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *KeyImportError) Is(target error) bool {
	return target == ErrKeyImport
}

// SealboxError implements the SealboxError interface.
func (e *KeyImportError) SealboxError() {}

// SignatureError indicates the envelope signature did not verify: the
// envelope was tampered with, or kid names a different key than the one that
// signed it.
type SignatureError struct {
	Kid string
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("signature verification failed for sender %q", e.Kid)
}

// Is implements errors.Is for sentinel error matching.
func (e *SignatureError) Is(target error) bool {
	return target == ErrInvalidSignature || target == ErrEnvelopeRejected
}

// SealboxError implements the SealboxError interface.
func (e *SignatureError) SealboxError() {}

// KeyUnwrapError reports a provider-level failure recovering the content key.
type KeyUnwrapError struct {
	Kid string
	Err error
}

func (e *KeyUnwrapError) Error() string {
	return fmt.Sprintf("unwrap content key for %q: %v", e.Kid, e.Err)
}

// Unwrap returns the underlying error.
func (e *KeyUnwrapError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *KeyUnwrapError) Is(target error) bool {
	return target == ErrKeyUnwrap || target == ErrEnvelopeRejected
}

// SealboxError implements the SealboxError interface.
func (e *KeyUnwrapError) SealboxError() {}

// CommitmentError indicates the payload does not match the commitment tag
// every recipient verifies before trusting decrypted output.
type CommitmentError struct{}

func (e *CommitmentError) Error() string {
	return "payload commitment does not match envelope ctx"
}

// Is implements errors.Is for sentinel error matching.
func (e *CommitmentError) Is(target error) bool {
	return target == ErrInvalidCommitment || target == ErrEnvelopeRejected
}

// SealboxError implements the SealboxError interface.
func (e *CommitmentError) SealboxError() {}

// AuthenticationError indicates the AEAD tag check failed during payload
// decryption.
type AuthenticationError struct{}

func (e *AuthenticationError) Error() string {
	return "payload authentication failed"
}

// Is implements errors.Is for sentinel error matching.
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthenticationFailed || target == ErrEnvelopeRejected
}

// SealboxError implements the SealboxError interface.
func (e *AuthenticationError) SealboxError() {}
