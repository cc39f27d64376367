package sealbox

import (
	"encoding/json"
	"fmt"

	"github.com/sealbox/sealbox-go/internal/crypto"
)

// Envelope is the wire artifact of one seal call: a payload encrypted once
// under a fresh content key, that key wrapped per recipient, a signature
// over the canonical {kid, cek, payload} object, and a commitment tag
// binding every recipient to the same ciphertext.
//
// All blob values are base64 (URL-safe, unpadded).
type Envelope struct {
	// Kid identifies the sender's signing key.
	Kid string `json:"kid"`
	// Cek maps recipient key id to that recipient's wrapped content key.
	Cek map[string]string `json:"cek"`
	// Payload is the encrypted message: 12-byte IV || ciphertext || 16-byte tag.
	Payload string `json:"payload"`
	// Signature is computed over the canonical form of {kid, cek, payload}.
	// It never covers ctx.
	Signature string `json:"signature"`
	// Ctx is the ciphertext-commitment tag over the payload components.
	Ctx string `json:"ctx"`
}

// signingInput is the exact object covered by the envelope signature.
type signingInput struct {
	Kid     string            `json:"kid"`
	Cek     map[string]string `json:"cek"`
	Payload string            `json:"payload"`
}

// Validate performs structural checks only: field presence, decodability,
// and minimum payload length. It makes no cryptographic judgement; a valid
// envelope may still fail signature, commitment or tag verification.
func (e *Envelope) Validate() error {
	if e.Kid == "" {
		return fmt.Errorf("%w: missing kid", ErrInvalidEnvelope)
	}
	if len(e.Cek) == 0 {
		return fmt.Errorf("%w: empty cek map", ErrInvalidEnvelope)
	}
	for kid, wrapped := range e.Cek {
		if kid == "" {
			return fmt.Errorf("%w: empty recipient key id", ErrInvalidEnvelope)
		}
		if _, err := crypto.FromBase64(wrapped); err != nil {
			return fmt.Errorf("%w: cek[%q] is not base64", ErrInvalidEnvelope, kid)
		}
	}

	payload, err := crypto.FromBase64(e.Payload)
	if err != nil {
		return fmt.Errorf("%w: payload is not base64", ErrInvalidEnvelope)
	}
	if len(payload) < crypto.MinPayloadSize {
		return fmt.Errorf("%w: payload is %d bytes, want at least %d", ErrInvalidEnvelope, len(payload), crypto.MinPayloadSize)
	}

	if _, err := crypto.FromBase64(e.Signature); err != nil || e.Signature == "" {
		return fmt.Errorf("%w: signature is not base64", ErrInvalidEnvelope)
	}
	if _, err := crypto.FromBase64(e.Ctx); err != nil || e.Ctx == "" {
		return fmt.Errorf("%w: ctx is not base64", ErrInvalidEnvelope)
	}

	return nil
}

// Marshal serializes the envelope to its JSON wire form.
func (e *Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// ParseEnvelope deserializes and structurally validates a wire envelope.
func ParseEnvelope(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
