package sealbox

import (
	"crypto/subtle"

	"github.com/sealbox/sealbox-go/internal/canonical"
	"github.com/sealbox/sealbox-go/internal/crypto"
	"github.com/sealbox/sealbox-go/internal/suite"
)

// Unsealer opens envelopes addressed to one recipient key, verifying them
// against a set of known sender public keys. The key set is fixed at
// construction; an Unsealer is safe for concurrent use.
type Unsealer struct {
	kid     string
	decKey  any
	suite   suite.Suite
	senders map[string]*importedKey
}

// NewUnsealer imports the recipient's decryption key (private half required)
// and the sender verification keys. All keys must belong to one algorithm
// family; a mixed set fails with ErrMixedKeyTypes.
func NewUnsealer(decryption KeyDescriptor, senders []KeyDescriptor) (*Unsealer, error) {
	decKey, err := importKey(decryption, true)
	if err != nil {
		return nil, err
	}

	s, err := suite.ForFamily(decKey.family)
	if err != nil {
		return nil, &KeyImportError{Kid: decKey.kid, Err: err}
	}

	known := make(map[string]*importedKey, len(senders))
	for _, d := range senders {
		key, err := importKey(d, false)
		if err != nil {
			return nil, err
		}
		if key.family != decKey.family {
			return nil, ErrMixedKeyTypes
		}
		known[key.kid] = key
	}

	return &Unsealer{
		kid:     decKey.kid,
		decKey:  decKey.private,
		suite:   s,
		senders: known,
	}, nil
}

// Unseal verifies and decrypts an envelope, returning the plaintext bytes.
//
// The verification order is a protocol invariant, not an implementation
// detail:
//
//  1. the sender's kid must be known,
//  2. the signature over canonical {kid, cek, payload} must verify before
//     any other field is trusted,
//  3. this recipient must be addressed by the cek map,
//  4. the content key must unwrap,
//  5. the payload commitment must match ctx before decrypted output is
//     accepted as authoritative,
//  6. the AEAD tag must verify during payload decryption.
func (u *Unsealer) Unseal(envelope *Envelope) ([]byte, error) {
	if envelope == nil {
		return nil, ErrInvalidEnvelope
	}
	if err := envelope.Validate(); err != nil {
		return nil, err
	}

	// 1. Sender lookup.
	sender, ok := u.senders[envelope.Kid]
	if !ok {
		return nil, &UnknownSenderError{Kid: envelope.Kid}
	}

	// 2. Signature over the canonical signing input. ctx is never covered.
	canon, err := canonical.Marshal(signingInput{
		Kid:     envelope.Kid,
		Cek:     envelope.Cek,
		Payload: envelope.Payload,
	})
	if err != nil {
		return nil, err
	}

	signature, err := crypto.FromBase64(envelope.Signature)
	if err != nil {
		return nil, &SignatureError{Kid: envelope.Kid}
	}

	if err := u.suite.Verify(canon, signature, sender.public); err != nil {
		return nil, &SignatureError{Kid: envelope.Kid}
	}

	// 3. This recipient must have a wrapped content key.
	wrappedB64, ok := envelope.Cek[u.kid]
	if !ok {
		return nil, ErrNoCEKForRecipient
	}

	wrapped, err := crypto.FromBase64(wrappedB64)
	if err != nil {
		return nil, &KeyUnwrapError{Kid: u.kid, Err: err}
	}

	// 4. Recover the content key.
	cek, err := u.suite.UnwrapKey(wrapped, u.decKey)
	if err != nil {
		return nil, &KeyUnwrapError{Kid: u.kid, Err: err}
	}

	// 5. Recompute the commitment before trusting any decrypted output.
	payload, err := crypto.FromBase64(envelope.Payload)
	if err != nil {
		return nil, &CommitmentError{}
	}

	commitment, err := crypto.CommitmentOfPayload(payload)
	if err != nil {
		return nil, &CommitmentError{}
	}

	declared, err := crypto.FromBase64(envelope.Ctx)
	if err != nil {
		return nil, &CommitmentError{}
	}

	if subtle.ConstantTimeCompare(commitment, declared) != 1 {
		return nil, &CommitmentError{}
	}

	// 6. Decrypt; the AEAD tag check is the final gate.
	plaintext, err := crypto.DecryptPayload(payload, cek)
	if err != nil {
		return nil, &AuthenticationError{}
	}

	return plaintext, nil
}
