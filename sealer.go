package sealbox

import (
	"fmt"

	"github.com/sealbox/sealbox-go/internal/canonical"
	"github.com/sealbox/sealbox-go/internal/crypto"
	"github.com/sealbox/sealbox-go/internal/suite"
)

// Sealer encrypts payloads for sets of known recipients and signs the
// result. The key set is fixed at construction and never mutated, so a
// Sealer is safe for concurrent use; every Seal call works from its own
// fresh content key and, for EC recipients, its own ephemeral key pairs.
type Sealer struct {
	kid        string
	signingKey any
	suite      suite.Suite
	recipients map[string]*importedKey
}

// NewSealer imports the signing key (private half required) and the
// recipient public keys. All keys must belong to one algorithm family;
// a mixed set fails with ErrMixedKeyTypes before any envelope is produced.
func NewSealer(signing KeyDescriptor, recipients []KeyDescriptor) (*Sealer, error) {
	signKey, err := importKey(signing, true)
	if err != nil {
		return nil, err
	}

	s, err := suite.ForFamily(signKey.family)
	if err != nil {
		return nil, &KeyImportError{Kid: signKey.kid, Err: err}
	}

	known := make(map[string]*importedKey, len(recipients))
	for _, d := range recipients {
		key, err := importKey(d, false)
		if err != nil {
			return nil, err
		}
		if key.family != signKey.family {
			return nil, ErrMixedKeyTypes
		}
		known[key.kid] = key
	}

	return &Sealer{
		kid:        signKey.kid,
		signingKey: signKey.private,
		suite:      s,
		recipients: known,
	}, nil
}

// NewSealerFromKeySet builds a Sealer whose signing key is the descriptor
// with signingKid and whose recipients are all other descriptors in the set.
func NewSealerFromKeySet(keys KeySet, signingKid string) (*Sealer, error) {
	signing, ok := keys.Find(signingKid)
	if !ok {
		return nil, &KeyImportError{Kid: signingKid, Err: ErrUnknownSender}
	}

	recipients := make([]KeyDescriptor, 0, len(keys.Keys)-1)
	for _, d := range keys.Keys {
		if d.Kid != signingKid {
			recipients = append(recipients, d)
		}
	}

	return NewSealer(signing, recipients)
}

// Recipients returns the key ids this Sealer can address.
func (s *Sealer) Recipients() []string {
	kids := make([]string, 0, len(s.recipients))
	for kid := range s.recipients {
		kids = append(kids, kid)
	}
	return kids
}

// Seal encrypts plaintext once for the named recipients and returns the
// signed envelope.
//
// Recipient-set validation happens before any key material is touched: an
// empty list fails with ErrNoRecipients and an unknown id with
// ErrUnknownRecipient without a single byte of randomness being drawn.
func (s *Sealer) Seal(plaintext []byte, recipientKids ...string) (*Envelope, error) {
	if len(recipientKids) == 0 {
		return nil, ErrNoRecipients
	}

	selected := make([]*importedKey, 0, len(recipientKids))
	for _, kid := range recipientKids {
		key, ok := s.recipients[kid]
		if !ok {
			return nil, &UnknownRecipientError{Kid: kid}
		}
		selected = append(selected, key)
	}

	cek, err := crypto.GenerateCEK()
	if err != nil {
		return nil, err
	}

	payload, err := crypto.EncryptPayload(plaintext, cek)
	if err != nil {
		return nil, err
	}

	// One wrap per recipient. A failed wrap aborts the seal; recipients are
	// never silently dropped.
	wrapped := make(map[string]string, len(selected))
	for _, key := range selected {
		blob, err := s.suite.WrapKey(cek, key.public)
		if err != nil {
			return nil, fmt.Errorf("wrap content key for %q: %w", key.kid, err)
		}
		wrapped[key.kid] = crypto.ToBase64(blob)
	}

	payloadB64 := crypto.ToBase64(payload)

	canon, err := canonical.Marshal(signingInput{
		Kid:     s.kid,
		Cek:     wrapped,
		Payload: payloadB64,
	})
	if err != nil {
		return nil, err
	}

	signature, err := s.suite.Sign(canon, s.signingKey)
	if err != nil {
		return nil, err
	}

	commitment, err := crypto.CommitmentOfPayload(payload)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Kid:       s.kid,
		Cek:       wrapped,
		Payload:   payloadB64,
		Signature: crypto.ToBase64(signature),
		Ctx:       crypto.ToBase64(commitment),
	}, nil
}

// SealString seals a UTF-8 string plaintext. The string is normalized to
// its byte form; recipients always recover bytes and may decode them back.
func (s *Sealer) SealString(plaintext string, recipientKids ...string) (*Envelope, error) {
	return s.Seal([]byte(plaintext), recipientKids...)
}
