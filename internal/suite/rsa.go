package suite

import (
	stdcrypto "crypto"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"

	"github.com/sealbox/sealbox-go/internal/crypto"
)

// pssSaltLength is fixed by the protocol so all implementations produce and
// accept the same signatures.
const pssSaltLength = 32

// rsaSuite signs with RSA-PSS (SHA-256, 32-byte salt) and wraps CEKs by
// direct RSA-OAEP (SHA-256) encryption of the raw key bytes.
type rsaSuite struct{}

func (rsaSuite) Family() string { return FamilyRSA }

func (rsaSuite) Sign(message []byte, key any) ([]byte, error) {
	priv, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected RSA private key, got %T", ErrWrongKeyType, key)
	}

	digest := sha256.Sum256(message)

	sig, err := rsa.SignPSS(crypto.Reader(), priv, stdcrypto.SHA256, digest[:], &rsa.PSSOptions{
		SaltLength: pssSaltLength,
		Hash:       stdcrypto.SHA256,
	})
	if err != nil {
		return nil, fmt.Errorf("rsa-pss sign: %w", err)
	}

	return sig, nil
}

func (rsaSuite) Verify(message, signature []byte, key any) error {
	pub, ok := key.(*rsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: expected RSA public key, got %T", ErrWrongKeyType, key)
	}

	digest := sha256.Sum256(message)

	err := rsa.VerifyPSS(pub, stdcrypto.SHA256, digest[:], signature, &rsa.PSSOptions{
		SaltLength: pssSaltLength,
		Hash:       stdcrypto.SHA256,
	})
	if err != nil {
		return ErrBadSignature
	}

	return nil
}

func (rsaSuite) WrapKey(cek []byte, recipientPub any) ([]byte, error) {
	pub, ok := recipientPub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected RSA public key, got %T", ErrWrongKeyType, recipientPub)
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), crypto.Reader(), pub, cek, nil)
	if err != nil {
		return nil, fmt.Errorf("rsa-oaep wrap: %w", err)
	}

	return wrapped, nil
}

func (rsaSuite) UnwrapKey(blob []byte, recipientPriv any) ([]byte, error) {
	priv, ok := recipientPriv.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected RSA private key, got %T", ErrWrongKeyType, recipientPriv)
	}

	cek, err := rsa.DecryptOAEP(sha256.New(), nil, priv, blob, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: rsa-oaep: %v", ErrUnwrapFailed, err)
	}

	return cek, nil
}
