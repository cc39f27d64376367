package suite

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/sealbox/sealbox-go/internal/crypto"
)

// wrapKeyInfo is the HKDF context for deriving CEK wrap keys from ECDH
// shared secrets. Shared by all implementations of the protocol.
var wrapKeyInfo = []byte("sealbox:cek-wrap:v1")

// ecSuite signs with ECDSA (SHA-256, ASN.1 DER) and wraps CEKs by
// ephemeral-agreement: a fresh key pair on the recipient's curve, ECDH, an
// HKDF-SHA-256 derived AES-256 key, and AEAD encryption of the CEK.
//
// Wrapped blob layout: ephemeralPublicKey (uncompressed point) || IV ||
// ciphertext || tag. The ephemeral prefix length is fixed by the curve:
// 65 bytes for P-256, 97 for P-384.
type ecSuite struct{}

func (ecSuite) Family() string { return FamilyEC }

func (ecSuite) Sign(message []byte, key any) ([]byte, error) {
	priv, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected EC private key, got %T", ErrWrongKeyType, key)
	}

	digest := sha256.Sum256(message)

	sig, err := ecdsa.SignASN1(crypto.Reader(), priv, digest[:])
	if err != nil {
		return nil, fmt.Errorf("ecdsa sign: %w", err)
	}

	return sig, nil
}

func (ecSuite) Verify(message, signature []byte, key any) error {
	pub, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return fmt.Errorf("%w: expected EC public key, got %T", ErrWrongKeyType, key)
	}

	digest := sha256.Sum256(message)

	if !ecdsa.VerifyASN1(pub, digest[:], signature) {
		return ErrBadSignature
	}

	return nil
}

func (ecSuite) WrapKey(cek []byte, recipientPub any) ([]byte, error) {
	pub, ok := recipientPub.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected EC public key, got %T", ErrWrongKeyType, recipientPub)
	}

	curve, err := ecdhCurve(pub.Curve)
	if err != nil {
		return nil, err
	}

	recipientECDH, err := pub.ECDH()
	if err != nil {
		return nil, fmt.Errorf("convert recipient key to ECDH: %w", err)
	}

	// Single-use agreement key pair, generated on the recipient's curve and
	// dropped at the end of this call.
	ephPriv, err := curve.GenerateKey(crypto.Reader())
	if err != nil {
		return nil, fmt.Errorf("generate ephemeral key: %w", err)
	}

	shared, err := ephPriv.ECDH(recipientECDH)
	if err != nil {
		return nil, fmt.Errorf("ecdh agreement: %w", err)
	}

	wrapKey, err := deriveWrapKey(shared)
	if err != nil {
		return nil, err
	}

	wrapped, err := crypto.EncryptAESGCM(wrapKey, cek)
	if err != nil {
		return nil, fmt.Errorf("wrap content key: %w", err)
	}

	return append(ephPriv.PublicKey().Bytes(), wrapped...), nil
}

func (ecSuite) UnwrapKey(blob []byte, recipientPriv any) ([]byte, error) {
	priv, ok := recipientPriv.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: expected EC private key, got %T", ErrWrongKeyType, recipientPriv)
	}

	curve, err := ecdhCurve(priv.Curve)
	if err != nil {
		return nil, err
	}

	prefixLen := ephemeralKeySize(priv.Curve)
	if len(blob) < prefixLen+crypto.MinPayloadSize {
		return nil, fmt.Errorf("%w: wrapped key too short", ErrUnwrapFailed)
	}

	ephPub, err := curve.NewPublicKey(blob[:prefixLen])
	if err != nil {
		return nil, fmt.Errorf("%w: parse ephemeral key: %v", ErrUnwrapFailed, err)
	}

	recipientECDH, err := priv.ECDH()
	if err != nil {
		return nil, fmt.Errorf("convert recipient key to ECDH: %w", err)
	}

	shared, err := recipientECDH.ECDH(ephPub)
	if err != nil {
		return nil, fmt.Errorf("%w: ecdh agreement: %v", ErrUnwrapFailed, err)
	}

	wrapKey, err := deriveWrapKey(shared)
	if err != nil {
		return nil, err
	}

	cek, err := crypto.DecryptAESGCM(wrapKey, blob[prefixLen:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnwrapFailed, err)
	}

	return cek, nil
}

// deriveWrapKey derives the AES-256 key protecting a wrapped CEK from an
// ECDH shared secret.
func deriveWrapKey(shared []byte) ([]byte, error) {
	reader := hkdf.New(sha256.New, shared, nil, wrapKeyInfo)
	key := make([]byte, crypto.CEKSize)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive wrap key: %w", err)
	}
	return key, nil
}

// ephemeralKeySize is the uncompressed-point encoding length for the curve:
// 1 + 2*ceil(bits/8). The prefix length of a wrapped blob is derived from
// the recipient's curve rather than assumed constant.
func ephemeralKeySize(curve elliptic.Curve) int {
	byteLen := (curve.Params().BitSize + 7) / 8
	return 1 + 2*byteLen
}

func ecdhCurve(curve elliptic.Curve) (ecdh.Curve, error) {
	switch curve {
	case elliptic.P256():
		return ecdh.P256(), nil
	case elliptic.P384():
		return ecdh.P384(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported curve %s", ErrWrongKeyType, curve.Params().Name)
	}
}
