// Package suite implements the two algorithm families of the sealed-envelope
// protocol as a closed set of strategies. A suite is selected once, at
// Sealer/Unsealer construction, from the key family; keys of the other
// family are rejected there rather than dispatched per call.
package suite

import "errors"

// Algorithm family names.
const (
	FamilyRSA = "RSA"
	FamilyEC  = "EC"
)

var (
	// ErrUnsupportedFamily is returned for a family outside the closed set.
	ErrUnsupportedFamily = errors.New("unsupported algorithm family")

	// ErrWrongKeyType is returned when a key handle does not match the
	// suite's algorithm family.
	ErrWrongKeyType = errors.New("key type does not match algorithm family")

	// ErrUnwrapFailed is returned when a wrapped content key cannot be
	// recovered.
	ErrUnwrapFailed = errors.New("content key unwrap failed")

	// ErrBadSignature is returned when a signature does not verify.
	ErrBadSignature = errors.New("signature does not verify")
)

// Suite is one algorithm family's signing and key-wrapping strategy. Key
// handles are passed as opaque values (*rsa.PublicKey / *rsa.PrivateKey for
// the RSA suite, *ecdsa.PublicKey / *ecdsa.PrivateKey for the EC suite);
// a mismatched handle fails with ErrWrongKeyType.
type Suite interface {
	// Family reports the algorithm family this suite implements.
	Family() string

	// Sign signs the canonical message bytes with the entity's signing key.
	Sign(message []byte, key any) ([]byte, error)

	// Verify checks a signature over the canonical message bytes.
	// A verification failure is ErrBadSignature, never a soft result.
	Verify(message, signature []byte, key any) error

	// WrapKey protects the CEK for one recipient public key.
	WrapKey(cek []byte, recipientPub any) ([]byte, error)

	// UnwrapKey recovers the CEK from a wrapped blob with the recipient's
	// private key.
	UnwrapKey(blob []byte, recipientPriv any) ([]byte, error)
}

// ForFamily returns the suite implementing the given algorithm family.
func ForFamily(family string) (Suite, error) {
	switch family {
	case FamilyRSA:
		return rsaSuite{}, nil
	case FamilyEC:
		return ecSuite{}, nil
	default:
		return nil, ErrUnsupportedFamily
	}
}
