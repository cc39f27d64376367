package sealbox

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/sealbox/sealbox-go/internal/suite"
)

// Family identifies an algorithm family. All keys used in one seal or unseal
// call must share a family.
type Family string

// Supported algorithm families.
const (
	FamilyRSA Family = "RSA" // RSA-PSS signing, RSA-OAEP key wrapping
	FamilyEC  Family = "EC"  // ECDSA signing, ECDH key wrapping
)

// Curve identifies an elliptic curve for EC-family keys.
type Curve string

// Supported curves.
const (
	CurveP256 Curve = "P-256"
	CurveP384 Curve = "P-384"
)

// rsaKeyBits is the modulus size used by GenerateKeyDescriptor.
const rsaKeyBits = 2048

// KeyDescriptor describes one key: its id, algorithm family and, for EC
// keys, curve, with PEM-encoded key material. Private keys are PKCS#8,
// public keys PKIX. Family and Curve may be left empty and are then inferred
// from the key material; when set, they are cross-checked against it.
type KeyDescriptor struct {
	Kid     string `json:"kid"`
	Family  Family `json:"family,omitempty"`
	Curve   Curve  `json:"curve,omitempty"`
	Private string `json:"private,omitempty"`
	Public  string `json:"public,omitempty"`
}

// PublicOnly returns a copy of the descriptor with the private half removed,
// suitable for distribution to senders.
func (d KeyDescriptor) PublicOnly() KeyDescriptor {
	d.Private = ""
	return d
}

// KeySet is a collection of key descriptors. Its JSON form may be either a
// bare array of descriptors or an object {"keys": [...]}.
type KeySet struct {
	Keys []KeyDescriptor
}

// UnmarshalJSON accepts both collection shapes.
func (s *KeySet) UnmarshalJSON(data []byte) error {
	var arr []KeyDescriptor
	if err := json.Unmarshal(data, &arr); err == nil {
		s.Keys = arr
		return nil
	}

	var obj struct {
		Keys []KeyDescriptor `json:"keys"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("key set must be an array or a {\"keys\": [...]} object: %w", err)
	}

	s.Keys = obj.Keys
	return nil
}

// MarshalJSON writes the object form.
func (s KeySet) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Keys []KeyDescriptor `json:"keys"`
	}{Keys: s.Keys})
}

// Find returns the descriptor with the given kid.
func (s KeySet) Find(kid string) (KeyDescriptor, bool) {
	for _, d := range s.Keys {
		if d.Kid == kid {
			return d, true
		}
	}
	return KeyDescriptor{}, false
}

// importedKey is a descriptor resolved to parsed key handles.
type importedKey struct {
	kid     string
	family  string // suite.FamilyRSA or suite.FamilyEC
	curve   Curve  // EC only
	public  any    // *rsa.PublicKey or *ecdsa.PublicKey
	private any    // *rsa.PrivateKey or *ecdsa.PrivateKey, nil for public-only
}

// importKey parses a descriptor's PEM material, classifies its family and
// curve, and cross-checks any declared tags. With needPrivate set, a
// descriptor without a private half is rejected.
func importKey(d KeyDescriptor, needPrivate bool) (*importedKey, error) {
	if d.Kid == "" {
		return nil, &KeyImportError{Kid: d.Kid, Err: errors.New("descriptor has no kid")}
	}

	key := &importedKey{kid: d.Kid}

	switch {
	case d.Private != "":
		priv, err := parsePrivatePEM(d.Private)
		if err != nil {
			return nil, &KeyImportError{Kid: d.Kid, Err: err}
		}
		if err := key.setPrivate(priv); err != nil {
			return nil, &KeyImportError{Kid: d.Kid, Err: err}
		}
	case d.Public != "":
		if needPrivate {
			return nil, &KeyImportError{Kid: d.Kid, Err: errors.New("descriptor has no private key")}
		}
		pub, err := parsePublicPEM(d.Public)
		if err != nil {
			return nil, &KeyImportError{Kid: d.Kid, Err: err}
		}
		if err := key.setPublic(pub); err != nil {
			return nil, &KeyImportError{Kid: d.Kid, Err: err}
		}
	default:
		return nil, &KeyImportError{Kid: d.Kid, Err: errors.New("descriptor has no key material")}
	}

	if d.Family != "" && string(d.Family) != key.family {
		return nil, &KeyImportError{Kid: d.Kid, Err: fmt.Errorf("descriptor declares family %s but key is %s", d.Family, key.family)}
	}
	if d.Curve != "" && d.Curve != key.curve {
		return nil, &KeyImportError{Kid: d.Kid, Err: fmt.Errorf("descriptor declares curve %s but key is on %s", d.Curve, key.curve)}
	}

	return key, nil
}

func (k *importedKey) setPrivate(priv any) error {
	switch p := priv.(type) {
	case *rsa.PrivateKey:
		k.family = suite.FamilyRSA
		k.private = p
		k.public = &p.PublicKey
	case *ecdsa.PrivateKey:
		curve, err := curveName(p.Curve)
		if err != nil {
			return err
		}
		k.family = suite.FamilyEC
		k.curve = curve
		k.private = p
		k.public = &p.PublicKey
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedKeyType, priv)
	}
	return nil
}

func (k *importedKey) setPublic(pub any) error {
	switch p := pub.(type) {
	case *rsa.PublicKey:
		k.family = suite.FamilyRSA
		k.public = p
	case *ecdsa.PublicKey:
		curve, err := curveName(p.Curve)
		if err != nil {
			return err
		}
		k.family = suite.FamilyEC
		k.curve = curve
		k.public = p
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedKeyType, pub)
	}
	return nil
}

func curveName(curve elliptic.Curve) (Curve, error) {
	switch curve {
	case elliptic.P256():
		return CurveP256, nil
	case elliptic.P384():
		return CurveP384, nil
	default:
		return "", fmt.Errorf("%w: curve %s", ErrUnsupportedKeyType, curve.Params().Name)
	}
}

func parsePrivatePEM(s string) (any, error) {
	block, _ := pem.Decode([]byte(s))
	if block == nil {
		return nil, errors.New("no PEM block in private key")
	}
	return x509.ParsePKCS8PrivateKey(block.Bytes)
}

func parsePublicPEM(s string) (any, error) {
	block, _ := pem.Decode([]byte(s))
	if block == nil {
		return nil, errors.New("no PEM block in public key")
	}
	return x509.ParsePKIXPublicKey(block.Bytes)
}

// GenerateKeyDescriptor creates a fresh key pair for the given family and
// returns a descriptor carrying both halves as PEM. The curve argument is
// ignored for RSA; EC defaults to P-256 when no curve is given.
func GenerateKeyDescriptor(kid string, family Family, curve Curve) (KeyDescriptor, error) {
	var priv any

	switch family {
	case FamilyRSA:
		key, err := rsa.GenerateKey(rand.Reader, rsaKeyBits)
		if err != nil {
			return KeyDescriptor{}, &KeyImportError{Kid: kid, Err: err}
		}
		priv = key
		curve = ""
	case FamilyEC:
		var ec elliptic.Curve
		switch curve {
		case CurveP256, "":
			ec, curve = elliptic.P256(), CurveP256
		case CurveP384:
			ec = elliptic.P384()
		default:
			return KeyDescriptor{}, &KeyImportError{Kid: kid, Err: fmt.Errorf("%w: curve %s", ErrUnsupportedKeyType, curve)}
		}
		key, err := ecdsa.GenerateKey(ec, rand.Reader)
		if err != nil {
			return KeyDescriptor{}, &KeyImportError{Kid: kid, Err: err}
		}
		priv = key
	default:
		return KeyDescriptor{}, &KeyImportError{Kid: kid, Err: fmt.Errorf("%w: family %s", ErrUnsupportedKeyType, family)}
	}

	privDER, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return KeyDescriptor{}, &KeyImportError{Kid: kid, Err: err}
	}

	var pubAny any
	switch p := priv.(type) {
	case *rsa.PrivateKey:
		pubAny = &p.PublicKey
	case *ecdsa.PrivateKey:
		pubAny = &p.PublicKey
	}

	pubDER, err := x509.MarshalPKIXPublicKey(pubAny)
	if err != nil {
		return KeyDescriptor{}, &KeyImportError{Kid: kid, Err: err}
	}

	return KeyDescriptor{
		Kid:     kid,
		Family:  family,
		Curve:   curve,
		Private: string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privDER})),
		Public:  string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})),
	}, nil
}
