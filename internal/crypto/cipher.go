package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"io"
)

// GenerateCEK returns a fresh random AES-256 content encryption key.
// A CEK is single-use: it protects exactly one payload and is never reused
// across seal calls.
func GenerateCEK() ([]byte, error) {
	cek := make([]byte, CEKSize)
	if _, err := io.ReadFull(Reader(), cek); err != nil {
		return nil, fmt.Errorf("generate content key: %w", err)
	}
	return cek, nil
}

// EncryptPayload encrypts plaintext with the CEK using AES-256-GCM under a
// fresh random IV. The returned blob is: IV (12 bytes) || ciphertext || tag (16 bytes).
func EncryptPayload(plaintext, cek []byte) ([]byte, error) {
	aead, err := newGCM(cek)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(Reader(), iv); err != nil {
		return nil, fmt.Errorf("generate IV: %w", err)
	}

	sealed := aead.Seal(nil, iv, plaintext, nil)
	return append(iv, sealed...), nil
}

// DecryptPayload splits a payload blob into IV and ciphertext+tag and
// AEAD-decrypts it with the CEK. A failed tag check is reported as
// ErrAuthenticationFailed, never swallowed.
func DecryptPayload(blob, cek []byte) ([]byte, error) {
	if len(blob) < MinPayloadSize {
		return nil, fmt.Errorf("%w: got %d, want at least %d", ErrPayloadTooShort, len(blob), MinPayloadSize)
	}

	aead, err := newGCM(cek)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, blob[:IVSize], blob[IVSize:], nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	return plaintext, nil
}

// SplitPayload decomposes a payload blob into its IV, ciphertext and
// authentication tag components.
func SplitPayload(blob []byte) (iv, ciphertext, tag []byte, err error) {
	if len(blob) < MinPayloadSize {
		return nil, nil, nil, fmt.Errorf("%w: got %d, want at least %d", ErrPayloadTooShort, len(blob), MinPayloadSize)
	}

	iv = blob[:IVSize]
	ciphertext = blob[IVSize : len(blob)-TagSize]
	tag = blob[len(blob)-TagSize:]

	return iv, ciphertext, tag, nil
}

// EncryptAESGCM encrypts data with a caller-supplied key and a fresh IV,
// returning IV || ciphertext || tag. Used for wrapping CEKs under derived
// agreement keys.
func EncryptAESGCM(key, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	iv := make([]byte, IVSize)
	if _, err := io.ReadFull(Reader(), iv); err != nil {
		return nil, fmt.Errorf("generate IV: %w", err)
	}

	sealed := aead.Seal(nil, iv, plaintext, nil)
	return append(iv, sealed...), nil
}

// DecryptAESGCM decrypts an IV || ciphertext || tag blob with the given key.
func DecryptAESGCM(key, blob []byte) ([]byte, error) {
	return DecryptPayload(blob, key)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != CEKSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), CEKSize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
