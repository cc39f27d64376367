// Package crypto provides the symmetric primitives of the sealed-envelope
// protocol: content-key generation, AES-256-GCM payload encryption with
// IV || ciphertext || tag framing, the ciphertext-commitment calculator, and
// the base64 encoding used for all protocol values.
//
// Asymmetric operations (signing, verification, key wrapping) live in the
// suite package; this package deliberately knows nothing about recipients or
// algorithm families.
//
// AES-GCM IVs are always freshly random per encryption. IV reuse with the
// same key breaks GCM entirely, which is why EncryptPayload and
// EncryptAESGCM generate the IV themselves rather than accepting one.
package crypto
