package crypto

import "crypto/sha256"

// Commitment computes the ciphertext-commitment tag over the components of
// an encrypted payload:
//
//	SHA-256(CommitmentDomain || iv || ciphertext || tag)
//
// The commitment is independent of the CEK and of any recipient identity: it
// binds every recipient of an envelope to the exact ciphertext/tag pair the
// sender produced and can be verified before any plaintext is trusted. It
// adds nothing against a malicious signer beyond the signature over the
// payload itself.
func Commitment(iv, ciphertext, tag []byte) []byte {
	h := sha256.New()
	h.Write([]byte(CommitmentDomain))
	h.Write(iv)
	h.Write(ciphertext)
	h.Write(tag)
	return h.Sum(nil)
}

// CommitmentOfPayload computes the commitment tag directly from a full
// payload blob.
func CommitmentOfPayload(blob []byte) ([]byte, error) {
	iv, ciphertext, tag, err := SplitPayload(blob)
	if err != nil {
		return nil, err
	}
	return Commitment(iv, ciphertext, tag), nil
}
