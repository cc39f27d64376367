package crypto

import "encoding/base64"

// ToBase64 encodes bytes as URL-safe base64 without padding. All protocol
// values in an envelope (wrapped keys, payload, signature, commitment) use
// this encoding.
func ToBase64(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// FromBase64 decodes base64 produced by other implementations of the
// protocol. It is lenient: URL-safe and standard alphabets are accepted,
// with or without padding.
func FromBase64(s string) ([]byte, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	data, err = base64.URLEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	data, err = base64.RawStdEncoding.DecodeString(s)
	if err == nil {
		return data, nil
	}

	return base64.StdEncoding.DecodeString(s)
}
