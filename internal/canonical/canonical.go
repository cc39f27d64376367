// Package canonical produces the deterministic byte form of the envelope
// fields covered by the signature. Independent implementations must sign and
// verify identical bytes, so serialization follows RFC 8785 (JSON
// Canonicalization Scheme): lexicographically sorted member names, no
// insignificant whitespace, shortest-form numbers.
package canonical

import (
	"encoding/json"
	"fmt"

	"github.com/gowebpki/jcs"
)

// Marshal serializes v to its RFC 8785 canonical JSON form.
func Marshal(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal signing input: %w", err)
	}

	canon, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("canonicalize signing input: %w", err)
	}

	return canon, nil
}
