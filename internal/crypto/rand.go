package crypto

import (
	"crypto/rand"
	"io"
)

// randReader is the random source used for CEKs, IVs and ephemeral keys.
// It defaults to nil (which uses crypto/rand) but can be overridden for testing.
var randReader io.Reader

// Reader returns the active random source.
func Reader() io.Reader {
	if randReader != nil {
		return randReader
	}
	return rand.Reader
}

// SetRandReaderForTesting sets the random source used by this package and by
// the key-wrapping suites. This is intended for testing only. Returns a
// function to restore the original reader.
func SetRandReaderForTesting(r io.Reader) func() {
	original := randReader
	randReader = r
	return func() { randReader = original }
}
