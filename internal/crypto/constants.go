package crypto

const (
	// CEKSize is the size of a content encryption key in bytes (AES-256).
	CEKSize = 32
	// IVSize is the size of an AES-GCM IV in bytes.
	IVSize = 12
	// TagSize is the size of an AES-GCM authentication tag in bytes.
	TagSize = 16

	// MinPayloadSize is the smallest valid encrypted payload: an IV and an
	// authentication tag around an empty ciphertext.
	MinPayloadSize = IVSize + TagSize
)

// CommitmentDomain is the domain-separation constant mixed into the payload
// commitment hash. It must be byte-identical across every sealing and
// unsealing implementation for commitment verification to interoperate.
const CommitmentDomain = "sealbox:payload-commitment:v1"
