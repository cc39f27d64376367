// Command sealbox seals and unseals multi-recipient envelopes from the
// command line.
//
// Key material lives in a key-set JSON file (an array of descriptors or
// {"keys": [...]}). The file path comes from -keys or the SEALBOX_KEYS
// environment variable; a .env file in the working directory is honored.
//
//	sealbox keygen -kid alice-1 -family RSA -keys keys.json
//	sealbox seal -keys keys.json -signer alice-1 -to bob-1,carol-1 -in message.txt
//	sealbox unseal -keys keys.json -as bob-1 -in envelope.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	sealbox "github.com/sealbox/sealbox-go"
)

func main() {
	if len(os.Args) < 2 {
		fatal("usage: sealbox <keygen|seal|unseal> [args]")
	}

	// Missing .env is fine; flags and the environment still apply.
	_ = godotenv.Load()

	switch os.Args[1] {
	case "keygen":
		keygen(os.Args[2:])
	case "seal":
		seal(os.Args[2:])
	case "unseal":
		unseal(os.Args[2:])
	default:
		fatal("unknown command: %s", os.Args[1])
	}
}

func keygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	keysPath := fs.String("keys", os.Getenv("SEALBOX_KEYS"), "key-set JSON file to create or extend")
	kid := fs.String("kid", "", "key id (default: random UUID)")
	family := fs.String("family", "RSA", "algorithm family: RSA or EC")
	curve := fs.String("curve", "", "EC curve: P-256 or P-384")
	parseFlags(fs, args)

	if *keysPath == "" {
		fatal("keygen: -keys or SEALBOX_KEYS is required")
	}
	if *kid == "" {
		*kid = uuid.NewString()
	}

	set := loadKeySet(*keysPath, true)
	if _, ok := set.Find(*kid); ok {
		fatal("keygen: key %q already exists in %s", *kid, *keysPath)
	}

	descriptor, err := sealbox.GenerateKeyDescriptor(*kid, sealbox.Family(*family), sealbox.Curve(*curve))
	if err != nil {
		fatal("keygen: %v", err)
	}

	set.Keys = append(set.Keys, descriptor)
	writeKeySet(*keysPath, set)

	fmt.Println(*kid)
}

func seal(args []string) {
	fs := flag.NewFlagSet("seal", flag.ExitOnError)
	keysPath := fs.String("keys", os.Getenv("SEALBOX_KEYS"), "key-set JSON file")
	signer := fs.String("signer", "", "signing key id")
	to := fs.String("to", "", "comma-separated recipient key ids")
	in := fs.String("in", "", "plaintext file (default: stdin)")
	parseFlags(fs, args)

	if *keysPath == "" || *signer == "" || *to == "" {
		fatal("seal: -keys, -signer and -to are required")
	}

	set := loadKeySet(*keysPath, false)

	sealer, err := sealbox.NewSealerFromKeySet(set, *signer)
	if err != nil {
		fatal("seal: %v", err)
	}

	plaintext := readInput(*in)

	envelope, err := sealer.Seal(plaintext, strings.Split(*to, ",")...)
	if err != nil {
		fatal("seal: %v", err)
	}

	if err := json.NewEncoder(os.Stdout).Encode(envelope); err != nil {
		fatal("seal: encode envelope: %v", err)
	}
}

func unseal(args []string) {
	fs := flag.NewFlagSet("unseal", flag.ExitOnError)
	keysPath := fs.String("keys", os.Getenv("SEALBOX_KEYS"), "key-set JSON file")
	as := fs.String("as", "", "recipient key id to open the envelope as")
	in := fs.String("in", "", "envelope JSON file (default: stdin)")
	parseFlags(fs, args)

	if *keysPath == "" || *as == "" {
		fatal("unseal: -keys and -as are required")
	}

	set := loadKeySet(*keysPath, false)

	decryption, ok := set.Find(*as)
	if !ok {
		fatal("unseal: key %q not found in %s", *as, *keysPath)
	}

	senders := make([]sealbox.KeyDescriptor, 0, len(set.Keys)-1)
	for _, d := range set.Keys {
		if d.Kid != *as {
			senders = append(senders, d.PublicOnly())
		}
	}

	unsealer, err := sealbox.NewUnsealer(decryption, senders)
	if err != nil {
		fatal("unseal: %v", err)
	}

	envelope, err := sealbox.ParseEnvelope(readInput(*in))
	if err != nil {
		fatal("unseal: %v", err)
	}

	plaintext, err := unsealer.Unseal(envelope)
	if err != nil {
		fatal("unseal: %v", err)
	}

	if _, err := os.Stdout.Write(plaintext); err != nil {
		fatal("unseal: write plaintext: %v", err)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fatal("%v", err)
	}
}

func loadKeySet(path string, allowMissing bool) sealbox.KeySet {
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && os.IsNotExist(err) {
			return sealbox.KeySet{}
		}
		fatal("read key set: %v", err)
	}

	var set sealbox.KeySet
	if err := json.Unmarshal(data, &set); err != nil {
		fatal("parse key set: %v", err)
	}
	return set
}

func writeKeySet(path string, set sealbox.KeySet) {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		fatal("encode key set: %v", err)
	}
	// Key sets hold private keys; keep them owner-readable only.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		fatal("write key set: %v", err)
	}
}

func readInput(path string) []byte {
	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			fatal("read stdin: %v", err)
		}
		return data
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fatal("read %s: %v", path, err)
	}
	return data
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
