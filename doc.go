// Package sealbox implements a multi-recipient sealed-message envelope.
//
// A payload is encrypted once with a fresh AES-256-GCM content key (CEK),
// the CEK is individually protected for each recipient's public key, and the
// whole structure is deterministically signed and tamper-evident. Every
// recipient who opens an envelope sees byte-identical plaintext; a
// ciphertext-commitment tag lets each recipient verify that independently of
// the signature.
//
// Two algorithm families are supported, and all keys in one seal or unseal
// call must share a family:
//
//   - RSA: RSA-PSS (SHA-256) signatures, RSA-OAEP (SHA-256) key wrapping.
//   - EC (P-256, P-384): ECDSA (SHA-256) signatures, ephemeral ECDH key
//     agreement with HKDF-SHA-256 and AES-256-GCM key wrapping.
//
// Basic usage:
//
//	alice, _ := sealbox.GenerateKeyDescriptor("alice-1", sealbox.FamilyRSA, "")
//	bob, _ := sealbox.GenerateKeyDescriptor("bob-1", sealbox.FamilyRSA, "")
//
//	sealer, err := sealbox.NewSealer(alice, []sealbox.KeyDescriptor{bob.PublicOnly()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	envelope, err := sealer.SealString("hello", "bob-1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	unsealer, err := sealbox.NewUnsealer(bob, []sealbox.KeyDescriptor{alice.PublicOnly()})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	plaintext, err := unsealer.Unseal(envelope)
//
// Unseal verifies in a fixed order: sender lookup, signature over the
// canonical {kid, cek, payload} object, recipient addressing, CEK unwrap,
// commitment recomputation, then AEAD decryption. Signature verification
// always precedes trusting any other field.
//
// The protocol embeds no nonces or timestamps against replay; a consuming
// system that needs replay protection must add it around the envelope.
// Cryptographic rejections are distinct error kinds but all match
// sealbox.ErrEnvelopeRejected, so callers can avoid acting as a rejection
// oracle while logs keep the detail.
package sealbox
