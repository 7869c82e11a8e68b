// Package crypto implements the cryptographic primitives of the paste
// and chat schemes: the two AEAD instantiations (AES-256-GCM and
// ChaCha20-Poly1305), key generation and URL-fragment export, the
// password, ECDH, and channel-password derivation paths, and the P-384
// exchange backing the Layer 2 transport session.
//
// Everything here is a pure synchronous computation over value inputs.
// All wire-facing ciphertexts and nonces are hex strings.
package crypto
