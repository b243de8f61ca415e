package kdbx

import "crypto/sha256"

// ChallengeResponder sends seed to a hardware token (e.g. a YubiKey slot
// configured for HMAC-SHA1 challenge-response) and returns its response.
type ChallengeResponder interface {
	Respond(seed []byte) ([]byte, error)
}

// DatabaseKey accumulates the zero or more credential components
// (password, keyfile, challenge-response) that make up a composite key.
type DatabaseKey struct {
	password  []byte // SHA-256 digest, nil if absent
	keyfile   []byte // 32-byte material from parseKeyfile, nil if absent
	challenge ChallengeResponder
}

// NewDatabaseKey returns an empty key builder.
func NewDatabaseKey() *DatabaseKey {
	return &DatabaseKey{}
}

// WithPassword hashes password and adds it as a composite-key component.
func (k *DatabaseKey) WithPassword(password string) *DatabaseKey {
	sum := sha256.Sum256([]byte(password))
	k.password = sum[:]
	return k
}

// WithKeyfile parses data with the keyfile format chain in keyfile.go and
// adds the resulting 32-byte material as a composite-key component.
func (k *DatabaseKey) WithKeyfile(data []byte) (*DatabaseKey, error) {
	material, err := parseKeyfile(data)
	if err != nil {
		return nil, err
	}
	k.keyfile = material
	return k, nil
}

// WithChallengeResponse registers a hardware-token responder; its output,
// once queried during composite-key assembly, is hashed and added as a
// composite-key component.
func (k *DatabaseKey) WithChallengeResponse(responder ChallengeResponder) *DatabaseKey {
	k.challenge = responder
	return k
}

// compositeKey builds the 32-byte composite key: SHA-256 of the
// concatenation, in the fixed order password, keyfile, challenge, of each
// present component's 32 bytes: the password's SHA-256, the keyfile
// material as parseKeyfile returned it (not hashed again), and the SHA-256
// of the challenge-response output. seed is the outer transform
// seed sent to the challenge-response token, if one is registered.
func (k *DatabaseKey) compositeKey(seed []byte) ([]byte, error) {
	h := sha256.New()

	if k.password != nil {
		h.Write(k.password)
	}
	if k.keyfile != nil {
		h.Write(k.keyfile)
	}
	if k.challenge != nil {
		response, err := k.challenge.Respond(seed)
		if err != nil {
			return nil, err
		}
		sum := sha256.Sum256(response)
		h.Write(sum[:])
	}

	sum := h.Sum(nil)
	return sum, nil
}

// isEmpty reports whether no credential component has been supplied.
func (k *DatabaseKey) isEmpty() bool {
	return k.password == nil && k.keyfile == nil && k.challenge == nil
}
