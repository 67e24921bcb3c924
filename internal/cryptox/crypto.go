// Package cryptox seals the persisted session at rest. A key is derived from
// a user-supplied passphrase with argon2id and the JSON payload is encrypted
// with AES-256-GCM.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akhmads/adscli/internal/common"
	"golang.org/x/crypto/argon2"
)

const saltSize = 16

// ErrDecrypt is returned when a sealed blob cannot be opened (wrong
// passphrase or tampered data).
var ErrDecrypt = errors.New("cannot decrypt sealed data")

// DeriveKey stretches passphrase into a 32-byte AES key.
func DeriveKey(passphrase []byte, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// EncryptEntry serializes entry to JSON and encrypts it with AES-GCM under key.
// A fresh 12-byte nonce is generated for every call.
func EncryptEntry(entry any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(entry)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, 12)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}

	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// DecryptEntry reverses EncryptEntry and unmarshals the plaintext into v.
func DecryptEntry(ciphertext, nonce, key []byte, v any) error {
	aesgcm, err := newGCM(key)
	if err != nil {
		return err
	}

	plaintext, err := aesgcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// sealed is the on-disk envelope.
type sealed struct {
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// Sealer encrypts values with a key derived from a fixed passphrase. Each
// Seal call uses a new salt, so the key is re-derived per blob.
type Sealer struct {
	passphrase []byte
}

func NewSealer(passphrase string) *Sealer {
	return &Sealer{passphrase: []byte(passphrase)}
}

// Seal returns the sealed JSON envelope for v.
func (s *Sealer) Seal(v any) ([]byte, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveKey(s.passphrase, salt)
	defer common.WipeByteArray(key)

	ct, nonce, err := EncryptEntry(v, key)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sealed{Salt: salt, Nonce: nonce, Ciphertext: ct})
}

// Open decodes an envelope produced by Seal into v.
func (s *Sealer) Open(blob []byte, v any) error {
	var env sealed
	if err := json.Unmarshal(blob, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrDecrypt, err)
	}
	if len(env.Salt) == 0 || len(env.Nonce) == 0 {
		return ErrDecrypt
	}
	key := DeriveKey(s.passphrase, env.Salt)
	defer common.WipeByteArray(key)

	return DecryptEntry(env.Ciphertext, env.Nonce, key, v)
}
