package backup

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Backup files start with a magic tag, a random PBKDF2 salt and a random CTR
// IV, followed by the AES-256-CTR ciphertext. The key is derived from an
// operator-supplied passphrase; the Android predecessor derived it from a
// hardcoded constant, which is exactly the flaw this format replaces.
var magic = []byte("RZBK1\x00")

const (
	kdfIterations = 100_000
	keyLen        = 32
	saltLen       = 16
)

var ErrNotBackup = fmt.Errorf("not a roznamcha backup file")

func deriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, kdfIterations, keyLen, sha256.New)
}

// encryptTo writes the encrypted form of plaintext to w.
func encryptTo(w io.Writer, passphrase string, plaintext []byte) error {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return fmt.Errorf("generate iv: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return fmt.Errorf("create cipher: %w", err)
	}

	for _, chunk := range [][]byte{magic, salt, iv} {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	sw := &cipher.StreamWriter{S: cipher.NewCTR(block, iv), W: w}
	if _, err := sw.Write(plaintext); err != nil {
		return fmt.Errorf("write ciphertext: %w", err)
	}
	return nil
}

// decryptFrom reads an encrypted backup from r and returns the plaintext.
func decryptFrom(r io.Reader, passphrase string) ([]byte, error) {
	header := make([]byte, len(magic)+saltLen+aes.BlockSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, ErrNotBackup
	}
	for i := range magic {
		if header[i] != magic[i] {
			return nil, ErrNotBackup
		}
	}
	salt := header[len(magic) : len(magic)+saltLen]
	iv := header[len(magic)+saltLen:]

	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}

	sr := &cipher.StreamReader{S: cipher.NewCTR(block, iv), R: r}
	plaintext, err := io.ReadAll(sr)
	if err != nil {
		return nil, fmt.Errorf("read ciphertext: %w", err)
	}
	return plaintext, nil
}
