package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize and IVSize are the stored prefix lengths of a blob.
	SaltSize = 32
	IVSize   = 32
	// KeySize is the AES-256 key length; the MAC key has the same length.
	KeySize = 32
	// Iterations is the PBKDF2 work factor. Changing it breaks existing blobs.
	Iterations = 10000

	macSize   = sha256.Size
	headerLen = SaltSize + IVSize
)

// randReader is the randomness source for salts and IVs.
var randReader io.Reader = rand.Reader

// deriveKeys stretches passphrase and salt into an encryption key and a MAC
// key.
func deriveKeys(passphrase string, salt []byte) (encKey, macKey []byte) {
	k := pbkdf2.Key([]byte(passphrase), salt, Iterations, 2*KeySize, sha256.New)
	return k[:KeySize], k[KeySize:]
}

// Encrypt returns salt || iv || AES-256-CBC(PKCS7(plaintext)) || HMAC-SHA256.
//
// The blob keeps a 32-byte IV slot, sized for a 256-bit block cipher, but AES
// has a 128-bit block: only the first aes.BlockSize bytes of the IV seed CBC
// and the padding is to 16 bytes. The MAC covers salt, all 32 IV bytes and
// the ciphertext, so the unused IV half cannot be altered either.
func Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	header := make([]byte, headerLen)
	if _, err := io.ReadFull(randReader, header); err != nil {
		return nil, fmt.Errorf("generate salt and iv: %w", err)
	}
	salt, iv := header[:SaltSize], header[SaltSize:]

	encKey, macKey := deriveKeys(passphrase, salt)
	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	out := make([]byte, headerLen+len(padded), headerLen+len(padded)+macSize)
	copy(out, header)
	cipher.NewCBCEncrypter(block, iv[:aes.BlockSize]).CryptBlocks(out[headerLen:], padded)

	mac := hmac.New(sha256.New, macKey)
	mac.Write(out)
	return mac.Sum(out), nil
}

// Decrypt reverses Encrypt. It fails with a *DecryptError on a short blob, a
// MAC mismatch (wrong passphrase or any modified byte) or bad padding.
func Decrypt(blob []byte, passphrase string) ([]byte, error) {
	if len(blob) < headerLen+aes.BlockSize+macSize {
		return nil, &DecryptError{Err: ErrCorrupt, Reason: fmt.Sprintf("blob is %d bytes", len(blob))}
	}

	body, tag := blob[:len(blob)-macSize], blob[len(blob)-macSize:]
	salt, iv, ciphertext := body[:SaltSize], body[SaltSize:headerLen], body[headerLen:]
	if len(ciphertext)%aes.BlockSize != 0 {
		return nil, &DecryptError{Err: ErrCorrupt, Reason: "ciphertext is not a whole number of blocks"}
	}

	encKey, macKey := deriveKeys(passphrase, salt)
	mac := hmac.New(sha256.New, macKey)
	mac.Write(body)
	if !hmac.Equal(mac.Sum(nil), tag) {
		return nil, &DecryptError{Err: ErrAuth}
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}
	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv[:aes.BlockSize]).CryptBlocks(plain, ciphertext)

	out, err := pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return nil, &DecryptError{Err: ErrPadding, Reason: err.Error()}
	}
	return out, nil
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	return append(bytes.Clone(b), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, fmt.Errorf("length %d is not a multiple of %d", len(b), blockSize)
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("invalid pad length %d", n)
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return b[:len(b)-n], nil
}
