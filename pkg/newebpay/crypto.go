// Package newebpay implements the NewebPay wire protocol: fixed-order trade
// string serialization, AES-256-CBC encryption of the trade payload, and the
// keyed SHA-256 check value the gateway validates orders with.
package newebpay

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrKeySize means the hash key is not the 32 bytes AES-256 requires.
	ErrKeySize = errors.New("newebpay: hash key must be 32 bytes")
	// ErrIVSize means the IV is not one AES block.
	ErrIVSize = errors.New("newebpay: hash IV must be 16 bytes")
	// ErrCiphertext means the ciphertext is not valid hex or not block-aligned.
	ErrCiphertext = errors.New("newebpay: malformed ciphertext")
)

// Encrypt AES-256-CBC encrypts plaintext with PKCS7 padding and returns the
// ciphertext as a lowercase hex string, the encoding the gateway expects.
func Encrypt(plaintext, key, iv string) (string, error) {
	if len(key) != 32 {
		return "", ErrKeySize
	}
	if len(iv) != aes.BlockSize {
		return "", ErrIVSize
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return "", err
	}

	padded := padPKCS7([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	mode := cipher.NewCBCEncrypter(block, []byte(iv))
	mode.CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. It removes PKCS7 padding when present and strips
// any trailing NUL bytes the gateway's transform leaves behind. The caller is
// responsible for URL-decoding and parsing the returned text.
func Decrypt(hexCiphertext, key, iv string) (string, error) {
	if len(key) != 32 {
		return "", ErrKeySize
	}
	if len(iv) != aes.BlockSize {
		return "", ErrIVSize
	}

	ciphertext, err := hex.DecodeString(hexCiphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCiphertext, err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: length %d not a multiple of the block size", ErrCiphertext, len(ciphertext))
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return "", err
	}

	plain := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, []byte(iv))
	mode.CryptBlocks(plain, ciphertext)

	plain = unpadPKCS7(plain, aes.BlockSize)
	return strings.TrimRight(string(plain), "\x00"), nil
}

// Checksum computes the gateway's check value: uppercase hex SHA-256 over the
// literal string `HashKey=<key>&<hexCiphertext>&HashIV=<iv>`. The key names,
// separators and case are part of the wire contract.
func Checksum(hexCiphertext, key, iv string) string {
	sum := sha256.Sum256([]byte("HashKey=" + key + "&" + hexCiphertext + "&HashIV=" + iv))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

// VerifyChecksum reports whether the received check value matches the
// ciphertext, using a constant-time comparison.
func VerifyChecksum(hexCiphertext, received, key, iv string) bool {
	expected := Checksum(hexCiphertext, key, iv)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToUpper(received))) == 1
}

func padPKCS7(b []byte, blockSize int) []byte {
	padLen := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(padLen)}, padLen)...)
}

// unpadPKCS7 is lenient: the gateway has been observed to zero-fill the final
// block instead of padding it, so an invalid padding byte leaves the data
// untouched for the trailing-NUL trim in Decrypt.
func unpadPKCS7(b []byte, blockSize int) []byte {
	if len(b) == 0 {
		return b
	}
	padLen := int(b[len(b)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(b) {
		return b
	}
	for _, p := range b[len(b)-padLen:] {
		if int(p) != padLen {
			return b
		}
	}
	return b[:len(b)-padLen]
}
