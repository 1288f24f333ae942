package newebpay

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	testKey = "Fs5cXqZg8wK1pYb3vR7dT2mN4jH6uQ9e"
	testIV  = "Xk2vP8sQ4rT6wY1z"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	samples := []string{
		"MerchantID=MS123456&RespondType=JSON&TimeStamp=1700000000",
		"a",
		"exactly sixteen!", // one full block, forces a padding-only block
		strings.Repeat("Amt=299&ItemDesc=STANDARD&", 40),
		`{"Status":"SUCCESS","Result":{"MerchantOrderNo":"S1700000000000001"}}`,
	}

	for _, plaintext := range samples {
		ciphertext, err := Encrypt(plaintext, testKey, testIV)
		assert.NoError(t, err)
		assert.Regexp(t, "^[0-9a-f]+$", ciphertext)

		decrypted, err := Decrypt(ciphertext, testKey, testIV)
		assert.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptRejectsBadKeySizes(t *testing.T) {
	_, err := Encrypt("data", "short-key", testIV)
	assert.ErrorIs(t, err, ErrKeySize)

	_, err = Encrypt("data", testKey, "short-iv")
	assert.ErrorIs(t, err, ErrIVSize)

	_, err = Decrypt("00", "short-key", testIV)
	assert.ErrorIs(t, err, ErrKeySize)

	_, err = Decrypt("00", testKey, "short-iv")
	assert.ErrorIs(t, err, ErrIVSize)
}

func TestDecryptRejectsMalformedCiphertext(t *testing.T) {
	_, err := Decrypt("not-hex!", testKey, testIV)
	assert.ErrorIs(t, err, ErrCiphertext)

	// Valid hex but not block-aligned.
	_, err = Decrypt("0011223344", testKey, testIV)
	assert.ErrorIs(t, err, ErrCiphertext)

	_, err = Decrypt("", testKey, testIV)
	assert.ErrorIs(t, err, ErrCiphertext)
}

func TestDecryptStripsTrailingNulBytes(t *testing.T) {
	// Some gateway transforms zero-fill the plaintext before encrypting.
	ciphertext, err := Encrypt("Status=SUCCESS\x00\x00\x00", testKey, testIV)
	assert.NoError(t, err)

	decrypted, err := Decrypt(ciphertext, testKey, testIV)
	assert.NoError(t, err)
	assert.Equal(t, "Status=SUCCESS", decrypted)
}

func TestChecksumMatchesWireFormat(t *testing.T) {
	ciphertext, err := Encrypt("TimeStamp=1700000000", testKey, testIV)
	assert.NoError(t, err)

	sum := sha256.Sum256([]byte("HashKey=" + testKey + "&" + ciphertext + "&HashIV=" + testIV))
	expected := strings.ToUpper(hex.EncodeToString(sum[:]))

	assert.Equal(t, expected, Checksum(ciphertext, testKey, testIV))
	assert.Equal(t, strings.ToUpper(Checksum(ciphertext, testKey, testIV)), Checksum(ciphertext, testKey, testIV))
}

func TestChecksumTamperSensitivity(t *testing.T) {
	ciphertext, err := Encrypt("MerchantOrderNo=S1700000000000001&Amt=299", testKey, testIV)
	assert.NoError(t, err)
	original := Checksum(ciphertext, testKey, testIV)

	// Flipping any single hex digit must change the check value.
	for i := 0; i < len(ciphertext); i++ {
		tampered := []byte(ciphertext)
		if tampered[i] == '0' {
			tampered[i] = '1'
		} else {
			tampered[i] = '0'
		}
		assert.NotEqual(t, original, Checksum(string(tampered), testKey, testIV),
			"flipped byte %d did not change the checksum", i)
	}
}

func TestVerifyChecksum(t *testing.T) {
	ciphertext, err := Encrypt("Amt=599", testKey, testIV)
	assert.NoError(t, err)
	sum := Checksum(ciphertext, testKey, testIV)

	assert.True(t, VerifyChecksum(ciphertext, sum, testKey, testIV))
	// Case-insensitive on the received value.
	assert.True(t, VerifyChecksum(ciphertext, strings.ToLower(sum), testKey, testIV))
	assert.False(t, VerifyChecksum(ciphertext, strings.Repeat("A", 64), testKey, testIV))
	assert.False(t, VerifyChecksum(ciphertext+"00", sum, testKey, testIV))
}
