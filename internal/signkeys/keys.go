package signkeys

import (
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"doc-attest/internal/hashing"

	"github.com/btcsuite/btcd/btcec"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	secpecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// SignatureLen is the length of a recoverable signature: R || S || V.
const SignatureLen = 65

const personalMessagePrefix = "\x19Ethereum Signed Message:\n"

type UserKeys struct {
	PrivateKey *secp256k1.PrivateKey
	PublicKey  *secp256k1.PublicKey
}

func (u UserKeys) Valid() bool {
	return u.PrivateKey != nil && u.PublicKey != nil
}

// Address returns the wallet address of the key pair.
func (u UserKeys) Address() string {
	return Address(u.PublicKey)
}

// source: https://github.com/ethereum/go-ethereum/blob/86d547707965685cef732aa28c15e6811ea98408/crypto/secp256k1/secp256_test.go#L19
func GenerateKeys() (UserKeys, error) {
	key, err := ecdsa.GenerateKey(btcec.S256(), rand.Reader)
	if err != nil {
		return UserKeys{}, errors.New("failed to generate the keys: " + err.Error())
	}

	privkey := make([]byte, 32)
	blob := key.D.Bytes()
	copy(privkey[32-len(blob):], blob)

	private := secp256k1.PrivKeyFromBytes(privkey)

	return UserKeys{
		PrivateKey: private,
		PublicKey:  private.PubKey(),
	}, nil
}

// Address derives the wallet address of a public key: the last 20 bytes of
// the Keccak-256 digest of the uncompressed point, 0x-prefixed lowercase hex.
func Address(pub *secp256k1.PublicKey) string {
	uncompressed := pub.SerializeUncompressed()
	digest := hashing.Keccak256(uncompressed[1:])
	return "0x" + hex.EncodeToString(digest[12:])
}

// PersonalMessageHash applies the personal_sign convention: the message is
// prefixed with "\x19Ethereum Signed Message:\n" and its byte length before
// hashing, so a signature over it can never double as a transaction.
func PersonalMessageHash(message string) []byte {
	prefixed := personalMessagePrefix + strconv.Itoa(len(message)) + message
	return hashing.Keccak256([]byte(prefixed))
}

// SignMessage produces the 65-byte R || S || V recoverable signature of the
// personal-message hash, with V in the 27/28 range.
func (u UserKeys) SignMessage(message string) []byte {
	compact := secpecdsa.SignCompact(u.PrivateKey, PersonalMessageHash(message), false)

	// compact form is V || R || S, wire form is R || S || V
	signature := make([]byte, SignatureLen)
	copy(signature[:64], compact[1:])
	signature[64] = compact[0]
	return signature
}

// RecoverAddress recovers the wallet address that produced the given
// R || S || V signature over message.
func RecoverAddress(signature []byte, message string) (string, error) {
	if len(signature) != SignatureLen {
		return "", fmt.Errorf("signature must be %d bytes, got %d", SignatureLen, len(signature))
	}

	v := signature[64]
	if v < 27 {
		v += 27
	}
	if v != 27 && v != 28 {
		return "", fmt.Errorf("invalid recovery id %d", signature[64])
	}

	compact := make([]byte, SignatureLen)
	compact[0] = v
	copy(compact[1:], signature[:64])

	pub, _, err := secpecdsa.RecoverCompact(compact, PersonalMessageHash(message))
	if err != nil {
		return "", errors.New("failed to recover the public key: " + err.Error())
	}

	return Address(pub), nil
}
