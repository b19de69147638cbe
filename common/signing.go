package common

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Address is the Ethereum account a signature recovers to.
type Address = ethcommon.Address

// signedMessageHash applies the Ethereum personal-message prefix to a digest,
// so wallets that only sign prefixed messages produce compatible signatures.
func signedMessageHash(digest Hash) []byte {
	return crypto.Keccak256([]byte("\x19Ethereum Signed Message:\n32"), digest.Bytes())
}

// EthSign signs digest with a hex private key and returns the 65-byte
// [R || S || V] signature.
func EthSign(privateKeyHex string, digest Hash) ([]byte, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("error converting private key: %w", err)
	}
	return EthSignWithKey(privateKey, digest)
}

func EthSignWithKey(privateKey *ecdsa.PrivateKey, digest Hash) ([]byte, error) {
	signature, err := crypto.Sign(signedMessageHash(digest), privateKey)
	if err != nil {
		return nil, fmt.Errorf("error signing the hash: %w", err)
	}
	return signature, nil
}

// RecoverSigner returns the address that signed digest. V may be 0/1 or the
// legacy 27/28.
func RecoverSigner(digest Hash, signature []byte) (Address, error) {
	if len(signature) != crypto.SignatureLength {
		return Address{}, fmt.Errorf("signature is %d bytes, want %d", len(signature), crypto.SignatureLength)
	}
	sig := append([]byte(nil), signature...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(signedMessageHash(digest), sig)
	if err != nil {
		return Address{}, errors.New("error recovering public key from signature")
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// AddressOf is the address for a hex private key.
func AddressOf(privateKeyHex string) (Address, error) {
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return Address{}, err
	}
	return crypto.PubkeyToAddress(privateKey.PublicKey), nil
}
