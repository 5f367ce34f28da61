package wallet

import (
	"crypto/ecdsa"
	"errors"
	"math/big"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip39"
)

var (
	ErrInvalidSecret = errors.New("invalid wallet secret")
)

// Identity is a freshly created wallet: the address and its one-time
// recovery mnemonic. The mnemonic is returned to the caller exactly once
// and is never persisted.
type Identity struct {
	Address  string
	Mnemonic string
}

// derivationPath is the standard Ethereum account path m/44'/60'/0'/0/0,
// matching what browser wallets derive for the first account.
var derivationPath = []uint32{
	hdkeychain.HardenedKeyStart + 44,
	hdkeychain.HardenedKeyStart + 60,
	hdkeychain.HardenedKeyStart + 0,
	0,
	0,
}

var newEntropy = bip39.NewEntropy

// CreateIdentity generates a new key pair with a 12-word recovery mnemonic.
func CreateIdentity() (*Identity, error) {
	entropy, err := newEntropy(128)
	if err != nil {
		return nil, err
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, err
	}

	key, err := keyFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	return &Identity{
		Address:  crypto.PubkeyToAddress(key.PublicKey).Hex(),
		Mnemonic: mnemonic,
	}, nil
}

// DeriveAddress re-derives the checksummed address controlled by the given
// secret. The secret is either a BIP39 mnemonic (contains spaces) or a hex
// private key. Deterministic and pure; returns ErrInvalidSecret for
// malformed input.
func DeriveAddress(secret string) (string, error) {
	key, err := PrivateKey(secret)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

// PrivateKey resolves a secret (mnemonic or hex private key) to its ECDSA key.
func PrivateKey(secret string) (*ecdsa.PrivateKey, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrInvalidSecret
	}

	if strings.Contains(secret, " ") {
		return keyFromMnemonic(secret)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(secret, "0x"))
	if err != nil {
		return nil, ErrInvalidSecret
	}
	return key, nil
}

// SignTransfer signs an unsigned transaction with the key derived from the
// secret, using the EIP-155 signer for the given chain ID.
func SignTransfer(tx *types.Transaction, secret string, chainID *big.Int) (*types.Transaction, error) {
	key, err := PrivateKey(secret)
	if err != nil {
		return nil, err
	}
	return types.SignTx(tx, types.NewEIP155Signer(chainID), key)
}

// ValidAddress reports whether s is a well-formed EVM address.
func ValidAddress(s string) bool {
	return common.IsHexAddress(s)
}

func keyFromMnemonic(mnemonic string) (*ecdsa.PrivateKey, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidSecret
	}

	seed := bip39.NewSeed(mnemonic, "")
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, ErrInvalidSecret
	}
	for _, n := range derivationPath {
		key, err = key.Derive(n)
		if err != nil {
			return nil, ErrInvalidSecret
		}
	}

	btcPriv, err := key.ECPrivKey()
	if err != nil {
		return nil, ErrInvalidSecret
	}
	return btcPriv.ToECDSA(), nil
}
