package wallet

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateIdentity(t *testing.T) {
	id, err := CreateIdentity()
	require.NoError(t, err)
	assert.True(t, common.IsHexAddress(id.Address))
	assert.Len(t, strings.Fields(id.Mnemonic), 12)

	// The mnemonic must deterministically re-derive the same address.
	addr, err := DeriveAddress(id.Mnemonic)
	require.NoError(t, err)
	assert.Equal(t, id.Address, addr)
}

func TestCreateIdentity_EntropyFailure(t *testing.T) {
	orig := newEntropy
	newEntropy = func(int) ([]byte, error) { return nil, errors.New("rng down") }
	defer func() { newEntropy = orig }()

	_, err := CreateIdentity()
	assert.Error(t, err)
}

func TestDeriveAddress_HexPrivateKey(t *testing.T) {
	// Well-known test vector key.
	key := "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	addr, err := DeriveAddress(key)
	require.NoError(t, err)
	assert.True(t, common.IsHexAddress(addr))

	// 0x prefix is accepted and equivalent.
	prefixed, err := DeriveAddress("0x" + key)
	require.NoError(t, err)
	assert.Equal(t, addr, prefixed)
}

func TestDeriveAddress_Deterministic(t *testing.T) {
	mnemonic := "test test test test test test test test test test test junk"
	a, err := DeriveAddress(mnemonic)
	require.NoError(t, err)
	b, err := DeriveAddress(mnemonic)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeriveAddress_Invalid(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"nothex",
		// all-"abandon" fails the BIP39 checksum (the valid form ends in "about")
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon",
		"abcd1234", // too short for a private key
	}
	for _, secret := range cases {
		_, err := DeriveAddress(secret)
		assert.ErrorIs(t, err, ErrInvalidSecret, "secret=%q", secret)
	}
}

func TestSignTransfer(t *testing.T) {
	key := "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	to := common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	tx := types.NewTransaction(0, to, big.NewInt(1e15), 21000, big.NewInt(1e9), nil)

	signed, err := SignTransfer(tx, key, big.NewInt(1))
	require.NoError(t, err)

	sender, err := types.Sender(types.NewEIP155Signer(big.NewInt(1)), signed)
	require.NoError(t, err)

	expected, err := DeriveAddress(key)
	require.NoError(t, err)
	assert.Equal(t, expected, sender.Hex())
}

func TestSignTransfer_BadSecret(t *testing.T) {
	to := common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	tx := types.NewTransaction(0, to, big.NewInt(1), 21000, big.NewInt(1), nil)

	_, err := SignTransfer(tx, "not a valid mnemonic at all", big.NewInt(1))
	assert.ErrorIs(t, err, ErrInvalidSecret)
}

func TestValidAddress(t *testing.T) {
	assert.True(t, ValidAddress("0x742d35Cc6634C0532925a3b844Bc454e4438f44e"))
	assert.False(t, ValidAddress("742d35"))
	assert.False(t, ValidAddress(""))
}
