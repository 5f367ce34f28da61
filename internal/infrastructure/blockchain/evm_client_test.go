package blockchain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"remittease.backend/internal/domain/entities"
)

const testKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

var errNotStubbed = errors.New("not stubbed")

type fakeBackend struct {
	chainID     *big.Int
	balance     *big.Int
	balanceErr  error
	nonce       uint64
	gasPrice    *big.Int
	gasPriceErr error
	gasLimit    uint64
	gasErr      error
	sendErr     error
	sentTx      *types.Transaction
	txByHash    *types.Transaction
	txPending   bool
	txErr       error
	receipt     *types.Receipt
	receiptErr  error
	head        uint64
	headErr     error
	sawDeadline bool
	blocks      map[uint64]*types.Block
}

func (f *fakeBackend) ChainID(ctx context.Context) (*big.Int, error) {
	return f.chainID, nil
}

func (f *fakeBackend) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return f.balance, f.balanceErr
}

func (f *fakeBackend) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeBackend) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return f.gasPrice, f.gasPriceErr
}

func (f *fakeBackend) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return f.gasLimit, f.gasErr
}

func (f *fakeBackend) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	f.sentTx = tx
	return f.sendErr
}

func (f *fakeBackend) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	return f.txByHash, f.txPending, f.txErr
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return f.receipt, f.receiptErr
}

func (f *fakeBackend) BlockNumber(ctx context.Context) (uint64, error) {
	_, f.sawDeadline = ctx.Deadline()
	return f.head, f.headErr
}

func (f *fakeBackend) BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error) {
	if b, ok := f.blocks[number.Uint64()]; ok {
		return b, nil
	}
	header := &types.Header{Number: new(big.Int).Set(number), Time: number.Uint64()}
	return types.NewBlockWithHeader(header), nil
}

func newFakeProvider(f *fakeBackend) *ProviderClient {
	if f.chainID == nil {
		f.chainID = big.NewInt(1)
	}
	return NewProviderClientWithBackend(f.chainID, f)
}

func signedTransfer(t *testing.T, nonce uint64, to common.Address, valueWei *big.Int) *types.Transaction {
	t.Helper()
	key, err := crypto.HexToECDSA(testKeyHex)
	require.NoError(t, err)
	tx := types.NewTransaction(nonce, to, valueWei, 21000, big.NewInt(1_000_000_000), nil)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(big.NewInt(1)), key)
	require.NoError(t, err)
	return signed
}

func testKeyAddress(t *testing.T) string {
	t.Helper()
	key, err := crypto.HexToECDSA(testKeyHex)
	require.NoError(t, err)
	return entities.NormalizeAddress(crypto.PubkeyToAddress(key.PublicKey).Hex())
}

func TestProviderClient_GetBalance(t *testing.T) {
	c := newFakeProvider(&fakeBackend{balance: big.NewInt(1_500_000_000_000_000_000)})

	got, err := c.GetBalance(context.Background(), "0x742d35cc6634c0532925a3b844bc454e4438f44e")
	require.NoError(t, err)
	assert.Equal(t, "1.5", got)
}

func TestProviderClient_GetBalance_ProviderDown(t *testing.T) {
	c := newFakeProvider(&fakeBackend{balanceErr: errNotStubbed})

	_, err := c.GetBalance(context.Background(), "0x742d35cc6634c0532925a3b844bc454e4438f44e")
	require.Error(t, err)
}

func TestProviderClient_EstimateTransferFee(t *testing.T) {
	c := newFakeProvider(&fakeBackend{
		gasPrice: big.NewInt(2_000_000_000), // 2 gwei
		gasLimit: 21000,
	})

	est, err := c.EstimateTransferFee(context.Background(),
		"0x742d35cc6634c0532925a3b844bc454e4438f44e",
		"0x9999999999999999999999999999999999999999",
		"0.1")
	require.NoError(t, err)
	assert.Equal(t, uint64(21000), est.GasLimit)
	assert.Equal(t, "2", est.GasPrice)
	assert.Equal(t, "0.000042", est.EstimatedFee)
}

func TestProviderClient_EstimateTransferFee_BadAmount(t *testing.T) {
	c := newFakeProvider(&fakeBackend{gasPrice: big.NewInt(1), gasLimit: 21000})

	for _, v := range []string{"", "abc", "0", "-1"} {
		_, err := c.EstimateTransferFee(context.Background(), "0x1", "0x2", v)
		assert.ErrorIs(t, err, ErrInvalidAmount, "amount %q", v)
	}
}

func TestProviderClient_SendTransfer(t *testing.T) {
	fb := &fakeBackend{
		nonce:    7,
		gasPrice: big.NewInt(1_000_000_000),
		gasLimit: 21000,
	}
	c := newFakeProvider(fb)

	from := testKeyAddress(t)
	hash, err := c.SendTransfer(context.Background(), from,
		"0x9999999999999999999999999999999999999999", "0.5", testKeyHex)
	require.NoError(t, err)
	require.NotNil(t, fb.sentTx)
	assert.Equal(t, hash, fb.sentTx.Hash().Hex())
	assert.Equal(t, uint64(7), fb.sentTx.Nonce())
	assert.Equal(t, "500000000000000000", fb.sentTx.Value().String())

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1)), fb.sentTx)
	require.NoError(t, err)
	assert.Equal(t, from, entities.NormalizeAddress(sender.Hex()))
}

func TestProviderClient_SendTransfer_Failures(t *testing.T) {
	t.Run("bad amount", func(t *testing.T) {
		c := newFakeProvider(&fakeBackend{})
		_, err := c.SendTransfer(context.Background(), "0x1", "0x2", "nope", testKeyHex)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("gas price unavailable", func(t *testing.T) {
		c := newFakeProvider(&fakeBackend{gasPriceErr: errNotStubbed})
		_, err := c.SendTransfer(context.Background(), testKeyAddress(t), "0x2", "1", testKeyHex)
		assert.ErrorIs(t, err, errNotStubbed)
	})

	t.Run("broadcast rejected", func(t *testing.T) {
		fb := &fakeBackend{gasPrice: big.NewInt(1), gasLimit: 21000, sendErr: errNotStubbed}
		c := newFakeProvider(fb)
		_, err := c.SendTransfer(context.Background(), testKeyAddress(t), "0x9999999999999999999999999999999999999999", "1", testKeyHex)
		assert.ErrorIs(t, err, errNotStubbed)
	})

	t.Run("bad secret", func(t *testing.T) {
		c := newFakeProvider(&fakeBackend{gasPrice: big.NewInt(1), gasLimit: 21000})
		_, err := c.SendTransfer(context.Background(), "0x1", "0x9999999999999999999999999999999999999999", "1", "zz")
		require.Error(t, err)
	})
}

func TestProviderClient_GetTransactionDetail(t *testing.T) {
	to := common.HexToAddress("0x9999999999999999999999999999999999999999")
	tx := signedTransfer(t, 0, to, big.NewInt(1_000_000_000_000_000_000))

	fb := &fakeBackend{
		txByHash: tx,
		receipt: &types.Receipt{
			Status:      types.ReceiptStatusSuccessful,
			GasUsed:     21000,
			BlockNumber: big.NewInt(5),
		},
	}
	c := newFakeProvider(fb)

	detail, err := c.GetTransactionDetail(context.Background(), tx.Hash().Hex())
	require.NoError(t, err)
	assert.Equal(t, tx.Hash().Hex(), detail.TxHash)
	assert.Equal(t, testKeyAddress(t), detail.From)
	assert.Equal(t, "0x9999999999999999999999999999999999999999", detail.To)
	assert.Equal(t, "1", detail.Value)
	assert.Equal(t, "1", detail.GasPrice)
	assert.Equal(t, uint64(21000), detail.GasUsed)
	assert.Equal(t, "0.000021", detail.RealizedFee)
	assert.True(t, detail.Succeeded)
	assert.False(t, detail.Pending)
	assert.Equal(t, uint64(5), detail.BlockNumber)
}

func TestProviderClient_GetTransactionDetail_Pending(t *testing.T) {
	to := common.HexToAddress("0x9999999999999999999999999999999999999999")
	tx := signedTransfer(t, 0, to, big.NewInt(1))

	c := newFakeProvider(&fakeBackend{txByHash: tx, txPending: true})

	detail, err := c.GetTransactionDetail(context.Background(), tx.Hash().Hex())
	require.NoError(t, err)
	assert.True(t, detail.Pending)
	assert.Zero(t, detail.GasUsed)
	assert.Empty(t, detail.RealizedFee)
}

func TestProviderClient_TransferHistory(t *testing.T) {
	me := common.HexToAddress(testKeyAddress(t))
	other := common.HexToAddress("0x9999999999999999999999999999999999999999")

	sent1 := signedTransfer(t, 0, other, big.NewInt(1_000_000_000_000_000_000))
	sent2 := signedTransfer(t, 1, other, big.NewInt(2_000_000_000_000_000_000))
	received := signedTransfer(t, 2, me, big.NewInt(3_000_000_000_000_000_000))

	blocks := map[uint64]*types.Block{
		9: types.NewBlockWithHeader(&types.Header{Number: big.NewInt(9), Time: 1000}).
			WithBody(types.Body{Transactions: []*types.Transaction{sent1, received}}),
		10: types.NewBlockWithHeader(&types.Header{Number: big.NewInt(10), Time: 2000}).
			WithBody(types.Body{Transactions: []*types.Transaction{sent2}}),
	}
	c := newFakeProvider(&fakeBackend{head: 10, blocks: blocks})

	sent, err := c.TransferHistory(context.Background(), testKeyAddress(t), entities.DirectionSent)
	require.NoError(t, err)
	require.Len(t, sent, 3, "sent scan sees every authored transfer, including self-addressed")
	assert.Equal(t, sent2.Hash().Hex(), sent[0].TxHash, "newest block first")
	assert.Equal(t, "2", sent[0].Value)

	got, err := c.TransferHistory(context.Background(), testKeyAddress(t), entities.DirectionReceived)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, received.Hash().Hex(), got[0].TxHash)
	assert.Equal(t, "3", got[0].Value)
	assert.Equal(t, entities.DirectionReceived, got[0].Direction)
}

func TestProviderClient_TransferHistory_TieBreakByHash(t *testing.T) {
	other := common.HexToAddress("0x9999999999999999999999999999999999999999")
	a := signedTransfer(t, 0, other, big.NewInt(1_000_000_000_000_000_000))
	b := signedTransfer(t, 1, other, big.NewInt(1_000_000_000_000_000_000))

	blocks := map[uint64]*types.Block{
		5: types.NewBlockWithHeader(&types.Header{Number: big.NewInt(5), Time: 1000}).
			WithBody(types.Body{Transactions: []*types.Transaction{b, a}}),
	}
	c := newFakeProvider(&fakeBackend{head: 5, blocks: blocks})

	got, err := c.TransferHistory(context.Background(), testKeyAddress(t), entities.DirectionSent)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Less(t, got[0].TxHash, got[1].TxHash, "same timestamp orders by hash")
}

func TestProviderClient_TransferHistory_HeadUnavailable(t *testing.T) {
	c := newFakeProvider(&fakeBackend{headErr: errNotStubbed})

	_, err := c.TransferHistory(context.Background(), "0x1", entities.DirectionSent)
	assert.ErrorIs(t, err, errNotStubbed)
}

func TestProviderClient_Ping_BoundsCall(t *testing.T) {
	f := &fakeBackend{head: 7}
	c := newFakeProvider(f)

	require.NoError(t, c.Ping(context.Background()))
	assert.True(t, f.sawDeadline, "provider call should carry a deadline")
}
