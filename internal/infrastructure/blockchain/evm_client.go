package blockchain

import (
	"context"
	"errors"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	"remittease.backend/internal/domain/entities"
	"remittease.backend/pkg/wallet"
)

var dialEVMClient = ethclient.Dial

// ErrInvalidAmount rejects amounts that are not positive decimal numbers.
var ErrInvalidAmount = errors.New("amount must be a positive decimal number")

// backend is the slice of ethclient the provider needs. Narrowed so unit
// tests can stub it without RPC sockets.
type backend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)
}

var weiPerEther = decimal.New(1, 18)
var weiPerGwei = decimal.New(1, 9)

// FeeEstimate is a gas quote for a plain value transfer. Prices are
// formatted decimal strings: gwei for the unit price, ether for the total.
type FeeEstimate struct {
	GasLimit     uint64 `json:"gasLimit"`
	GasPrice     string `json:"gasPrice"`
	EstimatedFee string `json:"estimatedFee"`
}

// ChainTransfer is one on-chain value transfer touching a wallet.
type ChainTransfer struct {
	TxHash      string                     `json:"txHash"`
	From        string                     `json:"from"`
	To          string                     `json:"to"`
	Value       string                     `json:"value"`
	Direction   entities.TransferDirection `json:"direction"`
	BlockNumber uint64                     `json:"blockNumber"`
	Timestamp   time.Time                  `json:"timestamp"`
}

// TransactionDetail is a submitted transaction enriched with its receipt.
type TransactionDetail struct {
	TxHash      string `json:"txHash"`
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	GasPrice    string `json:"gasPrice"`
	GasUsed     uint64 `json:"gasUsed"`
	RealizedFee string `json:"realizedFee"`
	Pending     bool   `json:"pending"`
	Succeeded   bool   `json:"succeeded"`
	BlockNumber uint64 `json:"blockNumber"`
}

// ProviderClient wraps the EVM JSON-RPC provider for balance reads, fee
// estimation, signed submission, and recent transfer history.
type ProviderClient struct {
	client      backend
	chainID     *big.Int
	rpcURL      string
	blockWindow uint64
	timeout     time.Duration
}

// DefaultBlockWindow bounds how far back the history scan walks.
const DefaultBlockWindow = 250

// DefaultRequestTimeout bounds each provider call when the caller's
// context carries no deadline of its own.
const DefaultRequestTimeout = 15 * time.Second

// NewProviderClient dials the RPC endpoint and resolves its chain id.
func NewProviderClient(rpcURL string, blockWindow uint64, timeout time.Duration) (*ProviderClient, error) {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	client, err := dialEVMClient(rpcURL)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	if blockWindow == 0 {
		blockWindow = DefaultBlockWindow
	}
	return &ProviderClient{
		client:      client,
		chainID:     chainID,
		rpcURL:      rpcURL,
		blockWindow: blockWindow,
		timeout:     timeout,
	}, nil
}

// NewProviderClientWithBackend creates a provider over an injected backend.
// Intended for unit tests where RPC sockets are unavailable.
func NewProviderClientWithBackend(chainID *big.Int, b backend) *ProviderClient {
	if chainID == nil {
		chainID = big.NewInt(1)
	}
	return &ProviderClient{client: b, chainID: chainID, blockWindow: DefaultBlockWindow, timeout: DefaultRequestTimeout}
}

// callCtx bounds a single provider round trip. Deadlines already on the
// caller's context stay in effect when tighter.
func (c *ProviderClient) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// ChainID returns the provider's chain id.
func (c *ProviderClient) ChainID() *big.Int {
	return c.chainID
}

// Ping checks provider reachability by asking for the head block number.
func (c *ProviderClient) Ping(ctx context.Context) error {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	_, err := c.client.BlockNumber(ctx)
	return err
}

// GetBalance returns the native balance of an address formatted in ether.
func (c *ProviderClient) GetBalance(ctx context.Context, address string) (string, error) {
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	wei, err := c.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return "", err
	}
	return formatEther(wei), nil
}

// EstimateTransferFee prices a plain value transfer without side effects.
func (c *ProviderClient) EstimateTransferFee(ctx context.Context, from, to, value string) (*FeeEstimate, error) {
	wei, err := parseEther(value)
	if err != nil {
		return nil, err
	}
	toAddr := common.HexToAddress(to)

	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, err
	}
	gasLimit, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  common.HexToAddress(from),
		To:    &toAddr,
		Value: wei,
	})
	if err != nil {
		return nil, err
	}

	total := new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasLimit))
	return &FeeEstimate{
		GasLimit:     gasLimit,
		GasPrice:     formatGwei(gasPrice),
		EstimatedFee: formatEther(total),
	}, nil
}

// SendTransfer signs and broadcasts a value transfer, returning the tx
// hash. The secret never leaves the process; only the signed payload is
// sent to the provider.
func (c *ProviderClient) SendTransfer(ctx context.Context, from, to, value, secret string) (string, error) {
	wei, err := parseEther(value)
	if err != nil {
		return "", err
	}
	fromAddr := common.HexToAddress(from)
	toAddr := common.HexToAddress(to)

	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	nonce, err := c.client.PendingNonceAt(ctx, fromAddr)
	if err != nil {
		return "", err
	}
	gasPrice, err := c.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", err
	}
	gasLimit, err := c.client.EstimateGas(ctx, ethereum.CallMsg{
		From:  fromAddr,
		To:    &toAddr,
		Value: wei,
	})
	if err != nil {
		return "", err
	}

	tx := types.NewTransaction(nonce, toAddr, wei, gasLimit, gasPrice, nil)
	signed, err := wallet.SignTransfer(tx, secret, c.chainID)
	if err != nil {
		return "", err
	}
	if err := c.client.SendTransaction(ctx, signed); err != nil {
		return "", err
	}
	return signed.Hash().Hex(), nil
}

// GetTransactionDetail fetches a transaction and, once mined, its receipt.
func (c *ProviderClient) GetTransactionDetail(ctx context.Context, txHash string) (*TransactionDetail, error) {
	hash := common.HexToHash(txHash)
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	tx, pending, err := c.client.TransactionByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	detail := &TransactionDetail{
		TxHash:   tx.Hash().Hex(),
		Value:    formatEther(tx.Value()),
		GasPrice: formatGwei(tx.GasPrice()),
		Pending:  pending,
	}
	if to := tx.To(); to != nil {
		detail.To = entities.NormalizeAddress(to.Hex())
	}
	if sender, err := types.Sender(types.LatestSignerForChainID(c.chainID), tx); err == nil {
		detail.From = entities.NormalizeAddress(sender.Hex())
	}
	if pending {
		return detail, nil
	}

	receipt, err := c.client.TransactionReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}
	detail.GasUsed = receipt.GasUsed
	detail.Succeeded = receipt.Status == types.ReceiptStatusSuccessful
	detail.BlockNumber = receipt.BlockNumber.Uint64()
	fee := new(big.Int).Mul(tx.GasPrice(), new(big.Int).SetUint64(receipt.GasUsed))
	detail.RealizedFee = formatEther(fee)
	return detail, nil
}

// TransferHistory scans the recent block window for value transfers sent
// by or addressed to the wallet, newest first with ties broken by hash.
func (c *ProviderClient) TransferHistory(ctx context.Context, address string, direction entities.TransferDirection) ([]ChainTransfer, error) {
	owner := entities.NormalizeAddress(address)

	// One deadline covers the whole window scan, not each block fetch.
	ctx, cancel := c.callCtx(ctx)
	defer cancel()
	head, err := c.client.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	start := uint64(0)
	if head > c.blockWindow {
		start = head - c.blockWindow
	}

	signer := types.LatestSignerForChainID(c.chainID)
	var out []ChainTransfer
	for n := head; n >= start; n-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		block, err := c.client.BlockByNumber(ctx, new(big.Int).SetUint64(n))
		if err != nil {
			return nil, err
		}
		ts := time.Unix(int64(block.Time()), 0).UTC()
		for _, tx := range block.Transactions() {
			if tx.Value().Sign() == 0 || tx.To() == nil {
				continue
			}
			to := entities.NormalizeAddress(tx.To().Hex())
			from := ""
			if sender, err := types.Sender(signer, tx); err == nil {
				from = entities.NormalizeAddress(sender.Hex())
			}

			var match bool
			switch direction {
			case entities.DirectionSent:
				match = from == owner
			case entities.DirectionReceived:
				match = to == owner
			}
			if !match {
				continue
			}
			out = append(out, ChainTransfer{
				TxHash:      tx.Hash().Hex(),
				From:        from,
				To:          to,
				Value:       formatEther(tx.Value()),
				Direction:   direction,
				BlockNumber: n,
				Timestamp:   ts,
			})
		}
		if n == 0 {
			break
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].TxHash < out[j].TxHash
	})
	return out, nil
}

// Close closes the underlying RPC connection.
func (c *ProviderClient) Close() {
	if ec, ok := c.client.(*ethclient.Client); ok && ec != nil {
		ec.Close()
	}
}

func formatEther(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, 0).Div(weiPerEther).String()
}

func formatGwei(wei *big.Int) string {
	return decimal.NewFromBigInt(wei, 0).Div(weiPerGwei).String()
}

func parseEther(value string) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil || !d.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return d.Mul(weiPerEther).BigInt(), nil
}
