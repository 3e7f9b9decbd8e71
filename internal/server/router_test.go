package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"dot-wallet/internal/handler"
	"dot-wallet/internal/service/wallet"
	"dot-wallet/pkg/chain/chaintest"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/explorer"
	"dot-wallet/pkg/keyring"
	"dot-wallet/pkg/ss58"
	"dot-wallet/pkg/txbuilder"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const aliceGeneric = "5FA9nQDVg267DEd8m1ZypXLBnvN7SFxYwV7ndqSYGiN9TTpu"

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type stubExplorer struct{}

func (stubExplorer) ListTransfers(_ context.Context, opts explorer.ListOptions) ([]explorer.Transfer, error) {
	return []explorer.Transfer{{Hash: "0xaa", From: opts.Address}}, nil
}

func (stubExplorer) TransferByHash(_ context.Context, hash string) (*explorer.Transfer, error) {
	if hash == "0xmissing" {
		return nil, errno.ErrExplorer
	}
	return &explorer.Transfer{Hash: hash}, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *chaintest.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	root, err := keyring.NewProvider(keyring.Ed25519).FromURI("")
	require.NoError(t, err)
	client := chaintest.Baseline()

	svc := wallet.NewService(wallet.Config{
		Format:   ss58.FormatSubstrate,
		Decimals: 10,
		Symbol:   "DOT",
		Tx:       txbuilder.PolkadotConfig(),
	}, wallet.Deps{Root: root, Client: client, Explorer: stubExplorer{}})
	return NewHTTPRouter(handler.NewWalletHandler(svc)), client
}

func do(t *testing.T, r http.Handler, method, path string, body interface{}) envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	env := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, 0, env.Code)
	assert.Contains(t, string(env.Data), "UP")
}

func TestAddressEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	env := do(t, r, http.MethodPost, "/api/v1/address/validate", gin.H{"address": aliceGeneric})
	assert.Equal(t, 0, env.Code)
	var info wallet.AddressInfo
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.True(t, info.Valid)
	assert.Equal(t, uint16(42), info.Format)

	env = do(t, r, http.MethodPost, "/api/v1/address/encode", gin.H{"public_key": info.PublicKey, "format": 42})
	assert.Equal(t, 0, env.Code)
	assert.Contains(t, string(env.Data), aliceGeneric)

	env = do(t, r, http.MethodPost, "/api/v1/address/encode", gin.H{"public_key": "0x00"})
	assert.Equal(t, errno.ErrInvalidAddress.Code, env.Code)

	env = do(t, r, http.MethodPost, "/api/v1/address/validate", gin.H{})
	assert.Equal(t, errno.ErrBind.Code, env.Code)
	assert.Contains(t, env.Msg, "Address 不能为空")
}

func TestMultisigEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	env := do(t, r, http.MethodPost, "/api/v1/multisig", gin.H{
		"members":   []string{"15o5762QE4UPrUaYcM83HERK7Wzbmgcsxa93NJjkHGH1unvr", "1TMxLj56NtRg3scE7rRo8H9GZJMFXdsJk1GyxCuTRAxTTzU"},
		"threshold": 1,
	})
	assert.Equal(t, 0, env.Code)
	assert.Contains(t, string(env.Data), "5GK2KzG8Eyg76RHVvtKyocRpCwYSZVf78HjZW4cN3Ac8fcVe")

	env = do(t, r, http.MethodPost, "/api/v1/multisig", gin.H{"members": []string{"nope"}, "threshold": 1})
	assert.Equal(t, errno.ErrInvalidMember.Code, env.Code)
}

func TestAccountEndpoints(t *testing.T) {
	r, client := newTestRouter(t)

	env := do(t, r, http.MethodPost, "/api/v1/accounts/derive", gin.H{"path": "//Alice"})
	assert.Equal(t, 0, env.Code)
	var acc wallet.Account
	require.NoError(t, json.Unmarshal(env.Data, &acc))
	assert.Equal(t, aliceGeneric, acc.Address)

	env = do(t, r, http.MethodGet, "/api/v1/accounts/"+aliceGeneric+"/balance", nil)
	assert.Equal(t, 0, env.Code)
	assert.Contains(t, string(env.Data), `"planck":"100000000000"`)

	client.BalanceFunc = func(context.Context, string) (*big.Int, error) { return nil, errors.New("node down") }
	env = do(t, r, http.MethodGet, "/api/v1/accounts/"+aliceGeneric+"/balance", nil)
	assert.Equal(t, errno.ErrChainUnavailable.Code, env.Code)

	env = do(t, r, http.MethodGet, "/api/v1/chain/height", nil)
	assert.Equal(t, 0, env.Code)
	assert.JSONEq(t, `{"height":21000000}`, string(env.Data))
}

func TestTransferFlow(t *testing.T) {
	r, client := newTestRouter(t)

	env := do(t, r, http.MethodPost, "/api/v1/transfers", gin.H{
		"path":   "//Alice",
		"to":     aliceGeneric,
		"amount": "1.5",
		"unit":   "dot",
	})
	require.Equal(t, 0, env.Code, env.Msg)

	var res struct {
		TxID    string `json:"txId"`
		Pending bool   `json:"pending"`
		TxData  struct {
			Amount string `json:"amount"`
		} `json:"txData"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.Pending)
	assert.Equal(t, "15000000000", res.TxData.Amount)
	assert.Equal(t, 0, client.Broadcasts())

	env = do(t, r, http.MethodPost, "/api/v1/transfers/"+res.TxID+"/send", nil)
	assert.Equal(t, 0, env.Code)
	assert.Equal(t, 1, client.Broadcasts())

	env = do(t, r, http.MethodPost, "/api/v1/transfers/"+res.TxID+"/send", nil)
	assert.Equal(t, errno.ErrPendingNotFound.Code, env.Code)
}

func TestTransferErrors(t *testing.T) {
	r, client := newTestRouter(t)

	env := do(t, r, http.MethodPost, "/api/v1/transfers", gin.H{"to": aliceGeneric, "amount": "-1"})
	assert.Equal(t, errno.ErrInvalidAmount.Code, env.Code)

	env = do(t, r, http.MethodPost, "/api/v1/transfers", gin.H{"to": aliceGeneric, "amount": "1", "unit": "wei"})
	assert.Equal(t, errno.ErrBind.Code, env.Code)

	client.BalanceFunc = func(context.Context, string) (*big.Int, error) { return big.NewInt(1), nil }
	env = do(t, r, http.MethodPost, "/api/v1/transfers", gin.H{"to": aliceGeneric, "amount": "100", "check_balance": true, "send": true})
	assert.Equal(t, errno.ErrInsufficientBalance.Code, env.Code)
	assert.Equal(t, 0, client.Broadcasts())
}

func TestExplorerEndpoints(t *testing.T) {
	r, _ := newTestRouter(t)

	env := do(t, r, http.MethodGet, "/api/v1/explorer/transfers?page=0&row=5&address="+aliceGeneric, nil)
	assert.Equal(t, 0, env.Code)
	assert.Contains(t, string(env.Data), aliceGeneric)

	env = do(t, r, http.MethodGet, "/api/v1/explorer/transfers?address=bogus", nil)
	assert.Equal(t, errno.ErrBind.Code, env.Code)

	env = do(t, r, http.MethodGet, "/api/v1/explorer/extrinsics/0xaa", nil)
	assert.Equal(t, 0, env.Code)

	env = do(t, r, http.MethodGet, "/api/v1/explorer/extrinsics/0xmissing", nil)
	assert.Equal(t, errno.ErrExplorer.Code, env.Code)
}
