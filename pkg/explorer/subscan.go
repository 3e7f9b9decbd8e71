// Package explorer reads transfer history from the Subscan block explorer.
package explorer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/logger"
	"dot-wallet/pkg/monitor"

	"github.com/buger/jsonparser"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/resty.v1"
)

const (
	transfersPath = "/api/scan/transfers"
	extrinsicPath = "/api/scan/extrinsic"
	defaultRow    = 10
	maxRow        = 100
)

// Transfer 浏览器返回的转账记录
type Transfer struct {
	From           string          `json:"from"`
	To             string          `json:"to"`
	ExtrinsicIndex string          `json:"extrinsic_index"`
	Success        bool            `json:"success"`
	Hash           string          `json:"hash"`
	BlockNum       int64           `json:"block_num"`
	BlockTimestamp int64           `json:"block_timestamp"`
	Module         string          `json:"module"`
	Amount         decimal.Decimal `json:"amount"`
	Fee            decimal.Decimal `json:"fee"`
}

// ListOptions 分页参数, Page 从 0 开始
type ListOptions struct {
	Page    int    `json:"page"`
	Row     int    `json:"row"`
	Address string `json:"address,omitempty"`
}

type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	RetryCount int
}

type Client struct {
	http *resty.Client
	log  *zap.Logger
}

func NewClient(cfg Config) *Client {
	c := resty.New().
		SetHostURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(cfg.RetryCount)
	if cfg.Timeout > 0 {
		c.SetTimeout(cfg.Timeout)
	}
	if cfg.APIKey != "" {
		c.SetHeader("X-API-Key", cfg.APIKey)
	}
	return &Client{http: c, log: logger.Named("explorer")}
}

// ListTransfers 分页查询转账, Address 为空时查询全网
func (c *Client) ListTransfers(ctx context.Context, opts ListOptions) ([]Transfer, error) {
	if opts.Row <= 0 {
		opts.Row = defaultRow
	}
	if opts.Row > maxRow {
		opts.Row = maxRow
	}
	if opts.Page < 0 {
		opts.Page = 0
	}

	data, err := c.post(ctx, transfersPath, opts)
	if err != nil {
		return nil, err
	}

	transfers := make([]Transfer, 0, opts.Row)
	raw, typ, _, err := jsonparser.Get(data, "transfers")
	switch {
	case typ == jsonparser.NotExist || typ == jsonparser.Null:
		// 没有记录时 transfers 为 null
		return transfers, nil
	case err != nil:
		return nil, fmt.Errorf("%w: transfers: %v", errno.ErrExplorer, err)
	case typ != jsonparser.Array:
		return nil, fmt.Errorf("%w: transfers: unexpected %s", errno.ErrExplorer, typ)
	}

	var parseErr error
	_, err = jsonparser.ArrayEach(raw, func(value []byte, _ jsonparser.ValueType, _ int, _ error) {
		if parseErr != nil {
			return
		}
		t, err := parseTransfer(value)
		if err != nil {
			parseErr = err
			return
		}
		transfers = append(transfers, t)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: transfers: %v", errno.ErrExplorer, err)
	}
	if parseErr != nil {
		return nil, parseErr
	}
	return transfers, nil
}

// TransferByHash 按交易哈希查询, 区块信息与手续费取自外层 extrinsic
func (c *Client) TransferByHash(ctx context.Context, hash string) (*Transfer, error) {
	data, err := c.post(ctx, extrinsicPath, map[string]string{"hash": hash})
	if err != nil {
		return nil, err
	}

	t := Transfer{Hash: hash}
	if inner, dataType, _, err := jsonparser.Get(data, "transfer"); err == nil && dataType == jsonparser.Object {
		if t, err = parseTransfer(inner); err != nil {
			return nil, err
		}
	} else {
		t.Success, _ = jsonparser.GetBoolean(data, "success")
		t.Module, _ = jsonparser.GetString(data, "call_module")
	}
	if t.Hash == "" {
		t.Hash = hash
	}

	t.BlockNum, _ = jsonparser.GetInt(data, "block_num")
	t.BlockTimestamp, _ = jsonparser.GetInt(data, "block_timestamp")
	t.ExtrinsicIndex, _ = jsonparser.GetString(data, "extrinsic_index")
	if fee, err := getDecimal(data, "fee"); err == nil {
		t.Fee = fee
	}
	return &t, nil
}

// post 发送请求并返回 data 字段; code != 0 视为失败
func (c *Client) post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(body).Post(path)
	if monitor.Business != nil {
		monitor.Business.ExplorerRequestTotal.WithLabelValues(path, monitor.Status(err)).Inc()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errno.ErrExplorer, path, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: %s: http %d", errno.ErrExplorer, path, resp.StatusCode())
	}

	raw := resp.Body()
	code, err := jsonparser.GetInt(raw, "code")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: malformed response: %v", errno.ErrExplorer, path, err)
	}
	if code != 0 {
		msg, _ := jsonparser.GetString(raw, "message")
		return nil, fmt.Errorf("%w: %s: %s (code %d)", errno.ErrExplorer, path, msg, code)
	}

	data, _, _, err := jsonparser.Get(raw, "data")
	if err != nil {
		return nil, fmt.Errorf("%w: %s: missing data", errno.ErrExplorer, path)
	}
	c.log.Debug("explorer response", zap.String("path", path), zap.Int("bytes", len(raw)))
	return data, nil
}

func parseTransfer(data []byte) (Transfer, error) {
	var t Transfer
	t.From, _ = jsonparser.GetString(data, "from")
	t.To, _ = jsonparser.GetString(data, "to")
	t.ExtrinsicIndex, _ = jsonparser.GetString(data, "extrinsic_index")
	t.Success, _ = jsonparser.GetBoolean(data, "success")
	t.Hash, _ = jsonparser.GetString(data, "hash")
	t.BlockNum, _ = jsonparser.GetInt(data, "block_num")
	t.BlockTimestamp, _ = jsonparser.GetInt(data, "block_timestamp")
	t.Module, _ = jsonparser.GetString(data, "module")

	var err error
	if t.Amount, err = getDecimal(data, "amount"); err != nil && err != jsonparser.KeyPathNotFoundError {
		return t, fmt.Errorf("%w: amount: %v", errno.ErrExplorer, err)
	}
	if t.Fee, err = getDecimal(data, "fee"); err != nil && err != jsonparser.KeyPathNotFoundError {
		return t, fmt.Errorf("%w: fee: %v", errno.ErrExplorer, err)
	}
	return t, nil
}

// getDecimal 数值字段可能是字符串也可能是数字
func getDecimal(data []byte, key string) (decimal.Decimal, error) {
	value, dataType, _, err := jsonparser.Get(data, key)
	if err != nil {
		return decimal.Zero, err
	}
	switch dataType {
	case jsonparser.String, jsonparser.Number:
		if len(value) == 0 {
			return decimal.Zero, nil
		}
		return decimal.NewFromString(string(value))
	case jsonparser.Null:
		return decimal.Zero, nil
	default:
		return decimal.Zero, fmt.Errorf("unexpected type %s", dataType)
	}
}
