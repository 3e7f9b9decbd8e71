package handler

import (
	"context"
	"fmt"

	"dot-wallet/internal/handler/request"
	"dot-wallet/internal/handler/response"
	"dot-wallet/internal/service/wallet"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/explorer"
	"dot-wallet/pkg/validator"

	"github.com/gin-gonic/gin"
)

// WalletService handler 依赖的业务接口
type WalletService interface {
	DeriveAccount(path string) (*wallet.Account, error)
	ValidateAddress(address string, expected *uint16) *wallet.AddressInfo
	EncodeAddress(publicKey string, format uint16) (string, error)
	DeriveMultisig(members []string, threshold uint16, format *uint16) (*wallet.MultisigInfo, error)
	ChainHeight(ctx context.Context) (uint64, error)
	Balance(ctx context.Context, address string) (*wallet.Balance, error)
	ToPlanck(amount string) (string, error)
	BuildTransfer(ctx context.Context, req wallet.TransferRequest) (*wallet.TransferResult, error)
	SendPending(ctx context.Context, txID string) (string, error)
	ListTransfers(ctx context.Context, opts explorer.ListOptions) ([]explorer.Transfer, error)
	TransferByHash(ctx context.Context, hash string) (*explorer.Transfer, error)
}

type WalletHandler struct {
	svc WalletService
}

func NewWalletHandler(svc WalletService) *WalletHandler {
	return &WalletHandler{svc: svc}
}

// ValidateAddress 校验地址
// @Summary 校验地址
// @Description 解析 SS58 地址, 可选校验网络格式
// @Tags Address
// @Accept json
// @Produce json
// @Param request body request.ValidateAddressRequest true "Address"
// @Success 200 {object} response.Response{data=wallet.AddressInfo}
// @Router /api/v1/address/validate [post]
func (h *WalletHandler) ValidateAddress(c *gin.Context) {
	var req request.ValidateAddressRequest
	if !bind(c, &req) {
		return
	}
	response.Success(c, h.svc.ValidateAddress(req.Address, req.Format))
}

// EncodeAddress 公钥编码为地址
// @Summary 公钥编码为地址
// @Tags Address
// @Accept json
// @Produce json
// @Param request body request.EncodeAddressRequest true "Public key"
// @Success 200 {object} response.Response
// @Router /api/v1/address/encode [post]
func (h *WalletHandler) EncodeAddress(c *gin.Context) {
	var req request.EncodeAddressRequest
	if !bind(c, &req) {
		return
	}
	addr, err := h.svc.EncodeAddress(req.PublicKey, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"address": addr, "format": req.Format})
}

// DeriveMultisig 计算多签地址
// @Summary 计算多签地址
// @Description 成员顺序不影响结果, 默认返回通用格式 (42) 地址
// @Tags Address
// @Accept json
// @Produce json
// @Param request body request.MultisigRequest true "Members and threshold"
// @Success 200 {object} response.Response{data=wallet.MultisigInfo}
// @Router /api/v1/multisig [post]
func (h *WalletHandler) DeriveMultisig(c *gin.Context) {
	var req request.MultisigRequest
	if !bind(c, &req) {
		return
	}
	info, err := h.svc.DeriveMultisig(req.Members, req.Threshold, req.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, info)
}

// DeriveAccount 派生账户
// @Summary 派生账户
// @Description 从服务根密钥按硬派生路径 (如 //hot//0) 派生账户
// @Tags Account
// @Accept json
// @Produce json
// @Param request body request.DeriveAccountRequest true "Derivation path"
// @Success 200 {object} response.Response{data=wallet.Account}
// @Router /api/v1/accounts/derive [post]
func (h *WalletHandler) DeriveAccount(c *gin.Context) {
	var req request.DeriveAccountRequest
	if !bind(c, &req) {
		return
	}
	acc, err := h.svc.DeriveAccount(req.Path)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, acc)
}

// Balance 查询余额
// @Summary 查询余额
// @Tags Account
// @Produce json
// @Param address path string true "SS58 address"
// @Success 200 {object} response.Response{data=wallet.Balance}
// @Router /api/v1/accounts/{address}/balance [get]
func (h *WalletHandler) Balance(c *gin.Context) {
	b, err := h.svc.Balance(c.Request.Context(), c.Param("address"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, b)
}

// ChainHeight 当前区块高度
// @Summary 当前区块高度
// @Tags Chain
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/chain/height [get]
func (h *WalletHandler) ChainHeight(c *gin.Context) {
	height, err := h.svc.ChainHeight(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"height": height})
}

// CreateTransfer 构建转账
// @Summary 构建并签名转账
// @Description send=false 时返回待发送交易, 通过 /transfers/{txid}/send 广播
// @Tags Transfer
// @Accept json
// @Produce json
// @Param request body request.CreateTransferRequest true "Transfer"
// @Success 200 {object} response.Response{data=wallet.TransferResult}
// @Router /api/v1/transfers [post]
func (h *WalletHandler) CreateTransfer(c *gin.Context) {
	// 1. 绑定参数
	var req request.CreateTransferRequest
	if !bind(c, &req) {
		return
	}

	// 2. 金额单位换算
	amount := req.Amount
	if req.Unit == "dot" {
		planck, err := h.svc.ToPlanck(req.Amount)
		if err != nil {
			response.Error(c, err)
			return
		}
		amount = planck
	}

	// 3. 调用 Service
	res, err := h.svc.BuildTransfer(c.Request.Context(), wallet.TransferRequest{
		Path:         req.Path,
		To:           req.To,
		Amount:       amount,
		CheckBalance: req.CheckBalance,
		Send:         req.Send,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// SendTransfer 广播待发送交易
// @Summary 广播待发送交易
// @Description 每笔交易只能成功广播一次
// @Tags Transfer
// @Produce json
// @Param txid path string true "Transaction id"
// @Success 200 {object} response.Response
// @Router /api/v1/transfers/{txid}/send [post]
func (h *WalletHandler) SendTransfer(c *gin.Context) {
	txID := c.Param("txid")
	hash, err := h.svc.SendPending(c.Request.Context(), txID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"txId": txID, "hash": hash})
}

// ListTransfers 浏览器转账记录
// @Summary 转账记录
// @Tags Explorer
// @Produce json
// @Param page query int false "Page, from 0"
// @Param row query int false "Rows per page (max 100)"
// @Param address query string false "Filter by address"
// @Success 200 {object} response.Response{data=[]explorer.Transfer}
// @Router /api/v1/explorer/transfers [get]
func (h *WalletHandler) ListTransfers(c *gin.Context) {
	var q request.ListTransfersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, fmt.Errorf("%w: %s", errno.ErrBind, validator.GetErrorMsg(err)))
		return
	}
	transfers, err := h.svc.ListTransfers(c.Request.Context(), explorer.ListOptions{Page: q.Page, Row: q.Row, Address: q.Address})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, transfers)
}

// TransferByHash 按哈希查询转账
// @Summary 按哈希查询转账
// @Tags Explorer
// @Produce json
// @Param hash path string true "Extrinsic hash"
// @Success 200 {object} response.Response{data=explorer.Transfer}
// @Router /api/v1/explorer/extrinsics/{hash} [get]
func (h *WalletHandler) TransferByHash(c *gin.Context) {
	tr, err := h.svc.TransferByHash(c.Request.Context(), c.Param("hash"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tr)
}

// bind 绑定 JSON, 失败时直接写回 ErrBind
func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, fmt.Errorf("%w: %s", errno.ErrBind, validator.GetErrorMsg(err)))
		return false
	}
	return true
}
