package request

// ValidateAddressRequest format 为空时只校验地址本身
type ValidateAddressRequest struct {
	Address string  `json:"address" binding:"required"`
	Format  *uint16 `json:"format"`
}

type EncodeAddressRequest struct {
	PublicKey string `json:"public_key" binding:"required"`
	Format    uint16 `json:"format"`
}

type MultisigRequest struct {
	Members   []string `json:"members" binding:"required,min=1"`
	Threshold uint16   `json:"threshold"`
	Format    *uint16  `json:"format"`
}

// DeriveAccountRequest path 为空时返回根账户
type DeriveAccountRequest struct {
	Path string `json:"path"`
}

// CreateTransferRequest unit=planck 时 amount 为最小单位整数, unit=dot 时可带小数
type CreateTransferRequest struct {
	Path         string `json:"path"`
	To           string `json:"to" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
	Unit         string `json:"unit" binding:"omitempty,oneof=planck dot"`
	CheckBalance *bool  `json:"check_balance"`
	Send         bool   `json:"send"`
}

type ListTransfersQuery struct {
	Page    int    `form:"page" binding:"omitempty,min=0"`
	Row     int    `form:"row" binding:"omitempty,min=1,max=100"`
	Address string `form:"address" binding:"omitempty,ss58"`
}
