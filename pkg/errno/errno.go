package errno

import "errors"

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// WithMessage 返回一个同 Code、自定义 Message 的副本
// 注意: 副本与原值不再 errors.Is 相等，只用于直接返回给调用方的场景
func (e Errno) WithMessage(msg string) Errno {
	return Errno{Code: e.Code, Message: msg}
}

// Decode tries to convert an error to Errno
// 包装过的错误 (fmt.Errorf("%w")) 会取最内层的 Errno Code，Message 使用完整的错误链文本
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	var typed Errno
	if errors.As(err, &typed) {
		return typed.Code, err.Error()
	}
	var ptr *Errno
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code, err.Error()
	}
	return InternalServerError.Code, err.Error()
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrTimeout          = Errno{Code: 10003, Message: "Request timeout"}
)

// Address Errors (301xx)
var (
	ErrInvalidAddress    = Errno{Code: 30101, Message: "invalid address"}
	ErrUnsupportedFormat = Errno{Code: 30102, Message: "unsupported address format"}
	ErrNetworkMismatch   = Errno{Code: 30103, Message: "address network mismatch"}
)

// Multisig Errors (302xx)
var (
	ErrInvalidMember    = Errno{Code: 30201, Message: "invalid multisig member"}
	ErrTooManyMembers   = Errno{Code: 30202, Message: "too many multisig members"}
	ErrInvalidThreshold = Errno{Code: 30203, Message: "invalid multisig threshold"}
)

// Transfer Errors (303xx)
var (
	ErrInvalidAmount       = Errno{Code: 30301, Message: "invalid amount"}
	ErrInsufficientBalance = Errno{Code: 30302, Message: "insufficient balance"}
	ErrChainUnavailable    = Errno{Code: 30303, Message: "chain unavailable"}
	ErrBroadcastFailed     = Errno{Code: 30304, Message: "broadcast failed"}
	ErrAlreadySent         = Errno{Code: 30305, Message: "transaction already sent"}
	ErrPendingNotFound     = Errno{Code: 30306, Message: "pending transaction not found"}
	ErrSenderBusy          = Errno{Code: 30307, Message: "sender has a transfer in flight"}
	ErrInvalidExtrinsic    = Errno{Code: 30308, Message: "invalid extrinsic"}
)

// Key Errors (304xx)
var (
	ErrInvalidMnemonic       = Errno{Code: 30401, Message: "invalid mnemonic"}
	ErrInvalidSeed           = Errno{Code: 30402, Message: "invalid seed"}
	ErrInvalidDerivationPath = Errno{Code: 30403, Message: "invalid derivation path"}
	ErrSigningFailed         = Errno{Code: 30404, Message: "signing failed"}
	ErrUnsupportedScheme     = Errno{Code: 30405, Message: "unsupported signature scheme"}
)

// Explorer Errors (305xx)
var (
	ErrExplorer = Errno{Code: 30501, Message: "explorer request failed"}
)
