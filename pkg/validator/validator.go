package validator

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"dot-wallet/pkg/keyring"
	"dot-wallet/pkg/ss58"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var initOnce sync.Once

// Init 在 gin 的校验引擎上注册自定义 tag:
// ss58   合法的 SS58 地址
// scheme 支持的签名算法
func Init() {
	initOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("ss58", func(fl validator.FieldLevel) bool {
			return ss58.IsValid(fl.Field().String())
		})
		_ = v.RegisterValidation("scheme", func(fl validator.FieldLevel) bool {
			_, err := keyring.ParseScheme(fl.Field().String())
			return err == nil
		})
	})
}

// GetErrorMsg 把校验错误翻译成可读信息
func GetErrorMsg(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "请求参数错误"
	}

	var errMsgs []string
	for _, e := range validationErrors {
		field := e.Field()
		param := e.Param()

		switch e.Tag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("%s 不能为空", field))
		case "min":
			errMsgs = append(errMsgs, fmt.Sprintf("%s 不能小于 %s", field, param))
		case "max":
			errMsgs = append(errMsgs, fmt.Sprintf("%s 不能超过 %s", field, param))
		case "oneof":
			errMsgs = append(errMsgs, fmt.Sprintf("%s 必须是 [%s] 之一", field, param))
		case "ss58":
			errMsgs = append(errMsgs, fmt.Sprintf("%s 不是合法的 SS58 地址", field))
		case "scheme":
			errMsgs = append(errMsgs, fmt.Sprintf("%s 不是支持的签名算法", field))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("%s 校验失败 (%s)", field, e.Tag()))
		}
	}
	return strings.Join(errMsgs, "; ")
}
