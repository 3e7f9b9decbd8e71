package response

import (
	"net/http"

	"dot-wallet/pkg/errno"

	"github.com/gin-gonic/gin"
)

// Response 统一返回结构, HTTP 状态码固定 200, 业务结果看 code
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"msg"`
	Data    interface{} `json:"data"`
}

func Success(c *gin.Context, data interface{}) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Error code 取错误链上的 Errno, 没有则为 InternalServerError
func Error(c *gin.Context, err error) {
	code, msg := errno.Decode(err)
	c.JSON(http.StatusOK, Response{
		Code:    code,
		Message: msg,
		Data:    gin.H{},
	})
}
