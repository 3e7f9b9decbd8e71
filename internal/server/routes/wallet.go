package routes

import (
	"dot-wallet/internal/handler"

	"github.com/gin-gonic/gin"
)

func RegisterWalletRoutes(rg *gin.RouterGroup, h *handler.WalletHandler) {
	rg.POST("/address/validate", h.ValidateAddress)
	rg.POST("/address/encode", h.EncodeAddress)
	rg.POST("/multisig", h.DeriveMultisig)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("/derive", h.DeriveAccount)
		accounts.GET("/:address/balance", h.Balance)
	}

	rg.GET("/chain/height", h.ChainHeight)

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.CreateTransfer)
		transfers.POST("/:txid/send", h.SendTransfer)
	}
}

func RegisterExplorerRoutes(rg *gin.RouterGroup, h *handler.WalletHandler) {
	explorer := rg.Group("/explorer")
	{
		explorer.GET("/transfers", h.ListTransfers)
		explorer.GET("/extrinsics/:hash", h.TransferByHash)
	}
}
