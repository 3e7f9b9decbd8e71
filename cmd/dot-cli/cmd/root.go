package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagFormat uint16
	flagScheme string
)

// rootCmd 代表基础命令，没有子命令时直接调用
var rootCmd = &cobra.Command{
	Use:   "dot-cli",
	Short: "Polkadot 钱包命令行工具",
	Long: `一个用 Go 语言编写的 Polkadot / Substrate 钱包工具。
支持生成助记词与加密 Keystore、硬派生账户、SS58 地址校验、多签地址计算以及构建签名转账。`,
	SilenceUsage: true,
}

// Execute 将所有子命令添加到根命令并设置标志
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// 全局标志
	rootCmd.PersistentFlags().Uint16VarP(&flagFormat, "format", "f", 0, "SS58 地址格式: 0 Polkadot, 2 Kusama, 42 Substrate")
	rootCmd.PersistentFlags().StringVar(&flagScheme, "scheme", "ed25519", "签名算法: ed25519 / ecdsa")
}
