package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"dot-wallet/pkg/chain"
	"dot-wallet/pkg/txbuilder"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
)

var broadcastCmd = &cobra.Command{
	Use:   "broadcast",
	Short: "广播已签名的交易",
	Long:  `读取 transfer 命令输出的已签名交易文件，并提交到节点。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile, _ := cmd.Flags().GetString("input")
		rpcURL, _ := cmd.Flags().GetString("rpc")

		// 1. 读取 Signed Tx
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("读取文件失败: %w", err)
		}
		var signed txbuilder.SignedTransfer
		if err := json.Unmarshal(data, &signed); err != nil {
			return fmt.Errorf("解析文件失败: %w", err)
		}
		raw, err := hexutil.Decode(signed.TxHex)
		if err != nil {
			return fmt.Errorf("txHex 格式错误: %w", err)
		}

		// 2. 连接节点
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "正在连接 RPC: %s ...\n", rpcURL)
		client, err := chain.Dial(ctx, rpcURL)
		if err != nil {
			return err
		}
		defer client.Close()

		// 3. 广播
		fmt.Fprintf(out, "正在广播交易 %s ...\n", signed.TxID)
		hash, err := client.Broadcast(ctx, raw)
		if err != nil {
			return fmt.Errorf("❌ 广播失败: %w", err)
		}

		fmt.Fprintf(out, "✅ 广播成功!\n")
		fmt.Fprintf(out, "Tx URL: https://polkadot.subscan.io/extrinsic/%s\n", hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(broadcastCmd)
	broadcastCmd.Flags().StringP("input", "i", "signed.json", "已签名的交易文件")
	broadcastCmd.Flags().String("rpc", defaultRPC, "RPC 节点地址")
}
