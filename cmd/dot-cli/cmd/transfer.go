package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"dot-wallet/pkg/chain"
	"dot-wallet/pkg/errno"
	"dot-wallet/pkg/ss58"
	"dot-wallet/pkg/txbuilder"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const defaultRPC = "wss://rpc.polkadot.io"

// transferCmd 在线构建 + 签名; 默认只输出 signed.json, 由 broadcast 命令广播
var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "构建并签名转账",
	Long: `从节点读取 nonce 与运行时版本，构建 transfer_keep_alive 并签名，输出 signed.json。
加 --send 时直接广播。金额单位为 DOT, 加 --planck 时按最小单位解析。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("path")
		to, _ := cmd.Flags().GetString("to")
		amount, _ := cmd.Flags().GetString("amount")
		planck, _ := cmd.Flags().GetBool("planck")
		decimals, _ := cmd.Flags().GetInt32("decimals")
		rpcURL, _ := cmd.Flags().GetString("rpc")
		checkBalance, _ := cmd.Flags().GetBool("check-balance")
		send, _ := cmd.Flags().GetBool("send")
		outputFile, _ := cmd.Flags().GetString("output")
		pallet, _ := cmd.Flags().GetUint8("pallet")
		call, _ := cmd.Flags().GetUint8("call")

		// 0. 按网络选择 Balances pallet, 未内置的网络必须指定 --pallet
		cfg, known := txbuilder.ConfigForFormat(ss58.Format(flagFormat))
		if cmd.Flags().Changed("pallet") {
			cfg.PalletIndex = pallet
		} else if !known {
			return fmt.Errorf("%w: 格式 %d 没有内置的 Balances pallet 序号, 请用 --pallet 指定", errno.ErrUnsupportedFormat, flagFormat)
		}
		if cmd.Flags().Changed("call") {
			cfg.CallIndex = call
		}

		// 1. 金额换算
		if !planck {
			d, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("金额格式错误: %w", err)
			}
			v, err := chain.ToPlanck(d, decimals)
			if err != nil {
				return err
			}
			amount = v.String()
		}

		// 2. 派生发送方
		root, err := loadKeypair(cmd)
		if err != nil {
			return err
		}
		kp := root
		if path != "" {
			if kp, err = root.Derive(path); err != nil {
				return err
			}
		}

		// 3. 连接节点
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

		// 4. 构建签名
		signed, err := txbuilder.New(client, cfg).Build(ctx, kp, to, amount, txbuilder.Options{
			CheckBalance: checkBalance,
			Send:         send,
		})
		if err != nil {
			return err
		}

		// 显示交易详情供用户确认
		d := signed.TxData
		fmt.Fprintln(out, "\n================ 已签名交易 ================")
		fmt.Fprintf(out, "From:       %s\n", d.From)
		fmt.Fprintf(out, "To:         %s\n", d.To)
		fmt.Fprintf(out, "Amount:     %s planck\n", d.Amount)
		fmt.Fprintf(out, "Nonce:      %d\n", d.Nonce)
		fmt.Fprintf(out, "TxID:       %s\n", signed.TxID)
		fmt.Fprintln(out, "============================================")

		if send {
			fmt.Fprintf(out, "✅ 广播成功! Hash: %s\n", signed.Hash)
			return nil
		}

		// 5. 输出结果
		data, err := json.MarshalIndent(signed, "", "  ")
		if err != nil {
			return fmt.Errorf("序列化结果失败: %w", err)
		}
		if err := os.WriteFile(outputFile, data, 0o644); err != nil {
			return fmt.Errorf("保存结果失败: %w", err)
		}
		fmt.Fprintf(out, "已保存到: %s (使用 broadcast 命令广播)\n", outputFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transferCmd)
	addKeyFlags(transferCmd)
	transferCmd.Flags().String("path", "", "发送方派生路径, 例如 //hot//0")
	transferCmd.Flags().String("to", "", "收款地址")
	transferCmd.Flags().String("amount", "", "金额")
	transferCmd.Flags().Bool("planck", false, "金额按最小单位解析")
	transferCmd.Flags().Int32("decimals", 10, "代币精度")
	transferCmd.Flags().String("rpc", defaultRPC, "RPC 节点地址")
	transferCmd.Flags().Uint8("pallet", 0, "Balances pallet 序号 (默认按 --format 选择: 0→5, 2/42→4)")
	transferCmd.Flags().Uint8("call", 3, "transfer_keep_alive 的 call 序号")
	transferCmd.Flags().Bool("check-balance", false, "签名前检查余额 (余额 >= 金额 + 手续费)")
	transferCmd.Flags().Bool("send", false, "签名后立即广播")
	transferCmd.Flags().StringP("output", "o", "signed.json", "签名后的输出文件路径")
	_ = transferCmd.MarkFlagRequired("to")
	_ = transferCmd.MarkFlagRequired("amount")
}
