package cmd

import (
	"encoding/hex"
	"fmt"

	"dot-wallet/pkg/bip39"
	"dot-wallet/pkg/keyring"
	"dot-wallet/pkg/ss58"

	"github.com/spf13/cobra"
)

// newCmd 只打印不保存, 用于测试网或学习
var newCmd = &cobra.Command{
	Use:   "new",
	Short: "创建一个新的钱包 (不保存)",
	Long:  `生成一个新的随机 BIP-39 助记词，并显示 Substrate 种子和各网络下的根地址。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "正在生成新钱包...")
		fmt.Fprintln(out, "---------------------------------------------------")

		// 1. 生成助记词
		mnemonicService := bip39.NewMnemonicService()
		mnemonic, err := mnemonicService.GenerateMnemonic(256) // 24 words
		if err != nil {
			return fmt.Errorf("生成助记词失败: %w", err)
		}
		fmt.Fprintf(out, "助记词 (Mnemonic): \n%s\n", mnemonic)
		fmt.Fprintln(out, "---------------------------------------------------")

		// 2. 生成种子
		seed, err := mnemonicService.MiniSecret(mnemonic, "")
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "种子 (Mini Secret): 0x%s\n", hex.EncodeToString(seed))

		// 3. 根密钥
		scheme, err := keyring.ParseScheme(flagScheme)
		if err != nil {
			return err
		}
		root, err := keyring.NewProvider(scheme).FromSeed(seed)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "公钥 (%s): %s\n", scheme, root.PublicKey().Hex())
		fmt.Fprintln(out, "---------------------------------------------------")

		// 4. 各网络地址
		for _, f := range []struct {
			name   string
			format ss58.Format
		}{
			{"Polkadot", ss58.FormatPolkadot},
			{"Kusama", ss58.FormatKusama},
			{"Substrate", ss58.FormatSubstrate},
		} {
			addr, err := root.Address(f.format)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%-10s [%2d]: %s\n", f.name, f.format, addr)
		}
		fmt.Fprintln(out, "---------------------------------------------------")
		fmt.Fprintln(out, "请妥善保管您的助记词！任何拥有助记词的人都可以控制该钱包的所有资产。")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newCmd)
}
