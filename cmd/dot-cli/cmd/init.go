package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"dot-wallet/pkg/bip39"
	"dot-wallet/pkg/keyring"
	"dot-wallet/pkg/keystore"
	"dot-wallet/pkg/ss58"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "初始化一个新的钱包 (生成助记词并加密保存)",
	Long:  `生成新的 BIP-39 助记词，并使用用户输入的密码进行加密，保存为 wallet.json 文件。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outputFile, _ := cmd.Flags().GetString("output")
		name, _ := cmd.Flags().GetString("name")
		words, _ := cmd.Flags().GetInt("words")
		if _, err := os.Stat(outputFile); err == nil {
			return fmt.Errorf("文件 %s 已存在。请先删除或指定其他文件名", outputFile)
		}
		scheme, err := keyring.ParseScheme(flagScheme)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "正在初始化新钱包...")
		fmt.Fprintln(out, "请设置一个强密码来保护您的助记词。")

		// 1. 输入密码
		password, err := readPassword(cmd, "输入密码: ")
		if err != nil {
			return err
		}
		confirm, err := readPassword(cmd, "确认密码: ")
		if err != nil {
			return err
		}
		if password != confirm {
			return errors.New("两次输入的密码不一致")
		}
		if len(password) < 6 {
			return errors.New("密码长度至少需要 6 位")
		}

		// 2. 生成助记词
		bitSize := 128
		if words == 24 {
			bitSize = 256
		}
		mnemonic, err := bip39.NewMnemonicService().GenerateMnemonic(bitSize)
		if err != nil {
			return fmt.Errorf("生成助记词失败: %w", err)
		}
		root, err := keyring.NewProvider(scheme).FromMnemonic(mnemonic, "")
		if err != nil {
			return err
		}
		address, err := root.Address(ss58.Format(flagFormat))
		if err != nil {
			return err
		}

		// 3. 加密
		fmt.Fprintln(out, "正在加密保存...")
		kf, err := keystore.Encrypt(mnemonic, password, address, keystore.Meta{
			Name:   name,
			Scheme: string(scheme),
			Format: flagFormat,
		}, keystore.StandardScrypt)
		if err != nil {
			return fmt.Errorf("加密失败: %w", err)
		}

		// 4. 保存
		if err := kf.SaveToFile(outputFile); err != nil {
			return fmt.Errorf("保存文件失败: %w", err)
		}

		fmt.Fprintf(out, "\n✅ 钱包已初始化！\n")
		fmt.Fprintf(out, "文件位置: %s\n", outputFile)
		fmt.Fprintf(out, "根地址:   %s\n", address)
		fmt.Fprintf(out, "您的 ID:  %s\n", kf.Id)
		fmt.Fprintln(out, "\n⚠️  警告: 请务必记住您的密码！如果丢失密码，您将无法恢复钱包。")

		// 询问是否显示助记词
		fmt.Fprint(out, "\n是否需要现在显示助记词以便备份? (y/N): ")
		input, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		input = strings.TrimSpace(strings.ToLower(input))
		if input == "y" || input == "yes" {
			fmt.Fprintln(out, "\n---------------------------------------------------")
			fmt.Fprintln(out, "助记词 (请抄写在纸上并安全保管):")
			fmt.Fprintln(out, mnemonic)
			fmt.Fprintln(out, "---------------------------------------------------")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("output", "o", "wallet.json", "输出的 Keystore 文件名")
	initCmd.Flags().String("name", "", "账户备注名")
	initCmd.Flags().Int("words", 12, "助记词数量: 12 / 24")
}
