package cmd

import (
	"errors"
	"fmt"
	"os"

	"dot-wallet/pkg/keyring"
	"dot-wallet/pkg/keystore"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// addKeyFlags 需要私钥的命令共用: --uri 优先, 否则读取 keystore
func addKeyFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("keystore", "k", "wallet.json", "Keystore 文件路径")
	cmd.Flags().String("uri", "", "密钥 URI, 例如 \"//Alice\" 或 \"<助记词>//hot///password\" (仅用于测试)")
}

// loadKeypair 解析根密钥
func loadKeypair(cmd *cobra.Command) (keyring.Keypair, error) {
	scheme, err := keyring.ParseScheme(flagScheme)
	if err != nil {
		return nil, err
	}
	provider := keyring.NewProvider(scheme)

	if uri, _ := cmd.Flags().GetString("uri"); uri != "" {
		return provider.FromURI(uri)
	}

	// 1. 加载 Keystore
	keystoreFile, _ := cmd.Flags().GetString("keystore")
	kf, err := keystore.LoadFromFile(keystoreFile)
	if err != nil {
		return nil, fmt.Errorf("加载 Keystore 失败: %w", err)
	}
	if kf.Meta.Scheme != "" && kf.Meta.Scheme != string(scheme) {
		return nil, fmt.Errorf("Keystore 使用 %s 创建, 请指定 --scheme %s", kf.Meta.Scheme, kf.Meta.Scheme)
	}

	// 2. 输入密码并解密
	password, err := readPassword(cmd, "请输入 Keystore 密码: ")
	if err != nil {
		return nil, err
	}
	mnemonic, err := keystore.Decrypt(kf, password)
	if err != nil {
		return nil, fmt.Errorf("解密失败 (密码错误?): %w", err)
	}
	return provider.FromURI(mnemonic)
}

// readPassword 终端下不回显; 非终端 (管道) 时按行读取
func readPassword(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var line string
		if _, err := fmt.Fscanln(cmd.InOrStdin(), &line); err != nil {
			return "", errors.New("读取密码失败")
		}
		return line, nil
	}
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("读取密码失败: %w", err)
	}
	return string(b), nil
}
