package cmd

import (
	"fmt"

	"dot-wallet/pkg/ss58"

	"github.com/spf13/cobra"
)

var addressCmd = &cobra.Command{
	Use:   "address [path...]",
	Short: "派生账户地址",
	Long: `从 Keystore (或 --uri) 的根密钥按硬派生路径派生账户，例如:
  dot-cli address //hot//0 //hot//1 --format 0`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := loadKeypair(cmd)
		if err != nil {
			return err
		}
		if len(args) == 0 {
			args = []string{""}
		}

		out := cmd.OutOrStdout()
		for _, path := range args {
			kp := root
			if path != "" {
				if kp, err = root.Derive(path); err != nil {
					return fmt.Errorf("派生 %s 失败: %w", path, err)
				}
			}
			addr, err := kp.Address(ss58.Format(flagFormat))
			if err != nil {
				return err
			}
			label := path
			if label == "" {
				label = "(root)"
			}
			fmt.Fprintf(out, "%-12s %s %s\n", label, addr, kp.PublicKey().Hex())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
	addKeyFlags(addressCmd)
}
