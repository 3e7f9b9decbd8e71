package cmd

import (
	"fmt"

	"dot-wallet/pkg/ss58"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <address>",
	Short: "校验 SS58 地址",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, pub, err := ss58.Decode(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("expect") {
			expect, _ := cmd.Flags().GetUint16("expect")
			if _, err := ss58.DecodeExpect(args[0], ss58.Format(expect)); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ 地址有效\n")
		fmt.Fprintf(out, "格式:   %d\n", format)
		fmt.Fprintf(out, "公钥:   %s\n", pub.Hex())
		for _, f := range []ss58.Format{ss58.FormatPolkadot, ss58.FormatKusama, ss58.FormatSubstrate} {
			if f == format {
				continue
			}
			addr, err := ss58.Encode(f, pub)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "[%2d]    %s\n", f, addr)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Uint16("expect", 0, "期望的地址格式, 不指定则接受任意格式")
}
