package cmd

import (
	"fmt"

	"dot-wallet/pkg/multisig"
	"dot-wallet/pkg/ss58"

	"github.com/spf13/cobra"
)

var multisigCmd = &cobra.Command{
	Use:   "multisig <member>...",
	Short: "计算多签地址",
	Long: `根据成员地址与阈值计算 Substrate 多签账户地址，成员顺序不影响结果:
  dot-cli multisig -t 2 <addr1> <addr2> <addr3> --format 0`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		threshold, _ := cmd.Flags().GetUint16("threshold")
		addr, err := multisig.DeriveAddressWithFormat(args, threshold, ss58.Format(flagFormat))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "多签地址 (%d/%d): %s\n", threshold, len(args), addr)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(multisigCmd)
	multisigCmd.Flags().Uint16P("threshold", "t", 1, "签名阈值")
}
