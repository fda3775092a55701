package cli

import (
	"github.com/spf13/cobra"

	"github.com/Vladimir7280/catbuffer-typescript-sub001/address"
	"github.com/Vladimir7280/catbuffer-typescript-sub001/model"
)

func (a *app) addressCommand() *cobra.Command {
	var network string
	cmd := &cobra.Command{
		Use:   "address <public-key-hex>",
		Short: "Derive the address of a public key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pk, err := model.ParsePublicKey(args[0])
			if err != nil {
				return err
			}
			nt, err := a.cfg.NetworkType()
			if network != "" {
				nt, err = model.ParseNetworkType(network)
			}
			if err != nil {
				return err
			}
			addr, err := address.FromPublicKey(pk, nt)
			if err != nil {
				return err
			}
			return a.render(cmd.OutOrStdout(), map[string]any{
				"address":    address.Encode(addr),
				"hex":        addr.String(),
				"network":    nt.String(),
				"public_key": pk.String(),
			})
		},
	}
	cmd.Flags().StringVarP(&network, "network", "n", "", "network name or byte (default from config)")
	return cmd
}
