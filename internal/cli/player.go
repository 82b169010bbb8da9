package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player identity commands",
	}

	cmd.AddCommand(newPlayerCreateCmd())
	cmd.AddCommand(newPlayerShowCmd())

	return cmd
}

func newPlayerCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Request a new player identity from the server",
		Long: `Ask the server to issue a new player identity.

The server generates a keypair, keeps the private key, and returns the
handle and public key. They are saved to the local keystore and used to
build encrypted proofs for view and fire requests.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Identity

			if err := client.Post("/api/v1/players", nil, &result); err != nil {
				return err
			}

			if err := cfg.SaveIdentity(StoredIdentity{
				Handle:    result.Handle,
				PublicKey: result.PublicKey,
			}); err != nil {
				return fmt.Errorf("failed to save identity: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the locally stored identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := cfg.LoadIdentity()
			if err != nil {
				return err
			}
			if id == nil {
				return fmt.Errorf("no stored identity, run 'player create' first")
			}

			out := NewOutput(cfg.Output)
			out.Print(Identity{Handle: id.Handle, PublicKey: id.PublicKey})
			return nil
		},
	}
}
