package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"pastaa/internal/keychain"
)

// profile save/show: manage the encrypted local profile.
func profileCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "profile",
		Short: "Save or show the local chat profile",
	}

	var (
		passphrase string
		username   string
		pin        string
	)
	save := &cobra.Command{
		Use:   "save",
		Short: "Encrypt and save the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if username == "" {
				return fmt.Errorf("username required")
			}
			return wire.Keychain.Save(passphrase, keychain.Profile{
				Username:         username,
				ServerSigningKey: pin,
			})
		},
	}
	save.Flags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect the profile")
	save.Flags().StringVar(&username, "username", "", "display name for chat")
	save.Flags().StringVar(&pin, "pin", "", "hex server signing key to pin")

	var showPassphrase string
	show := &cobra.Command{
		Use:   "show",
		Short: "Decrypt and print the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showPassphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			p, err := wire.Keychain.Load(showPassphrase)
			if err != nil {
				return err
			}
			fmt.Printf("username: %s\n", p.Username)
			if p.ServerSigningKey != "" {
				fmt.Printf("pinned server key: %s\n", p.ServerSigningKey)
			}
			return nil
		},
	}
	show.Flags().StringVarP(&showPassphrase, "passphrase", "p", "", "passphrase to unlock the profile")

	root.AddCommand(save, show)
	return root
}
