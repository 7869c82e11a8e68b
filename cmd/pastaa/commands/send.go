package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"pastaa/internal/envelope"
)

// send [file]: encrypt a paste and print its share URL. Reads stdin
// when no file is given.
func sendCmd() *cobra.Command {
	var (
		password string
		burn     bool
		expires  time.Duration
	)
	cmd := &cobra.Command{
		Use:   "send [file]",
		Short: "Encrypt a paste locally and print its share URL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return err
			}
			if len(raw) == 0 {
				return fmt.Errorf("nothing to send")
			}

			sealed, err := envelope.Seal(string(raw), envelope.Options{
				Password:         password,
				BurnAfterReading: burn,
				ExpiresIn:        expires,
			})
			if err != nil {
				return err
			}

			created, err := wire.Pastes.CreatePaste(cmd.Context(), sealed.Create)
			if err != nil {
				return err
			}

			// The key rides in the fragment, which never reaches the
			// server.
			fmt.Printf("%s/v/%s#%s\n", serverURL, created.ShortID, sealed.FragmentKey)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "add a password layer on top of the URL key")
	cmd.Flags().BoolVar(&burn, "burn", false, "delete the paste after its first read")
	cmd.Flags().DurationVar(&expires, "expires", 0, "expiry, e.g. 24h (default never)")
	return cmd
}
