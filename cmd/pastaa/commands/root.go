package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pastaa/internal/app"
)

var (
	home      string
	serverURL string
	wire      *app.Wire
)

func Execute() error {
	root := &cobra.Command{
		Use:   "pastaa",
		Short: "End-to-end encrypted pastes and chat",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".pastaa")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			var err error
			wire, err = app.NewWire(app.Config{Home: home, ServerURL: serverURL})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.pastaa)")
	root.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:8080", "server base URL")

	root.AddCommand(sendCmd(), viewCmd(), deleteCmd(), chatCmd(), profileCmd())
	return root.Execute()
}
