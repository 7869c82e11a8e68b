package commands

import (
	"bufio"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pastaa/internal/chat"
	"pastaa/internal/crypto"
)

// leaveTimeout bounds the best-effort leave announcement on shutdown.
const leaveTimeout = 5 * time.Second

// chat <channel>: join an encrypted channel and exchange messages until
// interrupted.
func chatCmd() *cobra.Command {
	var (
		channelPassword string
		username        string
		passphrase      string
		pin             string
	)
	cmd := &cobra.Command{
		Use:   "chat <channel>",
		Short: "Join an encrypted channel and exchange messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if channelPassword == "" {
				return fmt.Errorf("channel password required (--channel-password)")
			}

			// A saved profile supplies the display name and the pinned
			// server signing key; explicit flags win.
			if passphrase != "" && wire.Keychain.Exists() {
				profile, err := wire.Keychain.Load(passphrase)
				if err != nil {
					return err
				}
				if username == "" {
					username = profile.Username
				}
				if pin == "" {
					pin = profile.ServerSigningKey
				}
			}

			if username == "" {
				username = "Anonymous"
			}

			session, err := chat.NewSession(wire.Chat, args[0], channelPassword, username)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			var pinned []byte
			if pin != "" {
				pinned, err = hex.DecodeString(pin)
				if err != nil {
					return fmt.Errorf("invalid server signing key pin: %v", err)
				}
			}
			if err := session.EstablishLayer2(ctx, pinned); err != nil {
				// Layer 3 still protects the content; carry on without
				// the transport wrap.
				fmt.Fprintf(os.Stderr, "transport layer unavailable, continuing without it: %v\n", err)
			}
			if session.Layer2Established() {
				fmt.Fprintln(os.Stderr, "transport layer established")
			}

			events, err := wire.Chat.Events(ctx, session.ChannelHash())
			if err != nil {
				return err
			}
			if err := session.Join(ctx); err != nil {
				return err
			}
			defer func() {
				leaveCtx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
				defer cancel()
				_ = session.Leave(leaveCtx)
			}()

			fmt.Fprintf(os.Stderr, "joined %s as %s; /members lists the roster, ctrl-c to leave\n", args[0], username)

			go func() {
				for ev := range events {
					msg, err := session.Handle(ctx, ev)
					if err != nil {
						fmt.Fprintf(os.Stderr, "! %v\n", err)
						continue
					}
					if msg != nil {
						fmt.Printf("<%s> %s\n", msg.FromUsername, msg.Text)
					}
				}
			}()

			lines := make(chan string)
			go func() {
				defer close(lines)
				scanner := bufio.NewScanner(os.Stdin)
				for scanner.Scan() {
					lines <- scanner.Text()
				}
			}()

			for {
				select {
				case <-ctx.Done():
					return nil
				case line, ok := <-lines:
					if !ok {
						return nil
					}
					if strings.TrimSpace(line) == "" {
						continue
					}
					if strings.TrimSpace(line) == "/members" {
						for _, m := range session.Members() {
							fmt.Printf("  %s  %s\n", m.Username, crypto.Fingerprint(m.PublicKey.Slice()))
						}
						continue
					}
					if _, err := session.Send(ctx, line); err != nil {
						fmt.Fprintf(os.Stderr, "! send failed: %v\n", err)
					}
				}
			}
		},
	}
	cmd.Flags().StringVar(&channelPassword, "channel-password", "", "shared channel password (derives the group key)")
	cmd.Flags().StringVar(&username, "username", "", "display name (default Anonymous)")
	cmd.Flags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase to unlock the saved profile")
	cmd.Flags().StringVar(&pin, "pin", "", "hex server signing key to verify the transport handshake")
	return cmd
}
