package commands

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"pastaa/internal/domain"
	"pastaa/internal/envelope"
	"pastaa/internal/reveal"
)

// view <url>: fetch a paste and decrypt it locally. The decryption key
// is taken from the URL fragment, which only ever existed client-side.
func viewCmd() *cobra.Command {
	var (
		password string
		now      bool
	)
	cmd := &cobra.Command{
		Use:   "view <url>",
		Short: "Fetch a paste by URL and decrypt it locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shortID, key, err := parseShareURL(args[0])
			if err != nil {
				return err
			}

			rec, err := wire.Pastes.GetPasteByShortID(cmd.Context(), shortID)
			if err != nil {
				return err
			}

			if rec.HasPassword && password == "" {
				return fmt.Errorf("paste is password protected, use --password")
			}

			plaintext, err := envelope.Open(rec, key, password)
			if err != nil {
				return err
			}

			// Gate the plaintext behind a scratch gesture so it is not
			// dumped into scrollback by accident. Completion fires one
			// delete; the server's Delete is idempotent, so this is
			// safe on top of its consume-on-read.
			if rec.BurnAfterReading && !now {
				r := reveal.New(func() {
					fmt.Println(plaintext)
					if err := wire.Pastes.DeletePaste(cmd.Context(), rec.ID); err != nil {
						fmt.Fprintf(os.Stderr, "delete failed: %v\n", err)
					}
				})
				return scratchReveal(os.Stdin, r)
			}
			fmt.Println(plaintext)
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "password for the second encryption layer")
	cmd.Flags().BoolVar(&now, "now", false, "skip the reveal gesture for burned pastes")
	return cmd
}

// delete <id>: remove a paste from the server.
func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <url-or-id>",
		Short: "Remove a paste from the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if strings.Contains(id, "/") {
				shortID, _, err := parseShareURL(id)
				if err != nil {
					return err
				}
				rec, err := wire.Pastes.GetPasteByShortID(cmd.Context(), shortID)
				if err != nil {
					return err
				}
				id = rec.ID
			}
			if err := wire.Pastes.DeletePaste(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Println("deleted")
			return nil
		},
	}
}

// parseShareURL splits a share URL into its short id and fragment key.
// A bare short id with an attached fragment also works.
func parseShareURL(raw string) (shortID, key string, err error) {
	if !strings.Contains(raw, "/") {
		id, frag, ok := strings.Cut(raw, "#")
		if !ok || id == "" || frag == "" {
			return "", "", fmt.Errorf("%w: expected <short-id>#<key> or a share URL", domain.ErrInvalidRequest)
		}
		return id, frag, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 2 || parts[0] != "v" || parts[1] == "" || u.Fragment == "" {
		return "", "", fmt.Errorf("%w: expected .../v/<short-id>#<key>", domain.ErrInvalidRequest)
	}
	return parts[1], u.Fragment, nil
}

// scratchReveal drives the reveal a press at a time until it completes
// and the completion callback fires.
func scratchReveal(in io.Reader, r *reveal.Reveal) error {
	reader := bufio.NewReader(in)
	fmt.Fprintln(os.Stderr, "burn-after-reading paste: press Enter to scratch, it will not be shown again")
	for !r.Done() {
		if _, err := reader.ReadString('\n'); err != nil {
			return err
		}
		r.Advance(0.34)
		if !r.Done() {
			fmt.Fprintf(os.Stderr, "scratched %.0f%%\n", r.Progress()*100)
		}
	}
	return nil
}
