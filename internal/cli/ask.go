package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/r9s-ai/echopal-relay/internal/relay"
)

type askOptions struct {
	url     string
	timeout time.Duration
}

func newAskCmd() *cobra.Command {
	opts := askOptions{}
	cmd := &cobra.Command{
		Use:   "ask <prompt...>",
		Short: "Send a prompt to a running relay and print Pip's answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.Context(), cmd.OutOrStdout(), opts, strings.Join(args, " "))
		},
	}
	def := strings.TrimSpace(os.Getenv("ECHOPAL_URL"))
	if def == "" {
		def = defaultRelayURL
	}
	fs := cmd.Flags()
	fs.StringVar(&opts.url, "url", def, "relay base url (env ECHOPAL_URL)")
	fs.DurationVar(&opts.timeout, "timeout", 60*time.Second, "request timeout")
	return cmd
}

func runAsk(ctx context.Context, out io.Writer, opts askOptions, prompt string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	body, err := json.Marshal(relay.AskRequest{Prompt: prompt})
	if err != nil {
		return err
	}
	endpoint := strings.TrimRight(strings.TrimSpace(opts.url), "/") + "/ask-ai"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	hc := &http.Client{Timeout: opts.timeout}
	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("ask relay: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read relay response: %w", err)
	}
	var reply struct {
		Response *string `json:"response"`
		Error    *string `json:"error"`
	}
	if err := json.Unmarshal(raw, &reply); err != nil {
		return fmt.Errorf("decode relay response (status %d): %w", resp.StatusCode, err)
	}

	r := lipgloss.NewRenderer(out)
	switch {
	case reply.Error != nil:
		fmt.Fprintln(out, r.NewStyle().Foreground(lipgloss.Color("9")).Render("error: "+*reply.Error))
		return fmt.Errorf("relay responded with status %d", resp.StatusCode)
	case reply.Response != nil:
		label := r.NewStyle().Bold(true).Foreground(lipgloss.Color("10")).Render("Pip:")
		fmt.Fprintln(out, label+" "+*reply.Response)
		return nil
	default:
		return errors.New("relay response has neither response nor error")
	}
}
