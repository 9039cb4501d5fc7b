package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/0xcro3dile/faqbot-go/internal/app"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Load the dataset and answer one question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

var askExplain bool

func init() {
	askCmd.Flags().BoolVarP(&askExplain, "explain", "e", false, "print where the reply came from")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("warn")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	e, err := app.NewEngine(cfg, log)
	if err != nil {
		return err
	}
	// A failed load is logged; the question still gets a category reply.
	_, _ = e.Dataset.Load(context.Background())

	turn := e.Chatbot.Respond(strings.Join(args, " "))
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, turn.Reply.Text)

	if askExplain {
		if turn.Reply.Match {
			fmt.Fprintf(out, "%s(source: %s, score: %.3f)%s\n",
				colorGray, turn.Reply.Source, turn.Reply.Score, colorReset)
		} else {
			fmt.Fprintf(out, "%s(source: %s)%s\n", colorGray, turn.Reply.Source, colorReset)
		}
	}
	return nil
}
