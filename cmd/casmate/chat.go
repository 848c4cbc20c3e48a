package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/garyellow/casmate/internal/bot"
	"github.com/garyellow/casmate/internal/engine"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant in the terminal",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, cfg, err := loadEngine(cmd.Context())
		if err != nil {
			return err
		}
		sessions := bot.NewSessionStore(bot.SessionConfig{TTL: cfg.SessionTTL})
		defer sessions.Stop()
		p := bot.NewProcessor(bot.ProcessorConfig{
			Engines:          engine.NewStaticHolder(e),
			Sessions:         sessions,
			Logger:           newLogger(cfg),
			FinanceOfficeURL: cfg.FinanceOfficeURL,
		})

		out := cmd.OutOrStdout()
		prompt := color.New(color.FgCyan, color.Bold)
		answer := color.New(color.FgGreen)
		hint := color.New(color.FgYellow)
		muted := color.New(color.Faint)

		_, _ = muted.Fprintf(out, "Catalog: %v. Type \"bye\" or press Ctrl-D to leave.\n", e.Catalog.Stats())
		session := uuid.NewString()
		in := bufio.NewScanner(cmd.InOrStdin())
		for {
			_, _ = prompt.Fprint(out, "you> ")
			if !in.Scan() {
				_, _ = fmt.Fprintln(out)
				return in.Err()
			}
			line := strings.TrimSpace(in.Text())
			if line == "" {
				continue
			}

			start := time.Now()
			reply := p.ProcessMessage(cmd.Context(), session, line)
			_, _ = answer.Fprintln(out, "bot> "+reply.Text)
			for i, s := range reply.Suggestions {
				_, _ = hint.Fprintf(out, "     %d) %s %s\n", i+1, s.Code, s.Title)
			}
			if reply.FollowUp != "" {
				_, _ = answer.Fprintln(out, "bot> "+reply.FollowUp)
			}
			_, _ = muted.Fprintf(out, "     [%s %s %s]\n", reply.Intent, orDash(reply.MatchType), time.Since(start).Round(time.Microsecond))
			if reply.EndOfChat {
				return nil
			}
		}
	},
}
