package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/garyellow/casmate/internal/bot"
	"github.com/garyellow/casmate/internal/engine"
	"github.com/garyellow/casmate/internal/nlu"
)

var explain bool

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question and exit",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, cfg, err := loadEngine(cmd.Context())
		if err != nil {
			return err
		}
		question := strings.Join(args, " ")
		p := bot.NewProcessor(bot.ProcessorConfig{
			Engines:          engine.NewStaticHolder(e),
			Logger:           newLogger(cfg),
			FinanceOfficeURL: cfg.FinanceOfficeURL,
		})

		out := cmd.OutOrStdout()
		reply := p.ProcessMessage(cmd.Context(), "cli", question)
		printReply(out, reply)
		if explain {
			_, _ = fmt.Fprintln(out)
			renderExplain(out, e, question)
		}
		return nil
	},
}

func init() {
	askCmd.Flags().BoolVar(&explain, "explain", false, "show intent, entities and resolution")
}

func printReply(w io.Writer, r bot.Reply) {
	_, _ = fmt.Fprintln(w, r.Text)
	for i, s := range r.Suggestions {
		_, _ = fmt.Fprintf(w, "  %d) %s %s (score %d)\n", i+1, s.Code, s.Title, s.Score)
	}
	if r.FollowUp != "" {
		_, _ = fmt.Fprintln(w, r.FollowUp)
	}
}

// renderExplain prints how the engine read the question.
func renderExplain(w io.Writer, e *engine.Engine, question string) {
	start := time.Now()
	intent, rule := e.Classifier.Explain(question)
	ents := e.Extractor.Extract(question)
	course := e.Resolver.ResolveCourse(question, ents)
	prog := e.Resolver.ResolveProgram(question, ents)
	elapsed := time.Since(start)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Step", "Result"})
	table.SetAutoWrapText(false)
	table.Append([]string{"intent", intent.String() + " (" + rule + ")"})
	table.Append([]string{"program", mention(ents.Program)})
	table.Append([]string{"course code", orDash(ents.CourseCode)})
	table.Append([]string{"code candidates", orDash(strings.Join(ents.CodeCandidates, ", "))})
	table.Append([]string{"course title", mention(ents.CourseTitle)})
	table.Append([]string{"department", mention(ents.Department)})
	table.Append([]string{"year / term", numOrDash(ents.Year) + " / " + numOrDash(ents.Term)})

	resolved := "-"
	if course.Course != nil {
		resolved = course.Course.Label()
	}
	table.Append([]string{"course match", fmt.Sprintf("%s via %s, score %d", resolved, course.Match, course.Score)})
	if course.Ambiguous || len(course.Candidates) > 0 {
		parts := make([]string, len(course.Candidates))
		for i, c := range course.Candidates {
			parts[i] = fmt.Sprintf("%s %s (%d)", c.Code, c.Title, c.Score)
		}
		table.Append([]string{"candidates", strings.Join(parts, "; ")})
	}

	progName := "-"
	if prog.Program != nil {
		progName = prog.Program.Name
	}
	table.Append([]string{"program match", fmt.Sprintf("%s via %s, score %d", progName, orDash(string(prog.Via)), prog.Score)})
	table.Append([]string{"elapsed", elapsed.String()})
	table.Render()
}

func mention(m *nlu.Mention) string {
	if m == nil {
		return "-"
	}
	s := m.Name + " [" + m.ID + "] from \"" + m.Phrase + "\""
	if m.Alias {
		s += " (alias)"
	}
	return s
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func numOrDash(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}
