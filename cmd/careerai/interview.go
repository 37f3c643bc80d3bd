package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/PabloGalante/careerai/internal/app/flows"
	"github.com/PabloGalante/careerai/internal/app/interview"
	"github.com/PabloGalante/careerai/internal/config"
	"github.com/PabloGalante/careerai/internal/domain"
	"github.com/PabloGalante/careerai/internal/observability"
	"github.com/PabloGalante/careerai/internal/report"
)

const (
	endCommand  = "/end"
	quitCommand = "/quit"
)

func newInterviewCommand(cfg *config.Config) *cobra.Command {
	var (
		roleContext string
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Run a mock interview in the terminal",
		Long: `Runs a mock interview against the configured model.

Type your answer and press enter. Multi-line answers are not supported.
Type /end to finish early and get the report, or /quit to leave without one.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !verbose {
				observability.SetOutput(io.Discard)
			}

			d, err := buildDeps(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer d.Close()

			sess := interview.NewSession(flowsResponder(d))
			return runInterview(cmd.Context(), sess, roleContext, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&roleContext, "context", "c", "", "role or job description to interview for (prompted if empty)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print JSON logs to stdout")
	return cmd
}

func flowsResponder(d *deps) domain.Responder {
	return flows.NewInterviewResponder(d.registry)
}

// runInterview drives one session from a line-oriented reader. A failed
// answer can be typed again: the session rolls it back.
func runInterview(ctx context.Context, sess *interview.Session, roleContext string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	interviewer := color.New(color.FgCyan, color.Bold)
	prompt := color.New(color.FgGreen)

	readLine := func(label string) (string, bool) {
		prompt.Fprint(out, label)
		if !scanner.Scan() {
			return "", false
		}
		return strings.TrimSpace(scanner.Text()), true
	}

	for strings.TrimSpace(roleContext) == "" {
		line, ok := readLine("Role or job description: ")
		if !ok {
			return errors.New("no interview context given")
		}
		roleContext = line
	}

	turn, err := sess.Start(ctx, roleContext)
	if err != nil {
		return fmt.Errorf("start interview: %w", err)
	}

	for {
		interviewer.Fprintf(out, "\nInterviewer: ")
		fmt.Fprintln(out, turn.Text)

		if sess.Status() == domain.StatusClosed {
			printReport(out, sess.Report())
			return nil
		}

		line, ok := readLine("\nYou: ")
		if !ok || line == quitCommand {
			fmt.Fprintln(out, color.YellowString("Interview abandoned."))
			return nil
		}

		if line == endCommand {
			turn, err = sess.End(ctx)
		} else {
			turn, err = sess.Submit(ctx, line)
		}

		switch {
		case err == nil:
		case errors.Is(err, domain.ErrEmptyTurn):
			fmt.Fprintln(out, color.YellowString("Please type an answer, or /end to finish."))
			turn = lastInterviewerTurn(sess)
		case errors.Is(err, domain.ErrResponderFailed):
			fmt.Fprintf(out, "%s %v\n", color.RedString("✗"), err)
			fmt.Fprintln(out, color.YellowString("Your answer was not recorded; please try again."))
			turn = lastInterviewerTurn(sess)
		default:
			return err
		}
	}
}

func lastInterviewerTurn(sess *interview.Session) domain.Turn {
	turns := sess.Transcript()
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == domain.RoleInterviewer {
			return turns[i]
		}
	}
	return domain.Turn{}
}

func printReport(out io.Writer, markdown string) {
	fmt.Fprintf(out, "\n%s\n", color.GreenString("✓ Interview complete"))

	r := report.Parse(markdown)
	if len(r.Sections) == 0 {
		fmt.Fprintln(out, color.YellowString("The interviewer did not return a report."))
		return
	}
	for _, s := range r.Sections {
		if s.Title != "" {
			fmt.Fprintf(out, "\n%s\n", color.New(color.FgMagenta, color.Bold).Sprint(s.Title))
		}
		fmt.Fprintln(out, s.Body)
	}
}
