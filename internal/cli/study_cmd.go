package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"neon_quizlet/internal/model"
	"neon_quizlet/internal/session"
	"neon_quizlet/internal/stats"

	"github.com/spf13/cobra"
)

// errQuit は学習の途中で q が入力されたことを表します
var errQuit = errors.New("quit")

func newStudyCommand(state *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "study <moduleID> <flashcards|quiz|writing>",
		Short: "Study a module interactively",
		Long: `Study a module in one of three modes:
  flashcards  reveal each definition and say whether you knew it
  quiz        pick the right definition out of up to four options
  writing     type the definition (case and surrounding spaces are ignored)

Type q at any prompt to stop. Learned terms are saved as you go; the score is
recorded only when every card has been answered.`,
		Args: exactArgs(2, "moduleID", "mode"),
		RunE: withLogging(state, func(ctx context.Context, app *App, cmd *cobra.Command, args []string) error {
			engine := app.NewEngine()
			defer engine.Close()

			if err := engine.Start(ctx, args[0], args[1]); err != nil {
				if errors.Is(err, model.ErrInvalidMode) {
					return usageError("unknown study mode %q (use flashcards, quiz, or writing)", args[1])
				}
				return emptyModuleError(err)
			}
			s := &studyLoop{
				engine: engine,
				in:     bufio.NewReader(cmd.InOrStdin()),
				out:    cmd.OutOrStdout(),
			}
			return s.run(ctx)
		}),
	}
}

// emptyModuleError は用語のないモジュールを案内付きのエラーにします
func emptyModuleError(err error) error {
	if errors.Is(err, model.ErrEmptyModule) {
		return model.NewAppError("EMPTY_MODULE", "This module has no terms yet. Add some with 'term add' first.", "", err)
	}
	return err
}

type studyLoop struct {
	engine *session.Engine
	in     *bufio.Reader
	out    io.Writer
}

func (s *studyLoop) run(ctx context.Context) error {
	snap := s.engine.Snapshot()
	fmt.Fprintf(s.out, "%s - %s (%d cards). Type q to quit.\n", snap.ModuleTitle, snap.Mode, snap.Total)

	for {
		if err := s.engine.WaitIdle(ctx); err != nil {
			s.engine.Finish()
			return err
		}
		snap := s.engine.Snapshot()

		var err error
		switch {
		case snap.Completed:
			s.printResult(snap)
			if !s.askRestart() {
				return nil
			}
			if err := s.engine.WaitIdle(ctx); err != nil {
				return err
			}
			restarted, err := s.engine.Restart()
			if err != nil {
				return emptyModuleError(err)
			}
			if !restarted {
				return errors.New("study: restart was not accepted")
			}
			fmt.Fprintln(s.out)
			continue
		case snap.Answered:
			if !s.engine.Next() {
				return errors.New("study: could not move to the next card")
			}
			continue
		case snap.Item == nil:
			return errors.New("study: session has no current card")
		}

		fmt.Fprintf(s.out, "\n[%d/%d] %s\n", snap.Index+1, snap.Total, snap.Item.Term.Term)
		switch snap.Mode {
		case model.ModeFlashcards:
			err = s.flashcard(snap)
		case model.ModeQuiz:
			err = s.quiz(snap)
		case model.ModeWriting:
			err = s.writing(snap)
		}
		if errors.Is(err, errQuit) {
			s.engine.Finish()
			fmt.Fprintln(s.out, "Session ended. Learned terms were saved; no score was recorded.")
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// ask は1行読みます。q か入力の終わりなら errQuit
func (s *studyLoop) ask(label string) (string, error) {
	line, ok := prompt(s.in, s.out, label)
	if !ok || strings.EqualFold(strings.TrimSpace(line), "q") {
		return "", errQuit
	}
	return line, nil
}

func (s *studyLoop) flashcard(snap session.Snapshot) error {
	if _, err := s.ask("Press Enter to reveal the definition: "); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "  %s\n", snap.Item.Term.Definition)
	for {
		line, err := s.ask("Did you know it? [y/n]: ")
		if err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return s.submit(func() (bool, error) { return s.engine.AnswerFlashcard(true) }, "")
		case "n", "no":
			return s.submit(func() (bool, error) { return s.engine.AnswerFlashcard(false) }, "")
		}
	}
}

func (s *studyLoop) quiz(snap session.Snapshot) error {
	q := snap.Item.Question
	for i, opt := range q.Options {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, opt)
	}
	for {
		line, err := s.ask(fmt.Sprintf("Your answer [1-%d]: ", len(q.Options)))
		if err != nil {
			return err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr != nil || n < 1 || n > len(q.Options) {
			fmt.Fprintf(s.out, "Enter a number from 1 to %d.\n", len(q.Options))
			continue
		}
		return s.submit(func() (bool, error) { return s.engine.AnswerQuiz(n - 1) }, q.Options[q.CorrectIndex])
	}
}

func (s *studyLoop) writing(snap session.Snapshot) error {
	for {
		line, err := s.ask("Definition: ")
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			fmt.Fprintln(s.out, "Type an answer, or q to quit.")
			continue
		}
		return s.submit(func() (bool, error) { return s.engine.AnswerWriting(line) }, snap.Item.Term.Definition)
	}
}

// submit は回答を送り、結果を表示します。answer が空でなければ不正解のときに正解を出します
func (s *studyLoop) submit(fn func() (bool, error), answer string) error {
	accepted, err := fn()
	if err != nil {
		return err
	}
	if !accepted {
		return nil
	}
	snap := s.engine.Snapshot()
	switch {
	case snap.Mode == model.ModeFlashcards:
	case snap.LastCorrect:
		fmt.Fprintln(s.out, "Correct!")
	case answer != "":
		fmt.Fprintf(s.out, "Incorrect. The answer is: %s\n", answer)
	default:
		fmt.Fprintln(s.out, "Incorrect.")
	}
	return nil
}

func (s *studyLoop) printResult(snap session.Snapshot) {
	fmt.Fprintln(s.out, "\nSession complete!")
	fmt.Fprintf(s.out, "Score: %d%% (%d/%d correct)\n", snap.Score, snap.CorrectAnswers, snap.Total)
	fmt.Fprintf(s.out, "Time:  %s\n", formatSeconds(snap.TimeSpent))
}

func (s *studyLoop) askRestart() bool {
	line, err := s.ask("Study again? [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func formatSeconds(seconds int) string {
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	return stats.FormatDuration(seconds)
}
