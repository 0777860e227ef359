package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"neon_quizlet/internal/clock"
	"neon_quizlet/internal/config"
	"neon_quizlet/internal/logging"
	"neon_quizlet/internal/model"
	"neon_quizlet/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// harness は同じメモリ上の KV に対してコマンドを何度も実行します
type harness struct {
	kv     *store.MemoryKV
	cfg    config.Config
	logBuf *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	var cfg config.Config
	cfg.App.FreeModuleLimit = 2
	cfg.App.PremiumDays = 30
	cfg.Study.AnswerSettle = time.Millisecond
	cfg.Study.CompletionDelay = time.Millisecond
	cfg.Study.TransitionDelay = time.Millisecond
	cfg.Study.MinActionGap = time.Millisecond
	return &harness{kv: store.NewMemoryKV(), cfg: cfg, logBuf: new(bytes.Buffer)}
}

func (h *harness) app() *App {
	logger := slog.New(slog.NewJSONHandler(h.logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewApp(h.kv, h.cfg, clock.Real{}, clock.Real{}, logger)
}

func (h *harness) run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	bootstrap := func(ctx context.Context, opts Options) (*App, error) {
		return h.app(), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	code := Execute(ctx, bootstrap, args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func (h *harness) createModule(t *testing.T, title string, terms ...model.TermRequest) *model.Module {
	t.Helper()
	m, err := h.app().Modules.CreateModule(context.Background(), &model.CreateModuleRequest{Title: title, Terms: terms})
	require.NoError(t, err)
	return m
}

func TestModuleCommands(t *testing.T) {
	h := newHarness(t)

	code, out, errOut := h.run(t, "", "module", "create", "--title", "Spanish", "--description", "Basics",
		"--term", "hola=hello", "--term", "adiós=goodbye")
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, `Created module "Spanish"`)
	assert.Contains(t, out, "with 2 terms")

	modules, err := h.app().Modules.ListModules(context.Background())
	require.NoError(t, err)
	require.Len(t, modules, 1)
	id := modules[0].ID

	code, out, _ = h.run(t, "", "module", "list")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "Spanish")
	assert.Contains(t, out, "never")

	code, out, _ = h.run(t, "", "module", "show", id)
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Basics")
	assert.Contains(t, out, "0/2 learned")
	assert.Contains(t, out, "adiós")

	code, out, _ = h.run(t, "", "module", "search", "span")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Spanish")

	code, out, _ = h.run(t, "", "module", "search", "french")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "No modules found.")

	code, out, _ = h.run(t, "", "module", "delete", id)
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Module deleted.")

	code, _, errOut = h.run(t, "", "module", "show", id)
	assert.Equal(t, ExitNotFound, code)
	assert.Contains(t, errOut, "Module not found.")
}

func TestModuleCreate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "タイトルなし", args: []string{"module", "create"}, wantCode: ExitInvalidInput, wantErr: "Title is required."},
		{name: "用語の形式が不正", args: []string{"module", "create", "--title", "x", "--term", "hola"}, wantCode: ExitInvalidInput, wantErr: "term=definition"},
		{name: "定義が空", args: []string{"module", "create", "--title", "x", "--term", "hola="}, wantCode: ExitInvalidInput, wantErr: "Definition is required."},
		{name: "未知のフラグ", args: []string{"module", "create", "--colour", "red"}, wantCode: ExitInvalidInput, wantErr: "--help"},
		{name: "未知のコマンド", args: []string{"modules"}, wantCode: ExitInvalidInput, wantErr: "unknown command"},
		{name: "引数の数が違う", args: []string{"module", "show"}, wantCode: ExitInvalidInput, wantErr: "expects 1 argument"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			code, _, errOut := h.run(t, "", tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}

func TestModuleCreate_FreePlanLimit(t *testing.T) {
	h := newHarness(t)
	code, _, errOut := h.run(t, "", "account", "register", "--name", "Alice", "--email", "alice@example.com", "--password", "secret123")
	require.Equal(t, ExitOK, code, errOut)

	h.createModule(t, "one")
	h.createModule(t, "two")

	code, _, errOut = h.run(t, "", "module", "create", "--title", "three")
	assert.Equal(t, ExitForbidden, code)
	assert.Contains(t, errOut, "The free plan allows up to 2 modules.")

	code, _, _ = h.run(t, "", "account", "upgrade")
	require.Equal(t, ExitOK, code)
	code, _, errOut = h.run(t, "", "module", "create", "--title", "three")
	assert.Equal(t, ExitOK, code, errOut)
}

func TestTermCommands(t *testing.T) {
	h := newHarness(t)
	m := h.createModule(t, "Spanish", model.TermRequest{Term: "hola", Definition: "hello"})

	code, out, errOut := h.run(t, "", "term", "add", m.ID, "gato", "cat")
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, `Added "gato"`)

	got, err := h.app().Modules.GetModule(context.Background(), m.ID)
	require.NoError(t, err)
	require.Len(t, got.Terms, 2)
	termID := got.Terms[1].ID

	code, _, errOut = h.run(t, "", "term", "edit", m.ID, termID, "gato", "a cat")
	require.Equal(t, ExitOK, code, errOut)

	code, _, errOut = h.run(t, "", "term", "rm", m.ID, termID)
	require.Equal(t, ExitOK, code, errOut)

	code, _, errOut = h.run(t, "", "term", "rm", m.ID, termID)
	assert.Equal(t, ExitNotFound, code)
	assert.Contains(t, errOut, "Term not found.")
}

func TestStudyCommand_Writing(t *testing.T) {
	h := newHarness(t)
	m := h.createModule(t, "Pets", model.TermRequest{Term: "cat", Definition: "a feline"})

	code, out, errOut := h.run(t, "\nA Feline \nn\n", "study", m.ID, "writing")
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "[1/1] cat")
	assert.Contains(t, out, "Type an answer")
	assert.Contains(t, out, "Correct!")
	assert.Contains(t, out, "Score: 100% (1/1 correct)")

	st, err := h.app().Modules.GetStats(context.Background(), m.ID)
	require.NoError(t, err)
	require.Len(t, st.StudyHistory, 1)
	assert.Equal(t, model.ModeWriting, st.StudyHistory[0].Mode)
	assert.Equal(t, 1, st.Learned)

	code, out, _ = h.run(t, "", "stats", m.ID)
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Last score: 100%")
	assert.Contains(t, out, "writing")
}

func TestStudyCommand_FlashcardsRestart(t *testing.T) {
	h := newHarness(t)
	m := h.createModule(t, "Pets", model.TermRequest{Term: "dog", Definition: "a canine"})

	code, out, errOut := h.run(t, "\ny\ny\n\nn\nn\n", "study", m.ID, "flashcards")
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "a canine")
	assert.Contains(t, out, "Score: 100% (1/1 correct)")
	assert.Contains(t, out, "Score: 0% (0/1 correct)")

	st, err := h.app().Modules.GetStats(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Len(t, st.StudyHistory, 2)
	assert.Equal(t, 0, st.Learned, "2回目で知らなかったので未習得に戻る")
}

func TestStudyCommand_QuitRecordsNothing(t *testing.T) {
	h := newHarness(t)
	m := h.createModule(t, "Capitals",
		model.TermRequest{Term: "France", Definition: "Paris"},
		model.TermRequest{Term: "Japan", Definition: "Tokyo"},
	)

	code, out, errOut := h.run(t, "5\nq\n", "study", m.ID, "quiz")
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "Enter a number from 1 to 2.")
	assert.Contains(t, out, "Session ended.")

	st, err := h.app().Modules.GetStats(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Empty(t, st.StudyHistory)
}

func TestStudyCommand_Errors(t *testing.T) {
	h := newHarness(t)
	empty := h.createModule(t, "Empty")

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "不正なモード", args: []string{"study", empty.ID, "speed"}, wantCode: ExitInvalidInput, wantErr: "unknown study mode"},
		{name: "用語が0件", args: []string{"study", empty.ID, "quiz"}, wantCode: ExitInvalidInput, wantErr: "no terms yet"},
		{name: "存在しないモジュール", args: []string{"study", "missing", "quiz"}, wantCode: ExitNotFound, wantErr: "Module not found."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := h.run(t, "", tt.args...)
			assert.Equal(t, tt.wantCode, code)
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}

func TestStatsCommand_Overview(t *testing.T) {
	h := newHarness(t)
	a := h.createModule(t, "Pets", model.TermRequest{Term: "cat", Definition: "a feline"})
	h.createModule(t, "Colors", model.TermRequest{Term: "rojo", Definition: "red"})

	code, _, errOut := h.run(t, "a feline\n", "study", a.ID, "writing")
	require.Equal(t, ExitOK, code, errOut)

	code, out, _ := h.run(t, "", "stats")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "(1/2 terms learned)")
	assert.Contains(t, out, "Sessions: 1")
	assert.Contains(t, out, "Recent sessions:")
	assert.Contains(t, out, "Pets")
}

func TestAccountCommands(t *testing.T) {
	h := newHarness(t)

	code, _, errOut := h.run(t, "", "account", "whoami")
	assert.Equal(t, ExitForbidden, code)
	assert.Contains(t, errOut, "You are not logged in.")

	code, out, errOut := h.run(t, "secret123\n", "account", "register", "--name", "Alice", "--email", "alice@example.com")
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "Welcome, Alice!")

	code, _, errOut = h.run(t, "", "account", "register", "--name", "Alice", "--email", "alice@example.com", "--password", "secret123")
	assert.Equal(t, ExitConflict, code)
	assert.Contains(t, errOut, "already exists")

	code, _, _ = h.run(t, "", "account", "logout")
	require.Equal(t, ExitOK, code)

	code, _, errOut = h.run(t, "", "account", "login", "--email", "alice@example.com", "--password", "wrong-pass")
	assert.Equal(t, ExitForbidden, code)
	assert.Contains(t, errOut, "Incorrect email or password.")

	code, out, _ = h.run(t, "", "account", "login", "--email", "alice@example.com", "--password", "secret123")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Logged in as alice@example.com")

	code, out, _ = h.run(t, "", "plans")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Free - free [current]")
	assert.Contains(t, out, "Premium - 2.99 / 1 month (popular)")

	code, _, _ = h.run(t, "", "account", "upgrade")
	require.Equal(t, ExitOK, code)
	code, out, _ = h.run(t, "", "account", "whoami")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Plan:   Premium (until ")

	// パスワードはログに残らない
	assert.NotContains(t, h.logBuf.String(), "secret123")
	assert.Contains(t, h.logBuf.String(), "[SENSITIVE]")
	assert.Contains(t, h.logBuf.String(), "Command completed")
}

func TestSettingsCommands(t *testing.T) {
	h := newHarness(t)

	code, out, _ := h.run(t, "", "settings", "show")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Dark mode:     on")
	assert.Contains(t, out, "#8A2BE2")

	code, out, _ = h.run(t, "", "settings", "dark-mode", "off")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "Dark mode:     off")

	code, out, _ = h.run(t, "", "settings", "color", "blue")
	require.Equal(t, ExitOK, code)
	assert.Contains(t, out, "#00BFFF")

	code, _, errOut := h.run(t, "", "settings", "color", "#12")
	assert.Equal(t, ExitInvalidInput, code)
	assert.Contains(t, errOut, "Primary color must be a hex color")

	code, _, _ = h.run(t, "", "settings", "dark-mode", "maybe")
	assert.Equal(t, ExitInvalidInput, code)
}

func TestExportImportCommands(t *testing.T) {
	h := newHarness(t)
	m := h.createModule(t, "Spanish", model.TermRequest{Term: "hola", Definition: "hello"})
	path := filepath.Join(t.TempDir(), "spanish.csv")

	code, _, errOut := h.run(t, "", "module", "export", m.ID, path)
	assert.Equal(t, ExitForbidden, code)
	assert.Contains(t, errOut, "requires a Premium plan")

	code, _, errOut = h.run(t, "", "account", "register", "--name", "Alice", "--email", "alice@example.com", "--password", "secret123")
	require.Equal(t, ExitOK, code, errOut)
	code, _, _ = h.run(t, "", "account", "upgrade")
	require.Equal(t, ExitOK, code)

	code, out, errOut := h.run(t, "", "module", "export", m.ID, path)
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, "Exported to")

	f, err := os.Open(path)
	require.NoError(t, err)
	rows, err := csv.NewReader(f).ReadAll()
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, []string{"hola", "hello", "false"}, rows[1])

	code, out, errOut = h.run(t, "", "module", "import", path, "--title", "Spanish copy")
	require.Equal(t, ExitOK, code, errOut)
	assert.Contains(t, out, `Imported "Spanish copy"`)
	assert.Contains(t, out, "1 created, 0 skipped")
}

func TestExecute_StartupFailure(t *testing.T) {
	var out, errOut bytes.Buffer
	bootstrap := func(ctx context.Context, opts Options) (*App, error) {
		return nil, errors.New("open neonquiz.db: permission denied")
	}
	code := Execute(context.Background(), bootstrap, []string{"module", "list"}, strings.NewReader(""), &out, &errOut)
	assert.Equal(t, ExitInternal, code)
	assert.Contains(t, errOut.String(), "Failed to load the configuration or open the database.")
}

func TestExecute_ClosesApp(t *testing.T) {
	h := newHarness(t)
	closed := 0
	bootstrap := func(ctx context.Context, opts Options) (*App, error) {
		assert.True(t, opts.Ephemeral)
		app := h.app()
		app.OnClose(func() error { closed++; return nil })
		return app, nil
	}
	var out, errOut bytes.Buffer
	code := Execute(context.Background(), bootstrap, []string{"--ephemeral", "plans"}, strings.NewReader(""), &out, &errOut)
	assert.Equal(t, ExitOK, code)
	assert.Equal(t, 1, closed)
}

func TestMapErrorToExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "NotFound", err: model.NewAppError("X", "x", "", model.ErrNotFound), want: ExitNotFound},
		{name: "InvalidInput", err: model.NewAppError("X", "x", "", model.ErrInvalidInput), want: ExitInvalidInput},
		{name: "包まれた InvalidMode", err: fmt.Errorf("start: %w", model.ErrInvalidMode), want: ExitInvalidInput},
		{name: "Conflict", err: model.ErrConflict, want: ExitConflict},
		{name: "PremiumRequired", err: model.ErrPremiumRequired, want: ExitForbidden},
		{name: "想定外", err: errors.New("boom"), want: ExitInternal},
		{name: "中身のない AppError", err: model.NewAppError("X", "x", "", nil), want: ExitInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToExitCode(tt.err))
		})
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{name: "nil", err: nil, wantCode: ExitOK, wantOut: ""},
		{name: "フィールド付き", err: model.NewAppError("VALIDATION_ERROR", "Title is required.", "title", model.ErrInvalidInput), wantCode: ExitInvalidInput, wantOut: "Error: Title is required. (title)\n"},
		{name: "内部エラーは詳細を出さない", err: errors.New("disk on fire"), wantCode: ExitInternal, wantOut: "Error: Something went wrong. Please try again.\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			code := HandleError(&buf, logging.Discard(), tt.err)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, buf.String())
		})
	}
}
