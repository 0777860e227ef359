package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

const dateLayout = "2006-01-02 15:04"

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return formatDate(*t)
}

// progressBar は 0-100 を幅 width のバーにします
func progressBar(percent, width int) string {
	filled := percent * width / 100
	filled = max(0, min(width, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + fmt.Sprintf("] %3d%%", percent)
}

// prompt は label を出して1行読みます。入力が終わっていれば ok=false
func prompt(r *bufio.Reader, w io.Writer, label string) (string, bool) {
	fmt.Fprint(w, label)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}
