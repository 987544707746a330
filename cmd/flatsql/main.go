// Command flatsql is the interactive front end for the flat-file SQL
// engine: it accumulates statement text until a terminator line, then
// hands the buffer to the core and prints whatever comes back.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/zakazai/flatsql/internal/engine"
	"github.com/zakazai/flatsql/internal/enginerr"
	"github.com/zakazai/flatsql/internal/exec"
	"github.com/zakazai/flatsql/internal/logging"
	"github.com/zakazai/flatsql/internal/session"
)

func main() {
	quiet := flag.Bool("q", false, "suppress header and row-count chrome")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: flatsql [-q] <database-directory>")
		os.Exit(1)
	}

	log := logging.New(logging.Info, os.Stderr)
	sess, err := session.Open(flag.Arg(0), *quiet, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer sess.Close()

	os.Exit(runLoop(sess, os.Stdin, os.Stdout))
}

// runLoop drives the Collecting/Executing state machine of spec.md §4.7
// over lines read from in, printing to out. It returns the process exit
// code.
func runLoop(sess *session.Session, in *os.File, out *os.File) int {
	eng := engine.New(sess)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var buf strings.Builder
	for {
		if !sess.Quiet {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			return 0
		}
		line := scanner.Text()
		term, rest := scanTerminator(line)
		if rest != "" {
			if buf.Len() > 0 {
				buf.WriteString(" ")
			}
			buf.WriteString(rest)
		}

		switch term {
		case "":
			continue
		case "/q", "\\q":
			return 0
		case "/p", "\\p":
			fmt.Fprintln(out, buf.String())
		case "/g", "\\g":
			text := buf.String()
			buf.Reset()
			runStatement(eng, sess, text, out)
		}
	}
}

func runStatement(eng *engine.Engine, sess *session.Session, text string, out *os.File) {
	if strings.TrimSpace(text) == "" {
		return
	}
	res, err := eng.Run(text)
	if err != nil {
		if errors.Is(err, exec.ErrExternal) {
			fmt.Fprintln(out, "(handled by the terminal, not the core)")
			return
		}
		fmt.Fprintln(out, formatError(err))
		return
	}
	printResult(res, sess.Quiet, out)
}

func formatError(err error) string {
	if kind, ok := enginerr.KindOf(err); ok {
		return fmt.Sprintf("%s: %v", kind, err)
	}
	return err.Error()
}

func printResult(res *exec.Result, quiet bool, out *os.File) {
	if res.Mutation {
		if !quiet {
			fmt.Fprintf(out, "(%d rows)\n", res.RowCount)
		}
		return
	}
	if !quiet {
		fmt.Fprintln(out, strings.Join(res.Columns, "\t"))
	}
	for _, row := range res.Rows {
		fmt.Fprintln(out, strings.Join(row, "\t"))
	}
	if !quiet {
		fmt.Fprintf(out, "(%d rows)\n", res.RowCount)
	}
}

// scanTerminator finds the first go/quit/print terminator in line that is
// not inside a quoted string, per spec.md §6: "/g" and "\g" submit, "/q"
// and "\q" quit, "/p" and "\p" reprint. Returns the terminator (empty if
// none) and the line content preceding it.
func scanTerminator(line string) (term string, rest string) {
	var inQuote byte
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if inQuote != 0 {
			if ch == inQuote {
				inQuote = 0
			}
			continue
		}
		if ch == '\'' || ch == '"' {
			inQuote = ch
			continue
		}
		if (ch == '/' || ch == '\\') && i+1 < len(line) {
			switch line[i+1] {
			case 'g', 'q', 'p':
				return string(ch) + string(line[i+1]), line[:i]
			}
		}
	}
	return "", line
}
