package out

import (
	"bufio"
	"io"
	"strings"
)

// ANSI color codes
const (
	Red     = "\x1b[31m"
	Green   = "\x1b[32m"
	Yellow  = "\x1b[33m"
	Cyan    = "\x1b[36m"
	Grey    = "\x1b[37m"
	Reset   = "\x1b[0m"
)

// ReplyNL writes `msg` as a single line, and flushes `w` if it is buffered.
// Any newline inside `msg` is replaced by a space so that one reply is always one line.
func ReplyNL(w io.Writer, msg string) error {
	line := strings.NewReplacer("\r", " ", "\n", " ").Replace(msg) + "\n"
	if _, err := io.WriteString(w, line); err != nil {
		return err
	}
	if bw, ok := w.(*bufio.Writer); ok {
		return bw.Flush()
	}
	return nil
}

// ReplyEitherNL writes the error in red if there is one, `msg` otherwise.
func ReplyEitherNL(w io.Writer, err error, msg string) error {
	if err != nil {
		return ReplyNL(w, Red+strings.TrimSpace(err.Error())+Reset)
	}
	return ReplyNL(w, msg)
}

func Prompt(w io.Writer) {
	io.WriteString(w, Cyan+">>> "+Reset)
}

// WithoutColors strips the ANSI color codes defined in this package.
func WithoutColors(s string) string {
	for _, c := range []string{Cyan, Red, Green, Yellow, Grey, Reset} {
		s = strings.Replace(s, c, "", -1)
	}
	return s
}
