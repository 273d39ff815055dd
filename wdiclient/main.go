package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"net"
	"os"
	s "strings"
	"time"

	"github.com/pkg/errors"

	"github.com/elastic/hey-wdi/commands"
	"github.com/elastic/hey-wdi/out"
)

var (
	addr    = flag.String("addr", "127.0.0.1:8080", "hey-wdi server address")
	timeout = flag.Duration("timeout", 30*time.Second, "how long to wait for a reply")
	colors  = flag.Bool("colors", true, "colored prompt and replies")
)

// prints a reply, colored by outcome if `colors` is set
func printReply(w io.Writer, reply string, colors bool) error {
	reply = s.TrimRight(reply, "\r\n")
	switch {
	case !colors:
		return out.ReplyNL(w, reply)
	case s.HasPrefix(reply, "Error") || s.HasPrefix(reply, "Unknown command: ") || reply == commands.WrongArity:
		return out.ReplyEitherNL(w, errors.New(reply), "")
	case s.HasPrefix(reply, "No data found"):
		return out.ReplyNL(w, out.Yellow+reply+out.Reset)
	case reply == commands.DisconnectReply || reply == commands.StopReply:
		return out.ReplyNL(w, out.Grey+reply+out.Reset)
	default:
		return out.ReplyNL(w, out.Green+reply+out.Reset)
	}
}

// sends every line read from `in` to the server and prints the replies to `w`
// returns when the user disconnects or stops the server, the server goes away, or `in` is exhausted
func session(conn net.Conn, in io.Reader, w io.Writer, timeout time.Duration, colors bool) error {
	prompt := func(w io.Writer) { io.WriteString(w, ">>> ") }
	if colors {
		prompt = out.Prompt
	}
	replies := bufio.NewReader(conn)
	lines := bufio.NewScanner(in)
	for prompt(w); lines.Scan(); prompt(w) {
		line := s.TrimSpace(lines.Text())
		if line == "" {
			continue
		}
		if _, err := io.WriteString(conn, line+"\n"); err != nil {
			return errors.Wrap(err, "sending command")
		}
		conn.SetReadDeadline(time.Now().Add(timeout))
		reply, err := replies.ReadString('\n')
		if err != nil {
			return errors.Wrap(err, "reading reply")
		}
		printReply(w, reply, colors)

		switch commands.Parse(line).(type) {
		case commands.Disconnect, commands.Stop:
			return nil
		}
	}
	return lines.Err()
}

func main() {
	flag.Parse()
	logger := log.New(os.Stderr, "", log.Ldate|log.Ltime|log.Lshortfile)

	conn, err := net.Dial("tcp", *addr)
	if err != nil {
		logger.Println("[error]", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := session(conn, os.Stdin, os.Stdout, *timeout, *colors); err != nil {
		logger.Println("[error]", err)
		os.Exit(1)
	}
}
