package persistence

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// MaxSmallestDigits is the largest digit count SMALLEST accepts.
const MaxSmallestDigits = 1 << 20

// RunServer implements a line protocol over r and w for driving the engine
// from another process.
// Protocol (one command per line):
//   - PERSIST <n>: print OK <steps>.
//   - PRODUCT <n>: print OK <product of the digits of n>.
//   - CHECK <n>: print OK 1 if n is admissible, OK 0 otherwise.
//   - NEXT <n>: print OK <next candidate> <1 if it grew, else 0>.
//   - SMALLEST <digits>: print OK <first candidate with that many digits>,
//     for 1 <= digits <= MaxSmallestDigits.
//   - QUIT: exit.
//
// Malformed arguments answer ERR BADARGS, a NEXT on a number outside the
// search space answers ERR NOTCANDIDATE and unknown verbs answer ERR BADCMD.
// RunServer returns nil on QUIT or end of input.
func RunServer(r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)
	defer writer.Flush()

	for {
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := err != nil

		parts := strings.Fields(line)
		if len(parts) > 0 {
			if quit := serveCommand(writer, parts); quit {
				return nil
			}
			if err := writer.Flush(); err != nil {
				return err
			}
		}

		if eof {
			return nil
		}
	}
}

func serveCommand(w *bufio.Writer, parts []string) bool {
	cmd := strings.ToUpper(parts[0])
	if cmd == "QUIT" {
		return true
	}

	if len(parts) != 2 {
		if knownCommand(cmd) {
			fmt.Fprintln(w, "ERR BADARGS")
		} else {
			fmt.Fprintln(w, "ERR BADCMD")
		}
		return false
	}

	if cmd == "SMALLEST" {
		d, err := strconv.Atoi(parts[1])
		if err != nil || d < 1 || d > MaxSmallestDigits {
			fmt.Fprintln(w, "ERR BADARGS")
			return false
		}
		fmt.Fprintf(w, "OK %s\n", Smallest(d))
		return false
	}

	if !knownCommand(cmd) {
		fmt.Fprintln(w, "ERR BADCMD")
		return false
	}

	n, err := Parse(parts[1])
	if err != nil {
		fmt.Fprintln(w, "ERR BADARGS")
		return false
	}

	switch cmd {
	case "PERSIST":
		fmt.Fprintf(w, "OK %d\n", Persistence(n))
	case "PRODUCT":
		fmt.Fprintf(w, "OK %s\n", DigitsProduct(n))
	case "CHECK":
		fmt.Fprintf(w, "OK %d\n", boolDigit(IsAdmissible(n)))
	case "NEXT":
		if !IsCandidate(n) {
			fmt.Fprintln(w, "ERR NOTCANDIDATE")
			return false
		}
		grew := Next(n)
		fmt.Fprintf(w, "OK %s %d\n", n, boolDigit(grew))
	}

	return false
}

func knownCommand(cmd string) bool {
	switch cmd {
	case "PERSIST", "PRODUCT", "CHECK", "NEXT", "SMALLEST":
		return true
	}
	return false
}

//go:inline
func boolDigit(b bool) int {
	if b {
		return 1
	}
	return 0
}
