// Package claripy contains a CLI-driven session for translating source
// interactively between ClariPy and PyLite, line by line, until the user
// quits.
package claripy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/claripy/internal/input"
	"github.com/dekarrin/claripy/internal/lang"
)

// commandReader is the subset of input.DirectCommandReader and
// input.InteractiveCommandReader that Session needs.
type commandReader interface {
	ReadCommand() (string, error)
	Close() error
	AllowBlank(bool)
}

// Session contains the things needed to run an interactive translation shell
// attached to an input stream and an output stream.
type Session struct {
	in          commandReader
	out         *bufio.Writer
	forceDirect bool
	running     bool

	// Target is the syntax translated output is rendered in: "claripy" or
	// "pylite". If empty, each line is rendered in the syntax opposite the
	// one it parsed successfully as.
	Target string

	// ShowTree, if set, causes the parsed display tree to be printed
	// alongside each translation.
	ShowTree bool
}

const consoleOutputWidth = 80

// NewSession creates a new session ready to translate lines read from
// inputStream, writing results to outputStream. It will immediately open a
// buffered reader on the input stream and a buffered writer on the output
// stream.
//
// If nil is given for the input stream, a bufio.Reader is opened on stdin.
// If nil is given for the output stream, a bufio.Writer is opened on stdout.
func NewSession(inputStream io.Reader, outputStream io.Writer, forceDirectInput bool) (*Session, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	sess := &Session{
		out:         bufio.NewWriter(outputStream),
		running:     false,
		forceDirect: forceDirectInput,
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	var err error
	if useReadline {
		sess.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		sess.in = input.NewDirectReader(inputStream)
	}

	return sess, nil
}

// Close closes all resources associated with the Session, including any
// readline-related resources created for interactive mode.
func (sess *Session) Close() error {
	if sess.running {
		return fmt.Errorf("cannot close a running session")
	}

	if err := sess.in.Close(); err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}

	return nil
}

// Translate parses src (attempting ClariPy first, then PyLite) and renders
// it in sess.Target, or in whichever syntax src did not parse as if Target
// is unset.
func (sess *Session) Translate(src string) (string, *lang.DisplayNode, error) {
	mod, err := lang.ParseClariPySource(src)
	parsedAs := "claripy"
	if err != nil {
		mod, err = lang.ParsePyLite(src)
		if err != nil {
			return "", nil, fmt.Errorf("could not parse as ClariPy or PyLite: %w", err)
		}
		parsedAs = "pylite"
	}

	target := sess.Target
	if target == "" {
		target = "pylite"
		if parsedAs == "pylite" {
			target = "claripy"
		}
	}

	var out string
	if target == "claripy" {
		out = lang.PrintClariPy(mod)
	} else {
		out = lang.PrintPyLite(mod)
	}

	return out, lang.BuildDisplayTree(mod), nil
}

// RunUntilQuit begins reading lines from the session's input and printing
// their translation to its output until the QUIT command is received or
// input is exhausted.
func (sess *Session) RunUntilQuit() error {
	introMsg := "ClariPy interactive translator\n"
	if sess.forceDirect {
		introMsg += "(direct input mode)\n"
	}
	introMsg += "Type QUIT to exit.\n\n"

	if _, err := sess.out.WriteString(introMsg); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := sess.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}

	sess.running = true
	defer func() {
		sess.running = false
	}()

	for sess.running {
		line, err := sess.in.ReadCommand()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read input: %w", err)
		}

		if strings.EqualFold(strings.TrimSpace(line), "QUIT") {
			sess.running = false
			break
		}

		out, tree, err := sess.Translate(line)
		if err != nil {
			if writeErr := sess.writeLine("ERROR: " + err.Error()); writeErr != nil {
				return writeErr
			}
			continue
		}

		if writeErr := sess.writeLine(out); writeErr != nil {
			return writeErr
		}
		if sess.ShowTree {
			if writeErr := sess.writeLine(RenderTree(tree, 0)); writeErr != nil {
				return writeErr
			}
		}
	}

	if err := sess.writeLine("Goodbye"); err != nil {
		return err
	}

	return nil
}

func (sess *Session) writeLine(s string) error {
	if _, err := sess.out.WriteString(s + "\n"); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	if err := sess.out.Flush(); err != nil {
		return fmt.Errorf("could not flush output: %w", err)
	}
	return nil
}

// RenderTree renders a display tree as indented, one-label-per-line text,
// starting at the given nesting depth.
func RenderTree(n *lang.DisplayNode, depth int) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(n.Label)
	sb.WriteString("\n")
	for _, c := range n.Children {
		sb.WriteString(RenderTree(c, depth+1))
	}
	return strings.TrimRight(sb.String(), "\n")
}
