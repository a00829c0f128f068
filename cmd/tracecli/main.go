/*
Tracecli parses and executes a recurtrace program and prints the resulting
call tree.

It reads a source program from a file, from the -c/--code flag, or from
stdin. Given -c or -f it runs the program once and exits; given neither,
it enters an interactive loop on stdin (through readline unless -d is
given; whether stdin is a terminal is not checked): accumulate lines
until a blank line is entered, then parse and execute what has been typed
so far and print its call tree, repeating until "QUIT" is entered or stdin
is closed.

Usage:

	tracecli [flags]

The flags are:

	-v, --version
		Give the current version of recurtrace and then exit.

	-f, --file FILE
		Read the program to execute from FILE instead of starting an
		interactive session.

	-c, --code SOURCE
		Execute the given source text immediately and then exit.

	-d, --direct
		Read directly from stdin instead of going through GNU readline.
		Without it, the interactive loop always uses readline.

	--dump-tree
		After running, binary-encode the call tree with internal/diag's
		rezi codec, decode it back,
		and print the decoded copy instead of the live one. Exists to
		exercise that round trip from the command line.
*/
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"

	"github.com/kallsbrook/recurtrace"
	"github.com/kallsbrook/recurtrace/internal/diag"
	"github.com/kallsbrook/recurtrace/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitRunError indicates an unsuccessful execution of the submitted
	// program.
	ExitRunError

	// ExitInitError indicates an unsuccessful program startup.
	ExitInitError
)

const outputWidth = 76

var (
	returnCode  int     = ExitSuccess
	flagVersion *bool   = pflag.BoolP("version", "v", false, "Gives the version info")
	flagFile    *string = pflag.StringP("file", "f", "", "Read the program to run from the given file")
	flagCode    *string = pflag.StringP("code", "c", "", "Execute the given program source and exit")
	forceDirect *bool   = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	dumpTree    *bool   = pflag.Bool("dump-tree", false, "Round-trip the call tree through the rezi binary codec before printing it")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	if *flagCode != "" {
		runAndPrint(*flagCode)
		return
	}

	if *flagFile != "" {
		data, err := os.ReadFile(*flagFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitInitError
			return
		}
		runAndPrint(string(data))
		return
	}

	if err := runSession(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRunError
	}
}

// sessionReader is satisfied by both an interactive readline-backed reader
// and a direct bufio one; the session loop below does not need to know
// which it has.
type sessionReader interface {
	ReadLine() (string, error)
	Close() error
}

type directReader struct {
	r *bufio.Reader
}

func (d directReader) ReadLine() (string, error) {
	line, err := d.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (d directReader) Close() error { return nil }

type interactiveReader struct {
	rl *readline.Instance
}

func (i interactiveReader) ReadLine() (string, error) {
	return i.rl.Readline()
}

func (i interactiveReader) Close() error { return i.rl.Close() }

func newSessionReader() (sessionReader, error) {
	if !*forceDirect {
		rl, err := readline.NewEx(&readline.Config{Prompt: "> "})
		if err != nil {
			return nil, fmt.Errorf("create readline session: %w", err)
		}
		return interactiveReader{rl: rl}, nil
	}
	return directReader{r: bufio.NewReader(os.Stdin)}, nil
}

// runSession drives the interactive loop: accumulate non-blank lines into a
// buffer, and on a blank line (or the sentinel "QUIT") either run what has
// accumulated or exit.
func runSession() error {
	reader, err := newSessionReader()
	if err != nil {
		return err
	}
	defer reader.Close()

	var buf strings.Builder
	for {
		line, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		trimmed := strings.TrimSpace(line)
		if strings.EqualFold(trimmed, "QUIT") {
			return nil
		}

		if trimmed == "" {
			if buf.Len() > 0 {
				runAndPrint(buf.String())
				buf.Reset()
			}
			continue
		}

		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

// runAndPrint parses and executes source, printing either the call tree or
// the error that stopped it.
func runAndPrint(source string) {
	prog, err := recurtrace.Parse(source)
	if err != nil {
		printError(err)
		return
	}

	ctx := recurtrace.NewContext(prog.Func)
	_, err = recurtrace.Execute(ctx, prog)
	if err != nil {
		printError(err)
		return
	}

	snap := diag.Snapshot(ctx.Root)
	if *dumpTree {
		encoded := diag.Encode(snap)
		decoded, err := diag.Decode(encoded)
		if err != nil {
			printError(err)
			return
		}
		snap = decoded
	}

	fmt.Println(renderTree(snap, 0))
}

func printError(err error) {
	returnCode = ExitRunError
	wrapped := rosed.Edit(fmt.Sprintf("ERROR: %s", err.Error())).Wrap(outputWidth).String()
	fmt.Println(wrapped)
}

// renderTree formats a FrameSnapshot tree as indented lines, one call
// activation per line.
func renderTree(snap diag.FrameSnapshot, depth int) string {
	indent := strings.Repeat("  ", depth)

	retval := "<no value>"
	if snap.HasRetval {
		retval = snap.Retval
	}

	line := fmt.Sprintf("%s#%d (%s) => %s", indent, snap.FrameID, strings.Join(snap.Args, ", "), retval)

	var b strings.Builder
	b.WriteString(line)
	for _, child := range snap.Children {
		b.WriteString("\n")
		b.WriteString(renderTree(child, depth+1))
	}
	return b.String()
}
