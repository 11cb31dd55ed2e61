/*
Claripy translates source between the ClariPy pseudocode syntax and the
PyLite Python subset, both of which share a common AST.

Usage:

	claripy [flags] [FILE]

If FILE is given, it is translated and the result printed to stdout. If FILE
is omitted, claripy starts an interactive session: each line of input is
translated and the result printed immediately, read from stdin using GNU
readline where available. Type QUIT to exit an interactive session.

The flags are:

	-v, --version
		Give the current version of ClariPy and then exit.

	-o, --out TARGET
		Translate into TARGET instead of auto-detecting the opposite syntax.
		TARGET must be "claripy" or "pylite". If not given, claripy source is
		translated to PyLite and vice versa, detected by FILE's extension
		(".cpy" is ClariPy, ".py" is PyLite) or, in interactive mode, by
		which syntax each line parses as.

	-t, --tree
		Also print the parsed display tree alongside the translation.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading command input even if launched
		in a tty with stdin and stdout.

	-c, --config FILE
		Load formatting configuration (indentation, wrap width) from FILE
		instead of the default "claripy.toml" in the current directory.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/claripy"
	"github.com/dekarrin/claripy/internal/version"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitTranslateError
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	flagOut     = pflag.StringP("out", "o", "", `Target syntax to translate into: "claripy" or "pylite"`)
	flagTree    = pflag.BoolP("tree", "t", false, "Also print the parsed display tree")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	flagConfig  = pflag.StringP("config", "c", "claripy.toml", "Path to the formatting config file")
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

	if *flagOut != "" && *flagOut != "claripy" && *flagOut != "pylite" {
		fmt.Fprintf(os.Stderr, "ERROR: --out must be \"claripy\" or \"pylite\"\n")
		returnCode = ExitUsageError
		return
	}

	fmtCfg, err := claripy.LoadFormatConfig(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	fmtCfg.Apply()

	args := pflag.Args()
	if len(args) > 1 {
		fmt.Fprintf(os.Stderr, "ERROR: too many arguments\n")
		returnCode = ExitUsageError
		return
	}

	if len(args) == 1 {
		if err := translateFile(args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			returnCode = ExitTranslateError
		}
		return
	}

	sess, err := claripy.NewSession(os.Stdin, os.Stdout, *flagDirect)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitInitError
		return
	}
	defer sess.Close()
	sess.Target = *flagOut
	sess.ShowTree = *flagTree

	if err := sess.RunUntilQuit(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitTranslateError
	}
}

func translateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	target := *flagOut
	if target == "" {
		if strings.HasSuffix(path, ".py") {
			target = "claripy"
		} else {
			target = "pylite"
		}
	}

	sess := &claripy.Session{Target: target}
	out, tree, err := sess.Translate(string(data))
	if err != nil {
		return err
	}

	fmt.Println(out)
	if *flagTree && tree != nil {
		fmt.Println(claripy.RenderTree(tree, 0))
	}
	return nil
}
