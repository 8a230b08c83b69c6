// alma runs .alma source files, evaluates one-off word sequences, or
// starts an interactive REPL.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/user"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/cassowary2/alma/diag"
	"github.com/cassowary2/alma/interp"
	"github.com/cassowary2/alma/repl"
)

const version = "0.1.0"

// printUsage displays custom usage information.
func printUsage() {
	_, _ = fmt.Fprintf(os.Stderr, `alma v%s

USAGE:
    %s [OPTIONS]

DESCRIPTION:
    alma runs .alma source files against the interpreter core. Without any
    flags, it starts an interactive REPL (Read-Eval-Print-Loop).

OPTIONS:
    -f, --file <path>       Execute an .alma script file
    -e, --eval <code>       Evaluate a word sequence and print the resulting stack
    -d, --debug             Enable debug mode (show refcount-ledger balance)
    -v, --version           Show version information

ENVIRONMENT:
    ALMA_PATH                Colon-separated search path for 'import'

EXAMPLES:
    # Start interactive REPL
    %s

    # Execute a script file
    %s -f script.alma
    %s --file script.alma

    # Evaluate a word sequence
    %s -e "4 5 +"

`, version, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
}

func main() {
	flag.Usage = printUsage

	fileFlag := flag.String("file", "", "Execute an .alma script file")
	evalFlag := flag.String("eval", "", "Evaluate a word sequence and print the resulting stack")
	debugFlag := flag.Bool("debug", false, "Enable debug mode (show refcount-ledger balance)")
	versionFlag := flag.Bool("version", false, "Show version information")

	flag.StringVar(fileFlag, "f", "", "Execute an .alma script file")
	flag.StringVar(evalFlag, "e", "", "Evaluate a word sequence and print the resulting stack")
	flag.BoolVar(debugFlag, "d", false, "Enable debug mode (show refcount-ledger balance)")
	flag.BoolVar(versionFlag, "v", false, "Show version information")

	flag.Parse()

	if *versionFlag {
		fmt.Printf("alma v%s\n", version)
		return
	}

	if *fileFlag != "" {
		executeFile(*fileFlag, *debugFlag)
		return
	}

	if *evalFlag != "" {
		evaluateExpression(*evalFlag, *debugFlag)
		return
	}

	username := "unknown"
	if usr, err := user.Current(); err == nil {
		username = usr.Username
	}

	repl.Start(username, repl.Options{Debug: *debugFlag})
}

// executeFile reads, compiles, and runs an .alma script's `main` word.
func executeFile(filename string, debug bool) {
	cleaned := filepath.Clean(filename)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		pterm.Error.Printf("getting absolute path: %s\n", err)
		os.Exit(1)
	}

	ip := interp.New()
	defer ip.Close()

	if diags := ip.LoadFile(absolute); len(diags) > 0 {
		printDiagnostics(absolute, diags)
		if diag.HasErrors(diags) {
			os.Exit(1)
		}
	}

	if err := ip.RunWord("main"); err != nil {
		pterm.Error.Printf("%s: %s\n", absolute, err)
		os.Exit(1)
	}

	if debug {
		pterm.Debug.Printf("refcount ledger: %d live allocations\n", ip.Live())
	}
}

// evaluateExpression evaluates a single word sequence and prints the
// resulting stack, top value first.
func evaluateExpression(src string, debug bool) {
	ip := interp.New()
	defer ip.Close()

	diags, err := ip.EvalLine(src)
	if len(diags) > 0 {
		printDiagnostics("<eval>", diags)
		if diag.HasErrors(diags) {
			os.Exit(1)
		}
	}
	if err != nil {
		pterm.Error.Printf("%s\n", err)
		os.Exit(1)
	}

	s := ip.Stack()
	for i := 0; i < s.Size(); i++ {
		v, ok := s.Peek(i)
		if !ok {
			break
		}
		fmt.Println(v.Inspect())
	}

	if debug {
		pterm.Debug.Printf("refcount ledger: %d live allocations\n", ip.Live())
	}
}

// printDiagnostics renders compile/runtime diagnostics with pterm,
// leveled by severity (spec §7).
func printDiagnostics(source string, diags []diag.Diagnostic) {
	for _, d := range diags {
		loc := source
		if d.Line > 0 {
			loc = fmt.Sprintf("%s:%d", source, d.Line)
		}
		switch d.Severity {
		case diag.Warning:
			pterm.Warning.Printf("%s: %s\n", loc, d.Message)
		case diag.Info:
			pterm.Info.Printf("%s: %s\n", loc, d.Message)
		default:
			pterm.Error.Printf("%s: %s\n", loc, d.Message)
		}
	}
}
