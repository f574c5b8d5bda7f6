// audit.go - `hashgoblin audit` subcommand
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package main

import (
	"fmt"
	"os"

	flag "github.com/opencoff/pflag"

	"github.com/jonnyso/hashgoblin/internal/audit"
	"github.com/jonnyso/hashgoblin/internal/engine"
	"github.com/jonnyso/hashgoblin/internal/manifest"
	"github.com/jonnyso/hashgoblin/internal/rlog"
	"github.com/jonnyso/hashgoblin/internal/runctl"
)

func runAudit(args []string) int {
	var recursive, emptyDirs, early, help bool
	var workers int
	var manifestPath, logfile string
	var verbose int

	fs := flag.NewFlagSet("audit", flag.ExitOnError)
	fs.BoolVarP(&help, "help", "h", false, "Show help and exit [False]")
	fs.BoolVarP(&recursive, "recursive", "r", false, "Recurse into subdirectories [False]")
	fs.BoolVarP(&emptyDirs, "empty-dirs", "", false, "Expect recorded empty directories [False]")
	fs.IntVarP(&workers, "workers", "w", engine.DefaultWorkers, "Use `N` concurrent I/O workers")
	fs.BoolVarP(&early, "early", "e", false, "Stop at the first discrepancy [False]")
	fs.StringVarP(&manifestPath, "file", "f", manifest.DefaultPath, "Read the manifest from `FILE`")
	fs.CountVarP(&verbose, "verbose", "v", "Increase logging verbosity")
	fs.StringVarP(&logfile, "logfile", "", "", "Write log output to `FILE` [Stderr]")

	fs.SetOutput(os.Stdout)
	if err := fs.Parse(args); err != nil {
		Die("%s", err)
	}

	if help {
		auditUsage(fs)
		return 0
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "%s: audit needs at least one path\n\n", Z)
		auditUsage(fs)
		return 1
	}

	logw, closeLog := openLogFile(logfile)
	defer closeLog()

	log, err := rlog.New(logw, verbose, "audit")
	if err != nil {
		Die("%s", err)
	}
	defer log.Close()

	opts := runctl.WalkOptions{
		Paths:     paths,
		Recursive: recursive,
		EmptyDirs: emptyDirs,
		Workers:   workers,
		Warn: func(format string, a ...any) {
			log.Warn(format, a...)
		},
	}

	report := func(f audit.Finding) {
		fmt.Println(f.String())
	}

	res, err := runctl.Audit(opts, manifestPath, early, report)
	if err != nil {
		Die("%s", err)
	}

	n := res.Findings.Len()
	if res.Failed {
		fmt.Printf("%s: audit found %d discrepanc%s\n", Z, n, plural(n))
		return 1
	}

	log.Info("audit clean: no discrepancies")
	return 0
}

func plural(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func auditUsage(fs *flag.FlagSet) {
	fmt.Printf(`%s audit - re-hash a tree of files and compare against a manifest.

Usage: %s audit [options] path [path...]

Options:
`, Z, Z)
	fs.PrintDefaults()
}
