// create.go - `hashgoblin create` subcommand
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

	"github.com/jonnyso/hashgoblin/internal/engine"
	"github.com/jonnyso/hashgoblin/internal/hashalgo"
	"github.com/jonnyso/hashgoblin/internal/humanize"
	"github.com/jonnyso/hashgoblin/internal/manifest"
	"github.com/jonnyso/hashgoblin/internal/rlog"
	"github.com/jonnyso/hashgoblin/internal/runctl"
)

func runCreate(args []string) int {
	var recursive, emptyDirs, help bool
	var workers int
	var hashList, output, logfile string
	var verbose int

	fs := flag.NewFlagSet("create", flag.ExitOnError)
	fs.BoolVarP(&help, "help", "h", false, "Show help and exit [False]")
	fs.BoolVarP(&recursive, "recursive", "r", false, "Recurse into subdirectories [False]")
	fs.BoolVarP(&emptyDirs, "empty-dirs", "", false, "Record empty directories [False]")
	fs.IntVarP(&workers, "workers", "w", engine.DefaultWorkers, "Use `N` concurrent I/O workers")
	fs.StringVarP(&hashList, "hash", "H", "sha256", "Comma separated list of `ALGOS` to compute (md5,sha1,sha256,tiger,whirlpool)")
	fs.StringVarP(&output, "output", "o", manifest.DefaultPath, "Write the manifest to `FILE`")
	fs.CountVarP(&verbose, "verbose", "v", "Increase logging verbosity")
	fs.StringVarP(&logfile, "logfile", "", "", "Write log output to `FILE` [Stderr]")

	fs.SetOutput(os.Stdout)
	if err := fs.Parse(args); err != nil {
		Die("%s", err)
	}

	if help {
		createUsage(fs)
		return 0
	}

	paths := fs.Args()
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "%s: create needs at least one path\n\n", Z)
		createUsage(fs)
		return 1
	}

	algos, err := hashalgo.ParseList(hashList)
	if err != nil {
		Die("%s", err)
	}

	logw, closeLog := openLogFile(logfile)
	defer closeLog()

	log, err := rlog.New(logw, verbose, "create")
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

	if err := runctl.Create(opts, algos, output); err != nil {
		Die("%s", err)
	}

	if st, err := os.Stat(output); err == nil {
		log.Info("wrote %s (%s)", output, humanize.Size(uint64(st.Size())))
	}
	return 0
}

func createUsage(fs *flag.FlagSet) {
	fmt.Printf(`%s create - hash a tree of files and write a manifest.

Usage: %s create [options] path [path...]

Options:
`, Z, Z)
	fs.PrintDefaults()
}
