// main.go - hashgoblin entry point
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

// hashgoblin hashes trees of files and audits them against a
// previously recorded manifest. See `hashgoblin create -h` and
// `hashgoblin audit -h`.
package main

import (
	"fmt"
	"os"

	"github.com/jonnyso/hashgoblin/internal/manifest"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var code int
	switch os.Args[1] {
	case "create":
		code = runCreate(os.Args[2:])
	case "audit":
		code = runAudit(os.Args[2:])
	case "-h", "--help", "help":
		usage()
		code = 0
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n\n", Z, os.Args[1])
		usage()
		code = 1
	}
	os.Exit(code)
}

func usage() {
	fmt.Printf(`%s - hash trees of files and audit them against a manifest.

Usage: %s <command> [options]

Commands:
  create   walk one or more paths, hash every file, write a manifest
  audit    walk one or more paths, hash every file, compare against a manifest

Run '%s create -h' or '%s audit -h' for command-specific options.
The default manifest path is %q.
`, Z, Z, Z, Z, manifest.DefaultPath)
}
