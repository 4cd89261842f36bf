// Command nestedctl is a headless driver for the nested editing kernel.
// It builds a Context, constructs a flat list of character items, feeds
// it a script of edit commands, and prints the resulting contents and
// diagnostics as plain text. It renders nothing and owns no terminal
// state: a scriptable harness over editctx/edittree/listeditor, not the
// interactive shell or any concrete front-end built on top of them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
