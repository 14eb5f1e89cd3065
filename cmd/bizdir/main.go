// Command bizdir serves the business directory API and runs imports and
// exports from the command line.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/JonMunkholm/bizdir/internal/core"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprint(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

// errorText is the stderr report for a failed command. Known failures get
// the coded user message and guidance; anything else is shown as is.
func errorText(err error) string {
	text := "Error: " + err.Error() + "\n"
	if core.IsUserFacing(err) {
		text += core.FormatUserError(err) + "\n"
	}
	return text
}
