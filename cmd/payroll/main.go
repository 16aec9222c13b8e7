// payroll computes, documents and sends monthly tutor payroll.
package main

import (
	"os"

	"github.com/warp/tutor-payroll/cli"
)

func main() {
	os.Exit(cli.Execute())
}
