// Command shopctl administers shipping and payment methods and supplier
// stock directly against the shop database.
package main

import (
	"fmt"
	"os"
)

func main() {
	a := &app{out: os.Stdout}
	defer a.close()

	if err := newRootCmd(a).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
