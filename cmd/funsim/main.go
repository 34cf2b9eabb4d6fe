// Command funsim runs protocol stacks described in scenario files.
package main

import "github.com/sarchlab/funsim/cmd/funsim/cmd"

func main() {
	cmd.Execute()
}
