// Command plcsim runs stimulus scripts against the PLC control program.
package main

import "github.com/sarchlab/plcsim/plcsim/cmd"

func main() {
	cmd.Execute()
}
