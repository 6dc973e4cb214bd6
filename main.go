// Public domain.

package main

import "github.com/soniakeys/siddhanta/internal/ssprog"

func main() {
	ssprog.Main()
}
