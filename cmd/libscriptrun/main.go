// Package main builds the scriptrun C shared library.
//
//	go build -buildmode=c-shared -o libscriptrun.so ./cmd/libscriptrun
//
// The library exports one function:
//
//	int run_script(const char *script);
package main

import "C"

import "github.com/musher-dev/scriptrun/internal/bridge"

// run_script runs script through the platform shell and returns its exit
// code. The string is copied before use and not retained. If the host
// process receives an interrupt while the script runs, the child is killed
// and the host exits with 69.
//
//export run_script
func run_script(script *C.char) C.int { //nolint:revive // exported C symbol name
	return C.int(bridge.RunScript(C.GoString(script)))
}

func main() {}
