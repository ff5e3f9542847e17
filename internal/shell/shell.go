// Package shell resolves the platform shell used to run script commands.
//
// The mapping is fixed per platform and chosen at build time:
//   - unix: bash -c
//   - windows: cmd /C
//
// Platforms without a mapping do not build.
package shell

import "strings"

// Spec names a shell executable and the flag that makes it run a single
// string argument as a command.
type Spec struct {
	Executable string `json:"executable"`
	Flag       string `json:"flag"`
}

// Resolve returns the shell for the running platform.
func Resolve() Spec {
	return platformSpec
}

// Args returns the argument list that runs script through the shell.
// The script is passed as one argument, unescaped.
func (s Spec) Args(script string) []string {
	return []string{s.Flag, script}
}

// String renders the invocation prefix, e.g. "bash -c".
func (s Spec) String() string {
	return strings.TrimSpace(s.Executable + " " + s.Flag)
}
