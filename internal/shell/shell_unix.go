//go:build unix

package shell

var platformSpec = Spec{Executable: "bash", Flag: "-c"}
