//go:build windows

package shell

var platformSpec = Spec{Executable: "cmd", Flag: "/C"}
