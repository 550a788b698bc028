// cmd/marginalia/main.go
//
// Entry point for the marginalia CLI. Running `marginalia` with no
// subcommand opens the TUI editor for the vault in the current (or
// --vault) directory.

package main

func main() {
	Execute()
}
