package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╔═╗┬─┐┌┐ ┌─┐┬─┐
  ╠═╣├┬┘├┴┐│ │├┬┘
  ╩ ╩┴└─└─┘└─┘┴└─
`

var colorize = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func main() {
	rootCmd := &cobra.Command{
		Use:   "arbor",
		Short: "Server-driven UI engine for Go",
		Long: `Arbor renders application views on the server and keeps connected
browsers in sync by streaming tree patches over a websocket.

  • declarative views rebuilt each render cycle
  • structural diffing with keyed reconciliation
  • binary patch frames over id-free wire trees
  • paired-region frame memory, reset instead of collected`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		benchCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errorMsg("%s", err)
		os.Exit(1)
	}
}

// printBanner prints the Arbor ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

func paint(code, s string) string {
	if !colorize {
		return s
	}
	return "\033[" + code + "m" + s + "\033[0m"
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("%s %s\n", paint("32", "✓"), fmt.Sprintf(format, args...))
}

// info prints an indented info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s %s\n", paint("31", "✗"), fmt.Sprintf(format, args...))
}
