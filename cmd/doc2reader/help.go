package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doc2reader <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert a document into a self-contained HTML reader")
	fmt.Fprintln(w, "  palettes   List the available palettes")
	fmt.Fprintln(w, "  doctor     Check LibreOffice, Chrome and the environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'doc2reader help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doc2reader convert <source> [output] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert an office document (docx, odt, doc, rtf, pptx, ...) or a")
	fmt.Fprintln(w, "Markdown file into one HTML file with every image embedded.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  source    Document to convert")
	fmt.Fprintln(w, "  output    Output file or directory (default: <name>.html in the current directory)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Palette:")
	fmt.Fprintln(w, "  -p, --palette <name>      Palette applied on load (default: dark)")
	fmt.Fprintln(w, "      --bg <color>          Background color override")
	fmt.Fprintln(w, "      --fg <color>          Text color override")
	fmt.Fprintln(w, "      --font-size <len>     Font size override")
	fmt.Fprintln(w, "      --line-height <n>     Line height override")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Converter:")
	fmt.Fprintln(w, "      --soffice <path>      LibreOffice executable (env: DOC2READER_SOFFICE)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Conversion timeout (default: 2m)")
	fmt.Fprintln(w, "      --isolated-profile    Use a throwaway LibreOffice profile")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Reader:")
	fmt.Fprintln(w, "      --strict              Fail when an image cannot be embedded")
	fmt.Fprintln(w, "      --no-click-paging     Disable page turning by click")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom reader templates")
	fmt.Fprintln(w, "      --snapshot <png>      Also write a PNG preview (requires Chrome)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes:")
	fmt.Fprintln(w, "  0 success, 1 general, 2 usage, 3 output, 4 browser,")
	fmt.Fprintln(w, "  5 converter unavailable, 6 conversion failed, 7 missing image (--strict)")
}

// printPalettesUsage prints usage for the palettes command.
func printPalettesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doc2reader palettes [--config <name>] [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List built-in palettes and those defined in the config file.")
	fmt.Fprintln(w, "The palette applied on load is marked with *.")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: doc2reader doctor [--soffice <path>] [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that LibreOffice runs, whether Chrome is available for")
	fmt.Fprintln(w, "--snapshot, and that the temp directory is writable.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "palettes":
		printPalettesUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: doc2reader version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: doc2reader help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	return ExitSuccess
}
