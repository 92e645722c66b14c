package main

import (
	"fmt"
	"io"
	"os"

	"github.com/benjaminschreck/go-formdoc/pkg/formdoc"
)

const version = "0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: formdoc <command> [arguments]")
	fmt.Fprintln(w, "\nCommands:")
	fmt.Fprintln(w, "  render <manifest.yaml> <output.docx>    Fill the template once per form and merge the pages")
	fmt.Fprintln(w, "  version                                 Show version information")
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		usage(stderr)
		return 1
	}

	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "formdoc version %s\n", version)
		return 0
	case "render":
		if len(args) != 3 {
			usage(stderr)
			return 1
		}
		if err := render(args[1], args[2]); err != nil {
			fmt.Fprintf(stderr, "render failed: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "wrote %s\n", args[2])
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[0])
		usage(stderr)
		return 1
	}
}

func render(manifestPath, outputPath string) error {
	manifest, err := loadManifest(manifestPath)
	if err != nil {
		return err
	}
	opts, err := manifest.Options()
	if err != nil {
		return err
	}
	reqs, err := manifest.Requests()
	if err != nil {
		return err
	}

	engine := formdoc.NewWithOptions(opts...)
	out, err := engine.GenerateMultiple(reqs)
	if err != nil {
		return err
	}

	formdoc.WithFields(formdoc.Fields{
		"forms":  len(reqs),
		"output": outputPath,
	}).Debug("rendered %d bytes", len(out))
	return os.WriteFile(outputPath, out, 0o644)
}
