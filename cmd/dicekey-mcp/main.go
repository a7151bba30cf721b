package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/dicekey-reader/internal/config"
	"github.com/ironsheep/dicekey-reader/internal/ocr"
	"github.com/ironsheep/dicekey-reader/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("dicekey-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			fmt.Printf("  Candidate finder: %s\n", finderName)
			return
		case "--help", "-h", "help":
			fmt.Println("dicekey-mcp - MCP server that reads DiceKeys from photographs")
			fmt.Println()
			fmt.Println("Usage: dicekey-mcp [options]")
			fmt.Println()
			fmt.Println("Options:")
			fmt.Println("  --version, -v    Print version information")
			fmt.Println("  --help, -h       Print this help message")
			fmt.Println()
			fmt.Println("Environment variables:")
			fmt.Println("  DICEKEY_LOG_LEVEL=debug          Enable debug logging")
			fmt.Println("  DICEKEY_CALIBRATION=<file.yaml>  Override the key calibration")
			fmt.Println("  DICEKEY_OCR=template|tesseract   Glyph recognizer (default template)")
			fmt.Println()
			fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
			fmt.Println("Configure it in your MCP client.")
			return
		}
	}

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	settings, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	if settings.Debug {
		log.Printf("DiceKey MCP Server v%s (built %s, commit %s, finder %s, ocr %s)",
			Version, BuildTime, GitCommit, finderName, settings.OCR)
	}

	if err := run(settings, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("%v", err)
	}
}

// run builds the server from settings and serves in until it is exhausted.
// Resources it opens are released before it returns.
func run(settings config.Settings, in io.Reader, out io.Writer) error {
	finder, err := newFinder()
	if err != nil {
		return fmt.Errorf("candidate finder error: %w", err)
	}

	var recognizer ocr.Recognizer
	if settings.OCR == config.OCRTesseract {
		t, err := ocr.NewTesseract("eng")
		if err != nil {
			return fmt.Errorf("OCR error: %w", err)
		}
		defer t.Close()
		if settings.Debug {
			log.Printf("Tesseract %s", t.Version())
		}
		recognizer = t
	}

	srv := server.New(server.Config{
		Calibration: &settings.Calibration,
		Finder:      finder,
		Recognizer:  recognizer,
		Debug:       settings.Debug,
		Version:     Version,
	})
	if err := srv.Serve(in, out); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
