// stimcheck validates stimulus images written by spherestim.
//
// Usage:
//
//	stimcheck [-q|--quiet] [-s|--strict] [-i|--info] <filename> [<filename> ...]
//	stimcheck --compare [-t <tolerance>] <file1> <file2>
//
// Options:
//
//	-q, --quiet      Only output errors. Exit code indicates pass/fail.
//	-s, --strict     Treat layout warnings as errors.
//	-i, --info       Print header information for each file.
//	--compare        Compare two files pixel by pixel.
//	-t, --tolerance  Largest pixel difference treated as equal (default 0).
//	-h, --help       Show this help message.
//	--version        Show version information.
//
// Exit codes:
//
//	0: All files valid (or files match)
//	1: One or more files invalid (or files differ)
//	2: Error (bad arguments, file not found, etc.)
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mrjoshuak/go-spherestim/stimutil"
)

const version = "1.0.0"

func main() {
	quiet := false
	strict := false
	info := false
	compare := false
	tolerance := 0.0
	files := []string{}

	for i := 1; i < len(os.Args); i++ {
		arg := os.Args[i]
		switch arg {
		case "-q", "--quiet":
			quiet = true
		case "-s", "--strict":
			strict = true
		case "-i", "--info":
			info = true
		case "--compare":
			compare = true
		case "-t", "--tolerance":
			if i+1 >= len(os.Args) {
				fmt.Fprintf(os.Stderr, "Missing value for %s\n", arg)
				os.Exit(2)
			}
			i++
			v, err := strconv.ParseFloat(os.Args[i], 64)
			if err != nil || v < 0 {
				fmt.Fprintf(os.Stderr, "Invalid tolerance: %s\n", os.Args[i])
				os.Exit(2)
			}
			tolerance = v
		case "-h", "--help":
			printUsage()
			os.Exit(0)
		case "--version":
			fmt.Printf("stimcheck version %s\n", version)
			os.Exit(0)
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "Unknown option: %s\n", arg)
				printUsage()
				os.Exit(2)
			}
			files = append(files, arg)
		}
	}

	if compare {
		os.Exit(compareFiles(files, tolerance, quiet))
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: No input files specified")
		printUsage()
		os.Exit(2)
	}

	validCount := 0
	errorOccurred := false

	for _, filename := range files {
		result, err := stimutil.ValidateFile(filename, stimutil.ValidateOptions{Strict: strict})
		if err != nil {
			if !quiet {
				fmt.Fprintf(os.Stderr, "%s: error: %v\n", filename, err)
			}
			errorOccurred = true
			continue
		}
		if result.Valid {
			validCount++
		}

		if !quiet {
			printResult(filename, result)
			if info && result.Valid {
				printInfo(filename)
			}
		} else {
			for _, msg := range result.Errors {
				fmt.Fprintf(os.Stderr, "%s: %s\n", filename, msg)
			}
		}
	}

	if len(files) > 1 && !quiet {
		fmt.Printf("\nSummary: %d of %d files valid\n", validCount, len(files))
	}

	if errorOccurred {
		os.Exit(2)
	}
	if validCount < len(files) {
		os.Exit(1)
	}
	os.Exit(0)
}

func compareFiles(files []string, tolerance float64, quiet bool) int {
	if len(files) != 2 {
		fmt.Fprintln(os.Stderr, "Error: --compare needs exactly two files")
		return 2
	}
	equal, diffs, err := stimutil.CompareFiles(files[0], files[1], stimutil.CompareOptions{Tolerance: tolerance})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	if equal {
		if !quiet {
			fmt.Println("Files match")
		}
		return 0
	}
	if !quiet {
		fmt.Println("Files differ")
		for _, d := range diffs {
			fmt.Printf("  %s\n", d)
		}
	}
	return 1
}

func printUsage() {
	fmt.Println(`Usage: stimcheck [options] <filename> [<filename> ...]
       stimcheck --compare [-t <tolerance>] <file1> <file2>

Validate equirectangular stimulus images.

Options:
  -q, --quiet      Only output errors. Exit code indicates pass/fail.
  -s, --strict     Treat layout warnings as errors.
  -i, --info       Print header information for each file.
  --compare        Compare two files pixel by pixel.
  -t, --tolerance  Largest pixel difference treated as equal (default 0).
  -h, --help       Show this help message.
  --version        Show version information.

Exit codes:
  0: All files valid (or files match)
  1: One or more files invalid (or files differ)
  2: Error (bad arguments, file not found, etc.)

Examples:
  stimcheck stim.exr                     Validate a single file
  stimcheck -q *.exr                     Validate all files silently
  stimcheck --compare -t 1e-3 a.exr b.exr  Compare two renderings`)
}

func printResult(filename string, result *stimutil.ValidationResult) {
	if result.Valid {
		fmt.Printf("%s: OK\n", filename)
	} else {
		fmt.Printf("%s: INVALID\n", filename)
	}
	for _, msg := range result.Errors {
		fmt.Printf("  [ERROR] %s\n", msg)
	}
	for _, msg := range result.Warnings {
		fmt.Printf("  [WARNING] %s\n", msg)
	}
	if result.Summary.Width > 0 {
		fmt.Printf("  %s\n", result.Summary)
	}
}

func printInfo(filename string) {
	fi, err := stimutil.GetFileInfo(filename)
	if err != nil {
		return
	}
	fmt.Printf("  channel %q, %s, %s compression, latlong=%v, %d bytes\n",
		fi.Channel, fi.PixelType, fi.Compression, fi.LatLong, fi.FileSize)
	if fi.Comments != "" {
		fmt.Printf("  comments: %s\n", fi.Comments)
	}
	if fi.Owner != "" {
		fmt.Printf("  owner: %s\n", fi.Owner)
	}
	if p := fi.Provenance; p != nil {
		fmt.Printf("  seed=%d beta=%g texture=%d library=%d clamped=%d source=%s\n",
			p.Seed, p.Beta, p.TextureSize, p.LibrarySize, p.Clamped, p.FaceSource)
	}
}
