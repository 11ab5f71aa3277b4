package stimutil

import (
	"fmt"
	"math"
	"os"

	"github.com/mrjoshuak/go-spherestim/exr"
)

// ValidationResult contains the results of stimulus validation.
type ValidationResult struct {
	Valid    bool
	Warnings []string
	Errors   []string
	Summary  Summary
}

func (r *ValidationResult) fail(format string, args ...any) {
	r.Valid = false
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// ValidateOptions configures ValidateFile.
type ValidateOptions struct {
	// Strict turns layout warnings into errors.
	Strict bool
}

// ValidateFile checks that path holds a usable stimulus: a readable
// single-channel EXR whose pixels are all finite and within [0, 1].
// Problems with the file are reported in the result; the error return is
// reserved for failures of the check itself.
func ValidateFile(path string, opts ValidateOptions) (*ValidationResult, error) {
	result := &ValidationResult{Valid: true}

	stat, err := os.Stat(path)
	if err != nil {
		result.fail("cannot access file: %v", err)
		return result, nil
	}
	if stat.Size() < 8 {
		result.fail("file too small to be valid EXR")
		return result, nil
	}

	f, err := exr.ReadFile(path)
	if err != nil {
		result.fail("cannot read file: %v", err)
		return result, nil
	}

	s := Summarize(fromEXR(f))
	result.Summary = s
	if s.NonFinite > 0 {
		result.fail("%d non-finite pixels", s.NonFinite)
	}
	if s.Min < 0 || s.Max > 1 {
		result.fail("values span [%g, %g], outside [0, 1]", s.Min, s.Max)
	}

	var layout []string
	if f.Header.Width != 2*f.Header.Height {
		layout = append(layout, fmt.Sprintf("%dx%d is not a 2:1 equirectangular image", f.Header.Width, f.Header.Height))
	}
	if !f.Header.LatLong {
		layout = append(layout, "no latlong envmap attribute")
	}
	if opts.Strict {
		for _, msg := range layout {
			result.fail("%s", msg)
		}
	} else {
		result.Warnings = append(result.Warnings, layout...)
	}
	if s.Max == s.Min && !math.IsNaN(s.Min) {
		result.Warnings = append(result.Warnings, "image is constant")
	}
	return result, nil
}

// CompareOptions configures file comparison behavior.
type CompareOptions struct {
	// Tolerance is the largest pixel difference treated as equal.
	Tolerance float64
}

// CompareFiles reports whether two stimulus files hold the same image
// within tolerance, along with the differences found.
func CompareFiles(path1, path2 string, opts CompareOptions) (bool, []string, error) {
	a, err := LoadEXR(path1)
	if err != nil {
		return false, nil, fmt.Errorf("cannot open %s: %w", path1, err)
	}
	b, err := LoadEXR(path2)
	if err != nil {
		return false, nil, fmt.Errorf("cannot open %s: %w", path2, err)
	}

	if a.Width != b.Width || a.Height != b.Height {
		return false, []string{fmt.Sprintf("dimensions differ: %dx%d vs %dx%d",
			a.Width, a.Height, b.Width, b.Height)}, nil
	}

	var diffs []string
	maxDiff, count := 0.0, 0
	for i := range a.Pix {
		d := math.Abs(a.Pix[i] - b.Pix[i])
		if d > opts.Tolerance || math.IsNaN(d) {
			count++
			if d > maxDiff {
				maxDiff = d
			}
		}
	}
	if count > 0 {
		diffs = append(diffs, fmt.Sprintf("%d pixels differ (max diff: %g)", count, maxDiff))
	}
	return len(diffs) == 0, diffs, nil
}
