package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatHuman OutputFormat = "human"
	FormatJSON  OutputFormat = "json"
)

// Output handles formatted output to the user. Interactive terminals get
// human output with color glyphs; pipes and CI logs get JSON.
type Output struct {
	writer       io.Writer
	format       OutputFormat
	autoDetect   bool
	colorEnabled bool
	quiet        bool
	verbose      bool
}

// NewOutput creates a new Output instance with format autodetection
func NewOutput(writer io.Writer) *Output {
	o := &Output{
		writer:     writer,
		autoDetect: true,
	}
	o.detectFormat()
	return o
}

func (o *Output) detectFormat() {
	if !o.autoDetect {
		return
	}

	if file, ok := o.writer.(*os.File); ok {
		fileInfo, err := file.Stat()
		if err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
			o.format = FormatHuman
			o.colorEnabled = true
			return
		}
		o.format = FormatJSON
		o.colorEnabled = false
		return
	}

	o.format = FormatHuman
	o.colorEnabled = false
}

// SetFormat manually sets the output format
func (o *Output) SetFormat(format OutputFormat) {
	o.format = format
	o.autoDetect = false
	o.colorEnabled = (format == FormatHuman)
}

// SetColorEnabled manually enables/disables colors
func (o *Output) SetColorEnabled(enabled bool) {
	o.colorEnabled = enabled
}

// SetQuiet suppresses info-level messages
func (o *Output) SetQuiet(quiet bool) {
	o.quiet = quiet
}

// SetVerbose enables verbose-level messages
func (o *Output) SetVerbose(verbose bool) {
	o.verbose = verbose
}

// IsJSON returns true if output format is JSON
func (o *Output) IsJSON() bool {
	return o.format == FormatJSON
}

func (o *Output) statusLine(status, glyph string, colorize func(format string, a ...interface{}) string, message string) {
	if o.format == FormatJSON {
		o.printJSON(map[string]interface{}{
			"status":  status,
			"message": message,
		})
		return
	}

	if o.colorEnabled {
		fmt.Fprintf(o.writer, "%s %s\n", colorize(glyph), message)
	} else {
		fmt.Fprintf(o.writer, "%s %s\n", glyph, message)
	}
}

// Success prints a success message
func (o *Output) Success(message string) {
	o.statusLine("success", "✓", color.GreenString, message)
}

// Error prints an error message
func (o *Output) Error(message string) {
	o.statusLine("error", "✗", color.RedString, message)
}

// Warning prints a warning message
func (o *Output) Warning(message string) {
	o.statusLine("warning", "⚠", color.YellowString, message)
}

// Info prints an informational message
func (o *Output) Info(message string) {
	if o.quiet {
		return
	}
	if o.format == FormatJSON {
		o.printJSON(map[string]interface{}{
			"status":  "info",
			"message": message,
		})
		return
	}

	fmt.Fprintf(o.writer, "%s\n", message)
}

// Verbose prints a message only when verbose output is enabled
func (o *Output) Verbose(message string) {
	if !o.verbose || o.quiet {
		return
	}
	if o.format == FormatJSON {
		o.printJSON(map[string]interface{}{
			"status":  "debug",
			"message": message,
		})
		return
	}

	fmt.Fprintf(o.writer, "%s\n", message)
}

// Detail prints an indented detail line (human format only)
func (o *Output) Detail(message string) {
	if o.quiet || o.format == FormatJSON {
		return
	}
	fmt.Fprintf(o.writer, "  %s\n", message)
}

// Header prints a header (only in human format)
func (o *Output) Header(title string) {
	if o.quiet || o.format == FormatJSON {
		return
	}

	if o.colorEnabled {
		fmt.Fprintf(o.writer, "\n%s\n", color.New(color.Bold).Sprint(title))
	} else {
		fmt.Fprintf(o.writer, "\n%s\n", title)
	}
}

// JSON outputs arbitrary data as JSON
func (o *Output) JSON(data interface{}) error {
	return o.printJSON(data)
}

func (o *Output) printJSON(data interface{}) error {
	encoder := json.NewEncoder(o.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Infof prints a formatted info message
func (o *Output) Infof(format string, args ...interface{}) {
	o.Info(fmt.Sprintf(format, args...))
}

// Successf prints a formatted success message
func (o *Output) Successf(format string, args ...interface{}) {
	o.Success(fmt.Sprintf(format, args...))
}

// Errorf prints a formatted error message
func (o *Output) Errorf(format string, args ...interface{}) {
	o.Error(fmt.Sprintf(format, args...))
}

// Warningf prints a formatted warning message
func (o *Output) Warningf(format string, args ...interface{}) {
	o.Warning(fmt.Sprintf(format, args...))
}

// Detailf prints a formatted detail line
func (o *Output) Detailf(format string, args ...interface{}) {
	o.Detail(fmt.Sprintf(format, args...))
}

// Verbosef prints a formatted verbose message
func (o *Output) Verbosef(format string, args ...interface{}) {
	o.Verbose(fmt.Sprintf(format, args...))
}
