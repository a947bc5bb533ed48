package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// newTestOutput builds an Output over a buffer. Buffers are not character
// devices, so autodetection lands on human format without color.
func newTestOutput() (*Output, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewOutput(&buf), &buf
}

func TestOutput_StatusGlyphs(t *testing.T) {
	out, buf := newTestOutput()

	out.Success("pushed")
	out.Warning("slow")
	out.Error("rejected")

	got := buf.String()
	for _, want := range []string{"✓ pushed", "⚠ slow", "✗ rejected"} {
		if !strings.Contains(got, want) {
			t.Errorf("Output missing %q:\n%s", want, got)
		}
	}
}

func TestOutput_QuietSuppressesInfoAndDetail(t *testing.T) {
	out, buf := newTestOutput()
	out.SetQuiet(true)

	out.Info("chatty")
	out.Detail("chattier")

	if buf.Len() != 0 {
		t.Errorf("Quiet output produced text: %q", buf.String())
	}
}

func TestOutput_VerboseGating(t *testing.T) {
	out, buf := newTestOutput()

	out.Verbosef("resolved host %s", "example.com")
	if buf.Len() != 0 {
		t.Errorf("Verbose message shown without the verbose level: %q", buf.String())
	}

	out.SetVerbose(true)
	out.Verbosef("resolved host %s", "example.com")
	if !strings.Contains(buf.String(), "resolved host example.com") {
		t.Errorf("Verbose message missing: %q", buf.String())
	}

	// Quiet wins over verbose
	buf.Reset()
	out.SetQuiet(true)
	out.Verbose("still chatty")
	if buf.Len() != 0 {
		t.Errorf("Quiet verbose output produced text: %q", buf.String())
	}
}

func TestOutput_JSONFormat(t *testing.T) {
	out, buf := newTestOutput()
	out.SetFormat(FormatJSON)

	out.Success("mirror complete")

	var msg map[string]string
	if err := json.Unmarshal(buf.Bytes(), &msg); err != nil {
		t.Fatalf("Output is not JSON: %v\n%s", err, buf.String())
	}
	if msg["status"] != "success" || msg["message"] != "mirror complete" {
		t.Errorf("Got %v", msg)
	}
}
