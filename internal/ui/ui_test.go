package ui

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(os.Stderr) })
	return &buf
}

func TestStepListsActions(t *testing.T) {
	buf := captureOutput(t)
	Step("+0.400s", "interaction", true, []string{"acquire #1 for 1.5s [0x20c 0x1e01]", "release #1"})

	got := buf.String()
	for _, want := range []string{"+0.400s", "interaction", "handled", "acquire #1 for 1.5s", "release #1"} {
		if !strings.Contains(got, want) {
			t.Errorf("Step output %q is missing %q", got, want)
		}
	}
	if strings.Contains(got, "\x1b[") {
		t.Errorf("Step output to a buffer should be unstyled: %q", got)
	}
}

func TestStepNotHandled(t *testing.T) {
	buf := captureOutput(t)
	Step("+1.000s", "vsync", false, nil)
	if !strings.Contains(buf.String(), "not handled") {
		t.Errorf("output = %q, want it to say not handled", buf.String())
	}
}

func TestKeyValueAndBanner(t *testing.T) {
	buf := captureOutput(t)
	Banner("1.2.3")
	KeyValue("Governor", "interactive")
	got := buf.String()
	if !strings.Contains(got, "hintd") || !strings.Contains(got, "v1.2.3") || !strings.Contains(got, "interactive") {
		t.Errorf("output = %q", got)
	}
}
