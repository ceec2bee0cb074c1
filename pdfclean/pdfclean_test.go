package pdfclean

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestExiftoolArgs(t *testing.T) {
	got := exiftoolArgs("fig.pdf")
	want := []string{"-all:all=", "-overwrite_original", "fig.pdf"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("exiftoolArgs = %v, want %v", got, want)
	}
}

func TestQpdfArgs(t *testing.T) {
	got := qpdfArgs("fig.pdf", "out.pdf")
	want := []string{"--deterministic-id", "--object-streams=generate", "--linearize", "fig.pdf", "out.pdf"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("qpdfArgs = %v, want %v", got, want)
	}
	// Byte-identical reruns depend on the content-derived document ID.
	if got[0] != "--deterministic-id" {
		t.Error("deterministic ID flag must come first")
	}
}

func TestNormalizeMissingFile(t *testing.T) {
	err := Normalize(filepath.Join(t.TempDir(), "nosuch.pdf"))
	if err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}

func TestRunUnknownTool(t *testing.T) {
	if err := run("definitely-not-a-real-tool-9e1f", nil); err == nil {
		t.Fatal("expected an error for a tool absent from PATH")
	}
}
