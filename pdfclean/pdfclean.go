// Package pdfclean post-processes exported PDF figures for
// reproducibility: metadata is stripped and the file is rewritten with
// a canonical object layout and a content-derived identifier, so the
// same figure content always yields the same bytes.
package pdfclean

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/carbocation/pfx"
	log "github.com/sirupsen/logrus"
)

// The two external tools, invoked by name on PATH.
const (
	metadataTool = "exiftool"
	rewriteTool  = "qpdf"
)

// exiftoolArgs strips every embedded metadata field in place.
func exiftoolArgs(path string) []string {
	return []string{"-all:all=", "-overwrite_original", path}
}

// qpdfArgs rewrites the file deterministically: stable object streams
// and a document ID derived from content rather than time or filename.
func qpdfArgs(in, out string) []string {
	return []string{"--deterministic-id", "--object-streams=generate", "--linearize", in, out}
}

// run executes a tool and surfaces its failure with captured stderr.
func run(tool string, args []string) error {
	if _, err := exec.LookPath(tool); err != nil {
		return fmt.Errorf("%s not found on PATH: %w", tool, err)
	}
	var stderr bytes.Buffer
	cmd := exec.Command(tool, args...)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %w: %s", tool, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}

// Normalize strips metadata from the PDF at path, then rewrites it in
// place with a canonical layout. Tool failures are returned, not
// swallowed; there is no rollback, so on error the file is left in
// whatever state the failing step produced. Not safe to run
// concurrently against the same file.
func Normalize(path string) error {
	if _, err := os.Stat(path); err != nil {
		return pfx.Err(err)
	}

	log.Debugf("stripping metadata from %s", path)
	if err := run(metadataTool, exiftoolArgs(path)); err != nil {
		return err
	}
	// exiftool keeps a "<name>_original" backup even with
	// -overwrite_original on some platforms; ignore a missing file.
	os.Remove(path + "_original")

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".qpdf~")
	log.Debugf("rewriting %s deterministically", path)
	if err := run(rewriteTool, qpdfArgs(path, tmp)); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return pfx.Err(err)
	}
	return nil
}
