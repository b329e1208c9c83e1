package rgbds

import (
	"fmt"
	"io"
)

// FileWriter writes one assembly output file.
type FileWriter struct {
	writer io.Writer
}

// NewFileWriter creates a writer for one output file.
func NewFileWriter(writer io.Writer) *FileWriter {
	return &FileWriter{writer: writer}
}

// WriteCommentHeader writes the file header identifying the disassembled
// ROM and the generating application.
func (w *FileWriter) WriteCommentHeader(romName, appName string) error {
	if _, err := fmt.Fprintf(w.writer, "; Disassembly of \"%s\"\n; This file was created with %s\n\n", romName, appName); err != nil {
		return fmt.Errorf("writing file header: %w", err)
	}
	return nil
}

// WriteLines writes the given lines, each terminated by a newline.
func (w *FileWriter) WriteLines(lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w.writer, line); err != nil {
			return fmt.Errorf("writing line: %w", err)
		}
	}
	return nil
}
