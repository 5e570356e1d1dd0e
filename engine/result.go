package engine

import (
	"fmt"
	"os"
	"runtime"
)

// ResultLine formats the result file content for status: "1[" + three digits +
// "]" and the platform newline.
func ResultLine(status int32) string {
	newline := "\n"
	if runtime.GOOS == "windows" {
		newline = "\r\n"
	}
	if status < 0 {
		return fmt.Sprintf("1[-%03d]%s", -int64(status), newline)
	}
	return fmt.Sprintf("1[%03d]%s", status, newline)
}

// WriteResult writes the result file, replacing any previous one.
func WriteResult(path string, status int32) error {
	if err := os.WriteFile(path, []byte(ResultLine(status)), 0o644); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}
	return nil
}
