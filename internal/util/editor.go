package util

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// OpenEditor opens filePath in editor, which may carry arguments
// (e.g. "code --wait"), attached to the current terminal.
func OpenEditor(filePath string, editor string) error {
	args := strings.Fields(editor)
	if len(args) == 0 {
		args = []string{"vi"}
	}

	c := exec.Command(args[0], append(args[1:], filePath)...)
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("failed to open editor (%s): %w", filePath, err)
	}
	return nil
}
