package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriteCompletion(t *testing.T) {
	for _, shell := range completionCmd.ValidArgs {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			completionCmd.SetOut(&buf)
			t.Cleanup(func() { completionCmd.SetOut(nil) })

			if err := writeCompletion(completionCmd, []string{shell}); err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(buf.String(), "horologe") {
				t.Errorf("%s script does not mention horologe", shell)
			}
		})
	}

	if err := writeCompletion(completionCmd, []string{"tcsh"}); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}
