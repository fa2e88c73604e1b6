package main

import (
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainExitCodes(t *testing.T) {
	// Run main in a subprocess so os.Exit does not stop the test binary.
	if args, ok := os.LookupEnv("BE_DOCSTUBS_MAIN"); ok {
		os.Args = append([]string{"docstubs"}, strings.Fields(args)...)
		main()
		return
	}

	tests := []struct {
		name     string
		args     []string
		wantExit int
	}{
		{name: "version", args: []string{"version"}, wantExit: 0},
		{name: "invalid flag", args: []string{"--invalid-flag"}, wantExit: 1},
		{name: "missing input", args: []string{"generate", "-i", "does-not-exist.json"}, wantExit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := exec.Command(os.Args[0], "-test.run=^TestMainExitCodes$")
			cmd.Env = append(os.Environ(), "BE_DOCSTUBS_MAIN="+strings.Join(tt.args, " "))
			cmd.Dir = t.TempDir()

			err := cmd.Run()
			if tt.wantExit == 0 {
				assert.NoError(t, err)
				return
			}
			var exitErr *exec.ExitError
			require.True(t, errors.As(err, &exitErr), "got %v", err)
			assert.Equal(t, tt.wantExit, exitErr.ExitCode())
		})
	}
}
