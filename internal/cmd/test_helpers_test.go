package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetRootCmd resets the root command state for test isolation.
// This must be called at the beginning of each test to ensure
// cobra command state doesn't leak between tests.
func resetRootCmd(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	// Reset args to empty slice (not nil, which would use os.Args)
	rootCmd.SetArgs([]string{})
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(new(bytes.Buffer))

	resetFlags(rootCmd.PersistentFlags())
	resetFlags(rootCmd.Flags())
	for _, cmd := range rootCmd.Commands() {
		cmd.SetContext(context.TODO())
		resetFlags(cmd.Flags())
	}
	return buf
}

// resetFlags restores every flag to its default value. Flags are defined
// once in init, so they are reset rather than redefined.
func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	})
}

// executeCmd executes the root command with the given args and returns the output.
// This handles proper state reset between test executions.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	// Important: Set args BEFORE setting output buffers
	rootCmd.SetArgs(args)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	err := rootCmd.Execute()
	return buf.String(), err
}

// executeSplit executes the root command with separate stdout and stderr
// buffers.
func executeSplit(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// subcommand finds a registered subcommand by name.
func subcommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name {
			return cmd
		}
	}
	t.Fatalf("command %s not registered", name)
	return nil
}

// setupProject creates a project root with the given files, relative to
// the root, and returns the root.
func setupProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	return root
}
