package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCircuitsDir holds the shared circuit library.
const testCircuitsDir = "../../testdata/circuits"

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "qsim", cmd.Use)
	assert.Contains(t, cmd.Long, "zero-noise")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"validate", "run", "dist", "fold", "zne", "replay", "history", "test"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	dbFlag := runCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	// Journaling is optional.
	assert.Equal(t, "", dbFlag.DefValue)

	repsFlag := runCmd.Flags().Lookup("reps")
	require.NotNil(t, repsFlag)
	assert.Equal(t, "1000", repsFlag.DefValue)

	backendFlag := runCmd.Flags().Lookup("backend")
	require.NotNil(t, backendFlag)
	assert.Equal(t, "auto", backendFlag.DefValue)
}

func TestDistCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	distCmd, _, err := cmd.Find([]string{"dist"})
	require.NoError(t, err)

	// Exact distributions are not sampled.
	assert.Nil(t, distCmd.Flags().Lookup("reps"))
	assert.Nil(t, distCmd.Flags().Lookup("db"))
	assert.NotNil(t, distCmd.Flags().Lookup("bind"))
}

func TestZNECommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	zneCmd, _, err := cmd.Find([]string{"zne"})
	require.NoError(t, err)

	scalesFlag := zneCmd.Flags().Lookup("scales")
	require.NotNil(t, scalesFlag)
	assert.Equal(t, "[1.000000,2.000000,3.000000]", scalesFlag.DefValue)

	strategyFlag := zneCmd.Flags().Lookup("strategy")
	require.NotNil(t, strategyFlag)
	assert.Equal(t, "moment", strategyFlag.DefValue)

	for _, name := range []string{"agree", "outcome", "expect-z", "parallel"} {
		assert.NotNil(t, zneCmd.Flags().Lookup(name), name)
	}
}

func TestReplayCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	replayCmd, _, err := cmd.Find([]string{"replay"})
	require.NoError(t, err)

	require.NotNil(t, replayCmd.Flags().Lookup("db"))
	allFlag := replayCmd.Flags().Lookup("all")
	require.NotNil(t, allFlag)
	assert.Equal(t, "false", allFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestCommandHelp(t *testing.T) {
	cmd := NewRootCommand()

	assert.Contains(t, cmd.Short, "quantum circuit simulator")
	assert.Contains(t, cmd.Long, "Simulate quantum circuits")
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	_, err := execute(t, "--format", "invalid", "validate", ".")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
