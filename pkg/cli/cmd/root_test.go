package cmd_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/devantler-tech/gcping/pkg/apis/region/v1alpha1"
	"github.com/devantler-tech/gcping/pkg/cli/cmd"
	"github.com/devantler-tech/gcping/pkg/cli/flags"
	"github.com/devantler-tech/gcping/pkg/cli/ui/errorhandler"
	"github.com/devantler-tech/gcping/pkg/di"
	"github.com/devantler-tech/gcping/pkg/svc/emitter"
	"github.com/devantler-tech/gcping/pkg/svc/provider"
	"github.com/devantler-tech/gcping/pkg/svc/provider/memory"
	"github.com/devantler-tech/gcping/pkg/svc/reconciler"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errQuotaExceeded = errors.New("instance quota exceeded")

func TestMain(m *testing.M) {
	exitCode := m.Run()

	_, err := snaps.Clean(m, snaps.CleanOpts{Sort: true})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to clean snapshots: " + err.Error() + "\n")

		os.Exit(1)
	}

	os.Exit(exitCode)
}

type result struct {
	stdout string
	stderr string
	err    error
}

func newSandbox() *memory.Provider {
	return memory.NewProvider(
		v1alpha1.Region{ID: "fsn1", DisplayName: "Falkenstein"},
		v1alpha1.Region{ID: "hel1", DisplayName: "Helsinki"},
		v1alpha1.Region{ID: "nbg1", DisplayName: "Nuremberg"},
	)
}

// execute runs gcping against sandbox with the Memory provider selected.
func execute(t *testing.T, sandbox *memory.Provider, args ...string) result {
	t.Helper()

	factory := provider.FactoryFunc(func(context.Context, *v1alpha1.Config) (provider.Provisioner, error) {
		return sandbox, nil
	})

	var stdout, stderr bytes.Buffer

	runtime := di.NewRuntime(
		di.WithProvisionerFactory(factory),
		di.WithIOStreams(di.IOStreams{In: strings.NewReader(""), Out: &stdout, ErrOut: &stderr}),
	)
	root := cmd.NewRootCmdWithRuntime(runtime, "test", "test", "test")

	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)

	err := root.Execute()

	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// withMemory appends the flags selecting the sandbox and a short retry budget.
func withMemory(args ...string) []string {
	return append(args, "--provider", "Memory", "--retry-timeout", "0s")
}

func decodeConfig(t *testing.T, stdout string) emitter.Document {
	t.Helper()

	start := strings.Index(stdout, "{")
	require.GreaterOrEqual(t, start, 0, "no config document in output: %q", stdout)

	var document emitter.Document
	require.NoError(t, json.Unmarshal([]byte(stdout[start:]), &document))

	return document
}

func TestNewRootCmdVersionFormatting(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCmd("1.2.3", "abc123", "2025-08-17")

	assert.Equal(t, "1.2.3 (Built on 2025-08-17 from Git SHA abc123)", root.Version)
}

func TestExecuteShowsVersion(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := cmd.NewRootCmd("1.2.3", "abc123", "2025-08-17")
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())

	snaps.MatchInlineSnapshot(t, strings.TrimSpace(out.String()),
		snaps.Inline("gcping version 1.2.3 (Built on 2025-08-17 from Git SHA abc123)"))
}

func TestExecuteShowsHelp(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := cmd.NewRootCmd("", "", "")
	root.SetOut(&out)
	root.SetArgs([]string{})

	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "region")
	assert.Contains(t, out.String(), "config")
	assert.Contains(t, out.String(), "--"+flags.ConfigFlagName)
}

func TestPersistentFlagsDefault(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCmd("test", "test", "test")

	timing, err := root.PersistentFlags().GetBool(flags.TimingFlagName)
	require.NoError(t, err)
	assert.False(t, timing)

	config, err := root.PersistentFlags().GetString(flags.ConfigFlagName)
	require.NoError(t, err)
	assert.Empty(t, config)
}

func TestExecuteWrapsErrors(t *testing.T) {
	t.Parallel()

	root := cmd.NewRootCmd("test", "test", "test")
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"regoin"})

	err := cmd.Execute(root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "command execution failed")
	assert.Contains(t, err.Error(), `unknown command "regoin"`)
	assert.Equal(t, 1, errorhandler.ExitCode(err))
}

func TestRegionReconcileConvergesAndPublishes(t *testing.T) {
	t.Parallel()

	sandbox := newSandbox()

	res := execute(t, sandbox, withMemory("region", "reconcile")...)
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "Success")
	assert.Contains(t, res.stderr, "Reconcile regions...")
	assert.Contains(t, res.stderr, "3 regions reconciled")

	document := decodeConfig(t, res.stdout)
	require.Len(t, document.Regions, 3)
	assert.Equal(t, "Falkenstein", document.Regions["fsn1"].DisplayName)
	assert.Equal(t, "http://"+document.Regions["fsn1"].Address+"/ping", document.Regions["fsn1"].URL)

	snapshot := sandbox.Snapshot()
	assert.Len(t, snapshot.Addresses, 3)
	assert.Len(t, snapshot.Instances, 3)
}

func TestRegionReconcileIsIdempotent(t *testing.T) {
	t.Parallel()

	sandbox := newSandbox()

	first := execute(t, sandbox, withMemory("region", "reconcile", "--emit=false")...)
	require.NoError(t, first.err, first.stderr)

	before := sandbox.Snapshot()

	second := execute(t, sandbox, withMemory("region", "reconcile", "--emit=false")...)
	require.NoError(t, second.err, second.stderr)

	assert.Contains(t, second.stderr, "no changes, 3 regions already converged")
	assert.Empty(t, second.stdout)
	assert.Equal(t, before, sandbox.Snapshot())
}

func TestRegionReconcileQuotaFailureIsPartial(t *testing.T) {
	t.Parallel()

	sandbox := newSandbox()
	sandbox.InjectFault(memory.OpCreateInstance, "hel1",
		provider.NewQuotaError("create instance", errQuotaExceeded))

	res := execute(t, sandbox, withMemory("region", "reconcile")...)
	require.Error(t, res.err)

	failure, ok := reconciler.AsPartialFailure(res.err)
	require.True(t, ok)
	assert.Equal(t, []string{"hel1"}, failure.FailedRegions())
	assert.Equal(t, 1, errorhandler.ExitCode(res.err))

	assert.Contains(t, res.stdout, "Failed")
	assert.Contains(t, res.stdout, "instance quota exceeded")

	document := decodeConfig(t, res.stdout)
	assert.Contains(t, document.Regions, "fsn1")
	assert.Contains(t, document.Regions, "nbg1")
	assert.NotContains(t, document.Regions, "hel1")

	// The address of the failed region stays reserved and is reused next run.
	address := sandbox.Snapshot().Addresses["hel1"].IP
	require.NotEmpty(t, address)

	retry := execute(t, sandbox, withMemory("region", "reconcile")...)
	require.NoError(t, retry.err, retry.stderr)
	assert.Equal(t, address, decodeConfig(t, retry.stdout).Regions["hel1"].Address)
}

func TestRegionReconcileWritesMetrics(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "gcping.prom")

	res := execute(t, newSandbox(), withMemory("region", "reconcile", "--metrics-file", path)...)
	require.NoError(t, res.err, res.stderr)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `gcping_reconcile_runs_total{result="success"} 1`)
	assert.Contains(t, string(data), "gcping_emitted_regions 3")
}

func TestRegionPlanDoesNotApply(t *testing.T) {
	t.Parallel()

	sandbox := newSandbox()

	res := execute(t, sandbox, withMemory("region", "plan", "--include", "fsn1")...)
	require.NoError(t, res.err, res.stderr)

	assert.Contains(t, res.stdout, "ReserveAddress")
	assert.Contains(t, res.stdout, "CreateInstance")
	assert.NotContains(t, res.stdout, "hel1")
	assert.Contains(t, res.stderr, "2 operations in 1 regions")
	assert.Empty(t, sandbox.Snapshot().Addresses)
}

func TestRegionListAndAddresses(t *testing.T) {
	t.Parallel()

	sandbox := newSandbox()

	reconciled := execute(t, sandbox, withMemory("region", "reconcile", "--emit=false", "--exclude", "nbg1")...)
	require.NoError(t, reconciled.err, reconciled.stderr)

	list := execute(t, sandbox, withMemory("region", "list")...)
	require.NoError(t, list.err, list.stderr)
	assert.Contains(t, list.stdout, "InstanceRunning")
	assert.Contains(t, list.stdout, "Absent")
	assert.Contains(t, list.stdout, "Nuremberg")

	addresses := execute(t, sandbox, withMemory("region", "addresses")...)
	require.NoError(t, addresses.err, addresses.stderr)
	assert.Contains(t, addresses.stdout, sandbox.Snapshot().Addresses["fsn1"].IP)
	assert.NotContains(t, addresses.stdout, "nbg1")
}

func TestRegionTeardown(t *testing.T) {
	t.Parallel()

	sandbox := newSandbox()

	reconciled := execute(t, sandbox, withMemory("region", "reconcile", "--emit=false")...)
	require.NoError(t, reconciled.err, reconciled.stderr)

	res := execute(t, sandbox, withMemory("region", "teardown")...)
	require.NoError(t, res.err, res.stderr)

	snapshot := sandbox.Snapshot()
	assert.Empty(t, snapshot.Addresses)
	assert.Empty(t, snapshot.Instances)
	assert.Empty(t, decodeConfig(t, res.stdout).Regions)

	for _, region := range []string{"fsn1", "hel1", "nbg1"} {
		calls := sandbox.CallsFor(region)
		require.GreaterOrEqual(t, len(calls), 2)
		assert.Equal(t, []string{memory.OpDeleteInstance, memory.OpReleaseAddress}, calls[len(calls)-2:])
	}
}

func TestConfigEmitToFile(t *testing.T) {
	t.Parallel()

	sandbox := newSandbox()
	sandbox.SeedAddress("fsn1", "203.0.113.10")
	sandbox.SeedInstance("fsn1", true)
	sandbox.SeedAddress("hel1", "203.0.113.20")

	dir := t.TempDir()

	res := execute(t, sandbox, withMemory(
		"config", "emit", "--format", "JS", "--publisher", "File", "--output-dir", dir,
	)...)
	require.NoError(t, res.err, res.stderr)
	assert.Empty(t, res.stdout)

	data, err := os.ReadFile(filepath.Join(dir, emitter.JSFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "const "+emitter.JSVariable+" = ")
	assert.Contains(t, string(data), "203.0.113.10")
	assert.NotContains(t, string(data), "203.0.113.20")

	again := execute(t, sandbox, withMemory(
		"config", "emit", "--format", "JS", "--publisher", "File", "--output-dir", dir,
	)...)
	require.NoError(t, again.err, again.stderr)

	unchanged, err := os.ReadFile(filepath.Join(dir, emitter.JSFileName))
	require.NoError(t, err)
	assert.Equal(t, data, unchanged)
}

func TestConfigEmitRejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	res := execute(t, newSandbox(), withMemory("config", "emit", "--publisher", "GCS")...)
	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, v1alpha1.ErrBucketRequired)
}

func TestConfigSchema(t *testing.T) {
	t.Parallel()

	res := execute(t, newSandbox(), "config", "schema")
	require.NoError(t, res.err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &schema))
	assert.Equal(t, "gcping Configuration", schema["title"])
}
