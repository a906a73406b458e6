package app

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autopeer-io/fleetview/cmd/fleetview/app/options"
	"github.com/autopeer-io/fleetview/internal/fleetview/core/model"
)

type cli struct {
	t       *testing.T
	session string
}

func newCLI(t *testing.T) *cli {
	return &cli{t: t, session: filepath.Join(t.TempDir(), "session.db")}
}

// run executes one invocation, as a fresh process would.
func (c *cli) run(stdin string, args ...string) (string, error) {
	c.t.Helper()

	cmd := NewApp().Command()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	// Defaults go first so that a test's own flags override them.
	cmd.SetArgs(append([]string{
		"--session.backend=sqlite",
		"--session.path=" + c.session,
		"--telemetry.seed=1",
		"--log.level=error",
	}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, err := c.run("", args...)
	require.NoError(c.t, err, out)
	return out
}

func TestSessionSurvivesInvocations(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("login", "--email", "admin@fleet.com", "--password", "admin123")
	assert.Equal(t, "Logged in as admin@fleet.com (admin), home /admin\n", out)

	var u model.User
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("whoami", "-o", "json")), &u))
	assert.Equal(t, model.User{ID: "1", Email: "admin@fleet.com", Role: model.RoleAdmin}, u)

	assert.Equal(t, "allow /admin (admin-home)\n", c.mustRun("route", "/admin"))

	assert.Equal(t, "Logged out\n", c.mustRun("logout"))
	_, err := c.run("", "whoami")
	assert.ErrorContains(t, err, "authentication required")
	assert.Equal(t, "redirect /login (login)\n", c.mustRun("route", "/"))

	assert.Equal(t, "Logged out\n", c.mustRun("logout"), "logout is idempotent")
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("user123\n", "login", "--email", "user@fleet.com")
	require.NoError(t, err)
	assert.Contains(t, out, "home /dashboard")

	_, err = c.run("wrong\n", "login", "--email", "user@fleet.com")
	assert.ErrorContains(t, err, "invalid credentials")

	_, err = c.run("", "login", "--email", "user@fleet.com")
	assert.ErrorContains(t, err, "no password given")
}

func TestVehiclesByRole(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "--email", "user@fleet.com", "--password", "user123")

	out := c.mustRun("vehicles", "list")
	assert.Contains(t, out, "Tesla Model 3")
	assert.Contains(t, out, "John Doe")
	assert.NotContains(t, out, "Volvo XC90")

	_, err := c.run("", "vehicles", "create", "--name", "Kia EV6", "--number", "GJ-01-AA-0001", "--assign", "2")
	assert.ErrorContains(t, err, "admin role required")

	_, err = c.run("", "telemetry", "3")
	assert.ErrorContains(t, err, "not found")

	out = c.mustRun("telemetry", "1", "--history")
	assert.Contains(t, out, "65 km/h")
	assert.Contains(t, out, "87% healthy")
	assert.Contains(t, out, "HOUR")

	var s model.FleetSummary
	require.NoError(t, json.Unmarshal([]byte(c.mustRun("vehicles", "summary", "-o", "json")), &s))
	assert.Equal(t, model.FleetSummary{TotalVehicles: 2, ActiveVehicles: 2, AverageSpeed: 54, AverageBattery: 76}, s)
}

func TestAdminVehicleCommands(t *testing.T) {
	c := newCLI(t)
	c.mustRun("login", "--email", "admin@fleet.com", "--password", "admin123")

	var created []model.Vehicle
	out := c.mustRun("vehicles", "create", "--name", "Tesla Model 3", "--number", "MH-12-AB-1234", "--assign", "2", "-o", "json")
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.Len(t, created, 1)
	assert.NotEmpty(t, created[0].ID)
	assert.Equal(t, model.VehicleActive, created[0].Status)

	out = c.mustRun("vehicles", "update", "3", "--status", "active", "--assign", "999")
	assert.Contains(t, out, "Unknown")
	assert.Contains(t, out, "active")

	_, err := c.run("", "vehicles", "update", "3")
	assert.ErrorContains(t, err, "nothing to update")

	_, err = c.run("", "vehicles", "create", "--name", "Kia EV6")
	assert.ErrorContains(t, err, "number, assignedUserId")

	assert.Equal(t, "Deleted vehicle 2\n", c.mustRun("vehicles", "delete", "2"))
	_, err = c.run("", "vehicles", "delete", "404")
	assert.ErrorContains(t, err, "not found")

	out = c.mustRun("users")
	assert.Contains(t, out, "Jane Smith")
}

func TestInvalidOptionsAreRejected(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("", "whoami", "--session.backend=etcd")
	assert.ErrorContains(t, err, "unknown session backend")

	_, err = c.run("", "whoami", "-o", "yaml")
	assert.Error(t, err)
}

func TestOneShotInvocationsDoNotPublish(t *testing.T) {
	opts := options.NewFleetviewOptions()
	opts.MqttOptions.Enabled = true

	cfg, err := oneShotConfig(opts)
	require.NoError(t, err)
	assert.False(t, cfg.MqttOptions.Enabled)
	assert.Equal(t, opts.MqttOptions.Broker, cfg.MqttOptions.Broker)
	assert.True(t, opts.MqttOptions.Enabled, "the shared options are left alone")
}
