// Package testutil starts the sandbox platform for integration tests.
package testutil

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	echoapi "github.com/trezcool/hackadmin/apps/api/echo"
	"github.com/trezcool/hackadmin/core"
	apisvc "github.com/trezcool/hackadmin/services/api"
	inmemdb "github.com/trezcool/hackadmin/storage/inmem"
)

const (
	AdminEmail    = "admin@hackathon.local"
	AdminPassword = "Admin#2024pw"
)

// Sandbox is a running sandbox platform with a client pointed at it.
type Sandbox struct {
	Conf     *core.Config
	Server   *echoapi.Server
	HTTP     *httptest.Server
	DB       *inmemdb.DB
	Client   *apisvc.Client
	Registry *prometheus.Registry
}

// Config loads the TEST configuration.
func Config(t *testing.T) *core.Config {
	t.Helper()
	t.Setenv("ENV", "TEST")
	conf, err := core.NewConfig()
	if err != nil {
		t.Fatalf("core.NewConfig() failed: %v", err)
	}
	conf.Session.Path = t.TempDir() + "/session.yaml"
	conf.Sandbox.AdminEmail = AdminEmail
	conf.Sandbox.AdminPassword = AdminPassword
	return conf
}

// StartSandbox seeds a fresh database and serves it until the test ends.
// mutate, if given, adjusts the configuration first.
func StartSandbox(t *testing.T, mutate ...func(conf *core.Config)) *Sandbox {
	t.Helper()
	conf := Config(t)
	for _, m := range mutate {
		m(conf)
	}

	db := inmemdb.NewDB()
	err := inmemdb.Seed(db, inmemdb.SeedOptions{
		AdminEmail:        conf.Sandbox.AdminEmail,
		AdminPassword:     conf.Sandbox.AdminPassword,
		ExposeDomainCodes: conf.Sandbox.ExposeDomainCodes,
	})
	if err != nil {
		t.Fatalf("inmemdb.Seed() failed: %v", err)
	}

	server := echoapi.NewServer(echoapi.ServerDeps{Conf: conf, DB: db, DisableReqLogs: true})
	ts := httptest.NewServer(server)
	t.Cleanup(func() {
		ts.Close()
		_ = server.Close()
	})

	conf.API.BaseURL = ts.URL
	reg := prometheus.NewRegistry()
	client := apisvc.NewClientFromConfig(conf, nil, reg)

	return &Sandbox{Conf: conf, Server: server, HTTP: ts, DB: db, Client: client, Registry: reg}
}

// AdminToken returns a valid token for the seeded admin.
func (sb *Sandbox) AdminToken(t *testing.T) string {
	t.Helper()
	rec, err := sb.DB.AdminByEmail(sb.Conf.Sandbox.AdminEmail)
	if err != nil {
		t.Fatalf("AdminByEmail() failed: %v", err)
	}
	token, err := sb.Server.GenerateToken(rec)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}
	return token
}
