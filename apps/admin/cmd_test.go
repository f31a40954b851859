package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/hackadmin/apps"
	echoapi "github.com/trezcool/hackadmin/apps/api/echo"
	"github.com/trezcool/hackadmin/core"
	"github.com/trezcool/hackadmin/core/annonce"
	"github.com/trezcool/hackadmin/core/auth"
	"github.com/trezcool/hackadmin/core/classement"
	"github.com/trezcool/hackadmin/core/epreuve"
	"github.com/trezcool/hackadmin/core/filter"
	inmemdb "github.com/trezcool/hackadmin/storage/inmem"
	testutil "github.com/trezcool/hackadmin/tests"
)

type cliTest struct {
	name       string
	args       []string // without program name
	pwds       []string // answers to the password prompts
	wantErr    error
	wantErrStr string
	wantOut    string // substring of the output
	wantPrint  string // substring of the printed error
}

func setup(t *testing.T) (*commandLine, *testutil.Sandbox, *bytes.Buffer) {
	t.Helper()
	sb := testutil.StartSandbox(t, func(conf *core.Config) {
		conf.Sandbox.RequireAuth = true
	})
	out := &bytes.Buffer{}
	cli := newCommandLine(sb.Conf, nil, prometheus.NewRegistry(), out)

	orig := readPasswordFunc
	t.Cleanup(func() { readPasswordFunc = orig })
	return cli, sb, out
}

// answer makes the password prompts return pwds, in order.
func answer(pwds ...string) {
	readPasswordFunc = func(int) ([]byte, error) {
		if len(pwds) == 0 {
			return nil, nil
		}
		pwd := pwds[0]
		pwds = pwds[1:]
		return []byte(pwd), nil
	}
}

func login(t *testing.T, cli *commandLine) {
	t.Helper()
	answer(testutil.AdminPassword)
	require.NoError(t, cli.run([]string{"admin", "login", "--email", testutil.AdminEmail}))
}

func runTests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			answer(tt.pwds...)
			err := cli.run(args)
			switch {
			case tt.wantErr != nil:
				assert.True(t, errors.Is(err, tt.wantErr), "cli.run() error = %v, wantErr %v", err, tt.wantErr)
			case tt.wantErrStr != "", tt.wantPrint != "":
				assert.Error(t, err)
				if tt.wantErrStr == "" {
					break
				}
				assert.Equal(t, tt.wantErrStr, core.Message(err))
			default:
				assert.NoError(t, err)
			}
			if tt.wantPrint != "" {
				var buf bytes.Buffer
				printError(&buf, err, cli.translator)
				assert.Contains(t, buf.String(), tt.wantPrint)
			}
			if tt.wantOut != "" {
				assert.Contains(t, out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_session(t *testing.T) {
	cli, _, out := setup(t)

	runTests(t, cli, out, []cliTest{
		{name: "whoami: anonymous", args: []string{"whoami"}, wantErr: auth.ErrNotAuthenticated},
		{name: "annonces: anonymous", args: []string{"annonces", "list"}, wantErr: auth.ErrNotAuthenticated},
		{name: "login: no email", args: []string{"login"}, wantErrStr: `required flag(s) "email" not set`},
		{name: "login: empty password", args: []string{"login", "--email", testutil.AdminEmail}, wantErrStr: "empty password"},
		{name: "login: bad email", args: []string{"login", "--email", "admin"}, pwds: []string{"x"}, wantPrint: "error: validation failed\n  email: "},
		{
			name:       "login: wrong password",
			args:       []string{"login", "--email", testutil.AdminEmail},
			pwds:       []string{"wrong-password"},
			wantErrStr: "identifiants invalides",
		},
		{
			name:    "login",
			args:    []string{"login", "--email", testutil.AdminEmail},
			pwds:    []string{testutil.AdminPassword},
			wantOut: "Logged in as " + testutil.AdminEmail,
		},
		{
			name:    "login: twice",
			args:    []string{"login", "--email", testutil.AdminEmail},
			pwds:    []string{testutil.AdminPassword},
			wantErr: auth.ErrAlreadyLoggedIn,
		},
		{name: "whoami", args: []string{"whoami"}, wantOut: "Admin <" + testutil.AdminEmail + ">"},
		{name: "logout", args: []string{"logout"}, wantOut: "Logged out"},
		{name: "whoami: logged out", args: []string{"whoami"}, wantErr: auth.ErrNotAuthenticated},
		{name: "bad output format", args: []string{"-o", "xml", "whoami"}, wantErrStr: `unknown output format "xml"`},
	})
}

func Test_commandLine_restore(t *testing.T) {
	cli, sb, out := setup(t)
	login(t, cli)

	// a new process picks the saved session up
	other := newCommandLine(sb.Conf, nil, prometheus.NewRegistry(), out)
	out.Reset()
	require.NoError(t, other.run([]string{"admin", "whoami"}))
	assert.Contains(t, out.String(), testutil.AdminEmail)
}

func Test_commandLine_register(t *testing.T) {
	cli, sb, out := setup(t)
	login(t, cli)

	base := []string{"register", "--nom", "Nouvel Admin", "--email", "nouvel@hack.cd"}
	runTests(t, cli, out, []cliTest{
		{name: "weak password", args: base, pwds: []string{"password", "password"}, wantPrint: "password must contain at least 1 uppercase"},
		{name: "mismatch", args: base, pwds: []string{"Zx9#kLm2qR", "Zx9#kLm2qr"}, wantPrint: "passwords do not match"},
		{name: "ok", args: base, pwds: []string{"Zx9#kLm2qR", "Zx9#kLm2qR"}, wantOut: "Registered nouvel@hack.cd"},
		{name: "taken", args: base, pwds: []string{"Zx9#kLm2qR", "Zx9#kLm2qR"}, wantErrStr: "un admin avec cet email existe déjà"},
	})

	rec, err := sb.DB.AdminByEmail("nouvel@hack.cd")
	require.NoError(t, err)
	assert.NoError(t, rec.CheckPassword("Zx9#kLm2qR"))
}

func Test_commandLine_annonces(t *testing.T) {
	cli, _, out := setup(t)
	login(t, cli)

	run := func(args ...string) error {
		out.Reset()
		return cli.run(append([]string{"admin", "-o", "json"}, args...))
	}

	require.NoError(t, run("annonces", "create", "--titre", "Atelier Go", "--description", "Salle 2", "--cible", "EQUIPES"))
	var created annonce.Annonce
	require.NoError(t, json.Unmarshal(out.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, annonce.CibleEquipes, created.Cible)

	require.NoError(t, run("annonces", "create", "--titre", "Pause café", "--description", "Hall"))

	t.Run("search", func(t *testing.T) {
		require.NoError(t, run("annonces", "list", "--search", "ATELIER"))
		var got []annonce.Annonce
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, []annonce.Annonce{created}, got)
	})

	t.Run("update keeps unset fields", func(t *testing.T) {
		require.NoError(t, run("annonces", "update", created.ID, "--titre", "Atelier Rust"))
		var got annonce.Annonce
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, "Atelier Rust", got.Titre)
		assert.Equal(t, "Salle 2", got.Description)
		assert.Equal(t, annonce.CibleEquipes, got.Cible)

		_, isCurrent := cli.dash.Annonces.CurrentItem()
		assert.False(t, isCurrent)
	})

	t.Run("update unknown", func(t *testing.T) {
		err := run("annonces", "update", "nope", "--titre", "x")
		var argErr *apps.ArgumentError
		assert.True(t, errors.As(err, &argErr), err)
	})

	t.Run("local validation", func(t *testing.T) {
		err := run("annonces", "create", "--titre", "Sans description")
		require.Error(t, err)
		var buf bytes.Buffer
		printError(&buf, err, cli.translator)
		assert.Equal(t, "error: validation failed\n  description: this field is required\n", buf.String())
		assert.Equal(t, 2, cli.dash.Annonces.Len(), "nothing must be sent")
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, run("annonces", "delete", created.ID))
		assert.Contains(t, out.String(), "Deleted "+created.ID)

		err := run("annonces", "delete", created.ID)
		assert.True(t, core.IsNotFound(err))
		var buf bytes.Buffer
		printError(&buf, err, cli.translator)
		assert.Equal(t, "error: not found\n", buf.String())
	})

	t.Run("table", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "annonces", "list"}))
		assert.Contains(t, out.String(), "TITRE")
		assert.Contains(t, out.String(), "Pause café")
		assert.NotContains(t, out.String(), "Atelier")
	})
}

func Test_commandLine_epreuves(t *testing.T) {
	cli, _, out := setup(t)
	login(t, cli)

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "-o", "json", "epreuves", "domaines"}))
	var domaines []epreuve.Domaine
	require.NoError(t, json.Unmarshal(out.Bytes(), &domaines))
	require.Len(t, domaines, 4)

	out.Reset()
	require.NoError(t, cli.run([]string{
		"admin", "-o", "json", "epreuves", "create",
		"--titre", "Algo", "--description", "Tris et graphes",
		"--debut", "2026-11-02", "--fin", "2026-11-03", "--duree", "90",
		"--domaine", domaines[1].ID,
	}))
	var created epreuve.Epreuve
	require.NoError(t, json.Unmarshal(out.Bytes(), &created))
	assert.Equal(t, 2, created.DomaineID)
	assert.Equal(t, 90, created.Duree)

	t.Run("update pre-fills the domain", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "-o", "json", "epreuves", "update", created.ID, "--duree", "120"}))
		var got epreuve.Epreuve
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Equal(t, 120, got.Duree)
		assert.Equal(t, 2, got.DomaineID)
		assert.Equal(t, "Algo", got.Titre)
	})

	t.Run("table shows the domain name", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "epreuves", "list"}))
		assert.Contains(t, out.String(), domaines[1].Nom)
	})

	t.Run("bad duration", func(t *testing.T) {
		err := cli.run([]string{"admin", "epreuves", "create", "--duree", "deux"})
		var argErr *apps.ArgumentError
		require.True(t, errors.As(err, &argErr), err)
		assert.Equal(t, `--duree: "deux" is not a number`, err.Error())
	})

	t.Run("questions have no update", func(t *testing.T) {
		err := cli.run([]string{"admin", "questions", "update", "q1"})
		assert.EqualError(t, err, `unknown command "update" for "admin questions"`)
	})

	t.Run("questions and propositions", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cli.run([]string{
			"admin", "-o", "json", "questions", "create", "--epreuve", created.ID,
			"--intitule", "Complexité du tri fusion ?", "--temps", "30", "--points", "2",
		}))
		var q struct{ ID string }
		require.NoError(t, json.Unmarshal(out.Bytes(), &q))

		out.Reset()
		require.NoError(t, cli.run([]string{
			"admin", "propositions", "create", "--question", q.ID, "--libelle", "O(n²)",
		}))
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "propositions", "list", "--question", q.ID}))
		assert.Contains(t, out.String(), "no proposition is flagged correct")
		assert.Contains(t, out.String(), "O(n²)")
	})
}

func Test_commandLine_classement(t *testing.T) {
	cli, sb, out := setup(t)
	require.NoError(t, sb.DB.Epreuves.Insert(epreuve.Epreuve{ID: "e1", Titre: "Algo"}))
	require.NoError(t, inmemdb.SeedRanking(sb.DB, "e1", 10, 5, 10, 7))
	login(t, cli)

	rankingOf := func(args ...string) []filter.Ranked[classement.Equipe] {
		t.Helper()
		out.Reset()
		require.NoError(t, cli.run(append([]string{"admin", "-o", "json", "classement", "e1"}, args...)))
		var got []filter.Ranked[classement.Equipe]
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		return got
	}

	t.Run("full", func(t *testing.T) {
		got := rankingOf()
		require.Len(t, got, 3)
		assert.Equal(t, 1, got[0].Rank)
		assert.Equal(t, "Binary Hawks", got[0].Entry.Nom)
	})

	t.Run("bucket keeps the rank", func(t *testing.T) {
		got := rankingOf("--bucket", "BON")
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].Rank)
		assert.Equal(t, "Null Pointers", got[0].Entry.Nom)
	})

	t.Run("search members", func(t *testing.T) {
		got := rankingOf("--search", "grace")
		require.Len(t, got, 1)
		assert.Equal(t, "Binary Hawks", got[0].Entry.Nom)
	})

	t.Run("unknown bucket", func(t *testing.T) {
		err := cli.run([]string{"admin", "classement", "e1", "--bucket", "parfait"})
		assert.EqualError(t, err, `unknown bucket "parfait"`)
	})

	t.Run("table footer", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "classement", "e1"}))
		assert.Contains(t, out.String(), "excellent: 1  bon: 1  moyen: 1  faible: 0")
	})

	t.Run("unknown exam", func(t *testing.T) {
		err := cli.run([]string{"admin", "classement", "nope"})
		assert.True(t, core.IsNotFound(err))
	})
}

func Test_commandLine_status(t *testing.T) {
	cli, sb, out := setup(t)
	require.NoError(t, sb.DB.Etudiants.Insert(classement.Etudiant{ID: "solo", Nom: "Seul"}))
	login(t, cli)

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "-o", "json", "status"}))
	var st status
	require.NoError(t, json.Unmarshal(out.Bytes(), &st))
	assert.Equal(t, 6, st.Counts["etudiants"])
	assert.Equal(t, 4, st.Counts["domaines"])
	assert.Empty(t, st.Errors)
	assert.Equal(t, []string{"solo"}, st.Orphans["etudiants"])

	t.Run("etudiants of a team", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "-o", "json", "etudiants", "--equipe", "binary hawks"}))
		var got []classement.Etudiant
		require.NoError(t, json.Unmarshal(out.Bytes(), &got))
		assert.Len(t, got, 2)
	})

	t.Run("partial failure", func(t *testing.T) {
		sb.Server.InjectFault("/api/ListProgrammeAdmin", echoapi.Fault{Status: 500, Message: "base indisponible"})
		out.Reset()
		require.NoError(t, cli.run([]string{"admin", "status"}))
		assert.Contains(t, out.String(), "Failed:")
		assert.Contains(t, out.String(), "base indisponible")
	})
}

func Test_printError(t *testing.T) {
	_, translator := core.NewValidator()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "plain", err: errors.New("boom"), want: "error: boom\n"},
		{
			name: "server error",
			err:  errors.Wrap(&core.APIError{Status: 500, Message: "base indisponible"}, "listing annonces"),
			want: "error: base indisponible\nthe platform failed to answer, try again later\n",
		},
		{
			name: "server fields",
			err:  &core.APIError{Status: 422, Message: "this field is required", Fields: map[string][]string{"titre": {"this field is required"}}},
			want: "error: this field is required\n  titre: this field is required\n",
		},
		{
			name: "local fields",
			err:  core.NewValidationError(nil, core.FieldError{Field: "email", Error: "taken"}),
			want: "error: validation failed\n  email: taken\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printError(&buf, tt.err, translator)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
