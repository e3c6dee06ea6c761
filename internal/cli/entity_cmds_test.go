package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lumicrm/lumicrm-go/internal/apiclient"
	"github.com/lumicrm/lumicrm-go/internal/auth"
	"github.com/lumicrm/lumicrm-go/internal/config"
	contactdomain "github.com/lumicrm/lumicrm-go/internal/contact/domain"
	"github.com/lumicrm/lumicrm-go/internal/form"
	"github.com/lumicrm/lumicrm-go/internal/store"
	"github.com/lumicrm/lumicrm-go/internal/stubapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestApp wires just enough of the App against an in-process backend
// for command tests, signed in as a seeded user.
func newTestApp(t *testing.T) *App {
	t.Helper()

	server, err := stubapi.New(zap.NewNop())
	require.NoError(t, err)
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	httpClient := &http.Client{Jar: jar, Timeout: 5 * time.Second}
	api := apiclient.NewWithHTTPClient(srv.URL, httpClient, zap.NewNop())

	cfg := config.Config{APIBaseURL: srv.URL}
	_, err = server.SeedUser("Op", "op@example.test", "s3cret-pass")
	require.NoError(t, err)
	require.NoError(t, auth.NewService(api, cfg, zap.NewNop()).
		LoginWithPassword(context.Background(), "op@example.test", "s3cret-pass"))

	app := &App{
		Cfg:      cfg,
		Log:      zap.NewNop(),
		API:      api,
		HTTP:     httpClient,
		Contacts: store.New(api, zap.NewNop(), "contacts", contactdomain.Merge),
	}
	app.ContactForm = form.NewController(app.Contacts,
		func() contactdomain.Contact { return contactdomain.Contact{} },
		contactdomain.Validate)
	return app
}

func runContactsCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	cmd := newContactsCmd(func() *App { return app })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestContactsCreateCommand(t *testing.T) {
	app := newTestApp(t)

	out, err := runContactsCmd(t, app, "create", "--name", "Ada Vermeulen", "--email", "ada@acme.test")
	require.NoError(t, err)
	assert.Contains(t, out, "created contact")
	// The form closed on commit.
	assert.Equal(t, form.StateClosed, app.ContactForm.State())

	require.NoError(t, app.Contacts.Load(context.Background()))
	require.Len(t, app.Contacts.Snapshot(), 1)
	assert.Equal(t, "Ada Vermeulen", app.Contacts.Snapshot()[0].Name)
}

func TestContactsCreateCommand_InvalidDraftStaysLocal(t *testing.T) {
	app := newTestApp(t)

	_, err := runContactsCmd(t, app, "create", "--name", "Bad Email", "--email", "not-an-address")
	require.Error(t, err)
	var verr *form.ValidationError
	assert.ErrorAs(t, err, &verr)
	// A validation failure keeps the form open and never hits the wire.
	assert.Equal(t, form.StateOpen, app.ContactForm.State())

	require.NoError(t, app.Contacts.Load(context.Background()))
	assert.Empty(t, app.Contacts.Snapshot())
}

func TestContactsEditCommand(t *testing.T) {
	app := newTestApp(t)
	created, err := app.Contacts.Create(context.Background(), contactdomain.Contact{Name: "Before"})
	require.NoError(t, err)

	out, err := runContactsCmd(t, app, "edit", created.ID, "--company", "Acme")
	require.NoError(t, err)
	assert.Contains(t, out, "updated contact")

	require.NoError(t, app.Contacts.Load(context.Background()))
	got, ok := app.Contacts.Get(created.ID)
	require.True(t, ok)
	assert.Equal(t, "Before", got.Name)
	assert.Equal(t, "Acme", got.Company)
}

func TestContactsDeleteCommand_ConfirmGate(t *testing.T) {
	app := newTestApp(t)
	created, err := app.Contacts.Create(context.Background(), contactdomain.Contact{Name: "Keep Me"})
	require.NoError(t, err)

	// Without --yes the confirm gate declines and nothing changes.
	out, err := runContactsCmd(t, app, "delete", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "not deleted")
	require.NoError(t, app.Contacts.Load(context.Background()))
	assert.Len(t, app.Contacts.Snapshot(), 1)

	out, err = runContactsCmd(t, app, "delete", created.ID, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
	require.NoError(t, app.Contacts.Load(context.Background()))
	assert.Empty(t, app.Contacts.Snapshot())
}
