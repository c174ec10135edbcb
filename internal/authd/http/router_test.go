package http_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	httpapi "github.com/credstack/authd/internal/authd/http"
	"github.com/credstack/authd/internal/authd/service"
	"github.com/credstack/authd/internal/authd/store/drivers/sqlite"
	"github.com/credstack/authd/pkg/authsdk"
	"github.com/credstack/authd/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *authsdk.Client {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec, err := jwtx.NewCodec([]byte("0123456789abcdef0123456789abcdef"), "authd-test", 0, 0)
	require.NoError(t, err)

	svc := &service.AuthService{
		Store:   st,
		Codec:   codec,
		Revoker: &service.Revoker{Store: st, Codec: codec},
		Limiter: service.NewLoginLimiter(100, time.Minute),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := httpapi.NewRouter("test", st, svc, logger)
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return authsdk.NewClient(srv.URL)
}

func registerAlice(t *testing.T, client *authsdk.Client) *authsdk.UserResponse {
	t.Helper()

	user, err := client.Register(context.Background(), authsdk.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		FullName: "Alice Example",
		Password: "Sup3rStrong!",
	})
	require.NoError(t, err)
	return user
}

func requireAPIError(t *testing.T, err error, code string, status int) {
	t.Helper()

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, code, apiErr.Code)
	require.Equal(t, status, apiErr.StatusCode)
}

func TestAuthFlow(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)

	user := registerAlice(t, client)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)
	require.False(t, user.Disabled)

	tokens, err := client.Login(ctx, "alice", "Sup3rStrong!")
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)
	require.Equal(t, "bearer", tokens.TokenType)

	me, err := client.Me(ctx, tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, me.ID)

	refreshed, err := client.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, refreshed.AccessToken)
	require.Empty(t, refreshed.RefreshToken)

	require.NoError(t, client.Logout(ctx, tokens.AccessToken))

	_, err = client.Me(ctx, tokens.AccessToken)
	requireAPIError(t, err, authsdk.ErrorCodeTokenRevoked, 401)

	// The refreshed access token was never revoked and still works.
	me, err = client.Me(ctx, refreshed.AccessToken)
	require.NoError(t, err)
	require.Equal(t, "alice", me.Username)
}

func TestRegisterConflicts(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)
	registerAlice(t, client)

	_, err := client.Register(ctx, authsdk.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "Sup3rStrong!",
	})
	requireAPIError(t, err, authsdk.ErrorCodeAlreadyRegistered, 409)

	_, err = client.Register(ctx, authsdk.RegisterRequest{
		Username: "alice2",
		Email:    "alice@example.com",
		Password: "Sup3rStrong!",
	})
	requireAPIError(t, err, authsdk.ErrorCodeAlreadyRegistered, 409)

	_, err = client.Register(ctx, authsdk.RegisterRequest{
		Username: "x",
		Email:    "x@example.com",
		Password: "Sup3rStrong!",
	})
	requireAPIError(t, err, authsdk.ErrorCodeInvalidRequest, 400)
}

func TestLoginFailures(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)
	registerAlice(t, client)

	_, err := client.Login(ctx, "alice", "WrongPass1!")
	requireAPIError(t, err, authsdk.ErrorCodeInvalidCredentials, 401)

	_, err = client.Login(ctx, "nobody", "Sup3rStrong!")
	requireAPIError(t, err, authsdk.ErrorCodeInvalidCredentials, 401)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)
	registerAlice(t, client)

	tokens, err := client.Login(ctx, "alice", "Sup3rStrong!")
	require.NoError(t, err)

	_, err = client.Refresh(ctx, tokens.AccessToken)
	requireAPIError(t, err, authsdk.ErrorCodeInvalidToken, 401)
}

func TestBearerTokenRequired(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)

	_, err := client.Me(ctx, "")
	requireAPIError(t, err, authsdk.ErrorCodeInvalidToken, 401)

	err = client.Logout(ctx, "garbage")
	requireAPIError(t, err, authsdk.ErrorCodeInvalidToken, 401)
}

func TestPurgeTokensEndpoint(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)
	registerAlice(t, client)

	tokens, err := client.Login(ctx, "alice", "Sup3rStrong!")
	require.NoError(t, err)

	purged, err := client.PurgeTokens(ctx, tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, int64(0), purged.Purged)

	_, err = client.PurgeTokens(ctx, "garbage")
	requireAPIError(t, err, authsdk.ErrorCodeInvalidToken, 401)
}

func TestHealthEndpoints(t *testing.T) {
	ctx := context.Background()
	client := newTestServer(t)

	live, err := client.GetLiveness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)

	ready, err := client.GetReadiness(ctx)
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.NotNil(t, ready.Checks)
	require.Equal(t, "ok", ready.Checks.Database)
}
