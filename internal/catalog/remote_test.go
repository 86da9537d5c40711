package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"profitdash/pkg/api"
)

func TestRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/product-lines/gleamont":
			_ = json.NewEncoder(w).Encode(GleamontLine())
		case "/api/product-lines/broken":
			_, _ = w.Write([]byte(`{"name":"broken","store_currency":"USD","cost_currency":"USD"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, "", 0, nil).WithRetry(func() backoff.BackOff { return &backoff.StopBackOff{} })
	remote := NewRemote(client)
	ctx := context.Background()

	line, err := remote.Get(ctx, Gleamont)
	require.NoError(t, err)
	assert.Equal(t, GleamontLine(), line)

	_, err = remote.Get(ctx, "unknown")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = remote.Get(ctx, "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	line, err = Chain{remote, Builtin()}.Get(ctx, Rhoms)
	require.NoError(t, err)
	assert.Equal(t, Rhoms, line.Name)
}
