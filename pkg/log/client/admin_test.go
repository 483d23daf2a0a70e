// SPDX-License-Identifier: GPL-3.0-only
package client

import (
	"context"
	"errors"
	"testing"

	httpPkg "github.com/bascanada/admintail/pkg/http"
	"github.com/h2non/gock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const backend = "http://admin.local"

func newAdmin(t *testing.T) *AdminClient {
	t.Helper()
	h := httpPkg.GetClient(backend, nil)
	gock.InterceptClient(h.Raw())
	gock.DisableNetworking()
	t.Cleanup(func() {
		gock.RestoreClient(h.Raw())
		gock.Off()
	})
	return NewAdminClient(h)
}

func TestAdminClient_Recent(t *testing.T) {
	admin := newAdmin(t)

	gock.New(backend).
		Get(RecentPath).
		MatchParam("count", "100").
		Reply(200).
		BodyString(`{"logs":[
			{"id":4,"timestamp":"2024-05-01T10:00:00.123","level":"INFO","logger":"app","message":"started"},
			{"id":5,"timestamp":"2024-05-01T10:00:01.000","level":"ERROR","logger":"app.db","message":"boom"}
		]}`)

	entries, err := admin.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, LogEntry{ID: 4, Timestamp: "2024-05-01T10:00:00.123", Level: LevelInfo, Logger: "app", Message: "started"}, entries[0])
	assert.Equal(t, int64(5), LastID(entries))
	assert.True(t, gock.IsDone())
}

func TestAdminClient_Recent_MissingLogs(t *testing.T) {
	admin := newAdmin(t)

	gock.New(backend).
		Get(RecentPath).
		MatchParam("count", "20").
		Reply(200).
		JSON(map[string]any{})

	entries, err := admin.Recent(context.Background(), 20)
	require.NoError(t, err)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestAdminClient_Recent_Failure(t *testing.T) {
	admin := newAdmin(t)

	gock.New(backend).
		Get(RecentPath).
		Reply(500).
		JSON(map[string]string{"detail": "broadcaster offline"})

	_, err := admin.Recent(context.Background(), 10)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))

	var apiErr *httpPkg.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "broadcaster offline", apiErr.Detail)
}

func TestAdminClient_StreamURL(t *testing.T) {
	admin := NewAdminClient(httpPkg.GetClient(backend+"/", nil))
	assert.Equal(t, backend+StreamPath+"?last_id=7", admin.StreamURL(7))
	assert.Equal(t, backend+StreamPath+"?last_id=0", admin.StreamURL(0))
}
