package handlers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/owobot-dev/owobot/internal/counter"
	"github.com/owobot-dev/owobot/internal/i18n"
)

func TestFormatUptime(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{d: 0, want: "0d 00:00:00"},
		{d: 61 * time.Second, want: "0d 00:01:01"},
		{d: 26*time.Hour + 3*time.Minute + 4*time.Second, want: "1d 02:03:04"},
		{d: -time.Minute, want: "0d 00:00:00"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, formatUptime(tc.d))
	}
}

func TestStatusReportsUptimeAndTotals(t *testing.T) {
	catalog, err := i18n.LoadFromDir("../../../translations")
	require.NoError(t, err)

	ctr, err := counter.NewStore(filepath.Join(t.TempDir(), "total.txt"), nil)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = ctr.Increment()
		require.NoError(t, err)
	}

	client := &stubClient{}
	set := New(Deps{
		Client:    client,
		Catalog:   catalog,
		Counter:   ctr,
		Version:   "1.2.3",
		StartedAt: time.Now().Add(-25 * time.Hour),
	})

	err = set.Status(context.Background(), privateRequest(""))
	require.NoError(t, err)

	require.Len(t, client.texts, 1)
	assert.Contains(t, client.texts[0], "1.2.3")
	assert.Contains(t, client.texts[0], "1d ")
	assert.Contains(t, client.texts[0], "NSFW mode is off")
	assert.Contains(t, client.texts[0], "3")
}
