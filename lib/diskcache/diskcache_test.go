package diskcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const salesUrl = "http://epos.bihar.gov.in/fps_transactions.action"

func TestKeyDeterminism(t *testing.T) {
	payload := map[string]string{"dist_code": "233", "fps_id": "123300100909", "month": "5", "year": "2020"}

	a, err := Key(salesUrl, payload)
	require.NoError(t, err)
	b, err := Key(salesUrl, payload)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.Len(t, a, 64)

	// same fields, built in a different order
	reordered := map[string]string{}
	for _, k := range []string{"year", "month", "fps_id", "dist_code"} {
		reordered[k] = payload[k]
	}
	c, err := Key(salesUrl, reordered)
	require.NoError(t, err)
	require.Equal(t, a, c)
}

func TestKeyDistinct(t *testing.T) {
	testCases := []struct {
		destination string
		payload     map[string]string
	}{
		{destination: salesUrl, payload: map[string]string{"month": "5", "year": "2020"}},
		{destination: salesUrl, payload: map[string]string{"month": "6", "year": "2020"}},
		{destination: salesUrl, payload: map[string]string{"month": "5", "year": "2021"}},
		{destination: salesUrl, payload: map[string]string{"month": "5"}},
		{destination: salesUrl, payload: map[string]string{"month": "5", "year": "2020", "src_no": "1"}},
		{destination: "http://epos.bihar.gov.in/SRC_Trans_Details.jsp", payload: map[string]string{"month": "5", "year": "2020"}},
		{destination: salesUrl, payload: nil},
	}

	seen := map[string]int{}
	for i, test := range testCases {
		key, err := Key(test.destination, test.payload)
		require.NoError(t, err)
		prev, dup := seen[key]
		require.False(t, dup, "case %d collides with case %d", i, prev)
		seen[key] = i
	}
}

func TestKeyKeepsPathDistinct(t *testing.T) {
	payload := map[string]string{"src_no": "10", "month": "5", "year": "2020"}
	pairs := [][2]string{
		{"http://h.test/SRC_Trans_Details.jsp", "http://h.test/SRC_Trans_Details.jsp/"},
		{"http://h.test/a", "http://h.test/a/"},
		{"http://h.test/a/b/../c", "http://h.test/a/c"},
		{"http://h.test/a/./c", "http://h.test/a/c"},
	}
	for _, pair := range pairs {
		a, err := Key(pair[0], payload)
		require.NoError(t, err)
		b, err := Key(pair[1], payload)
		require.NoError(t, err)
		require.NotEqual(t, a, b, "%s vs %s", pair[0], pair[1])
	}
}

func TestKeyNormalizesDestination(t *testing.T) {
	payload := map[string]string{"src_no": "10"}
	a, err := Key("HTTP://EPOS.bihar.gov.in:80/SRC_Trans_Details.jsp", payload)
	require.NoError(t, err)
	b, err := Key("http://epos.bihar.gov.in/SRC_Trans_Details.jsp", payload)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "data"))

	key, err := Key(salesUrl, map[string]string{"month": "5"})
	require.NoError(t, err)

	require.False(t, store.Exists(key))
	_, found, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.False(t, found)

	contents := []string{
		"<html><body><table></table></body></html>",
		"line one\r\nline two\n\tunicode: अनाज ✓",
	}
	for _, content := range contents {
		require.NoError(t, store.Put(ctx, key, content))
		require.True(t, store.Exists(key))

		cached, found, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, content, cached)
	}

	onDisk, err := os.ReadFile(filepath.Join(store.Root(), key))
	require.NoError(t, err)
	require.Equal(t, contents[len(contents)-1], string(onDisk))
}

func TestStoreGetPropagatesIOErrors(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	// a directory where the slot file should be cannot be read as content
	require.NoError(t, os.Mkdir(store.Path("slot"), 0777))
	require.False(t, store.Exists("slot"))

	_, _, err := store.Get(context.Background(), "slot")
	require.Error(t, err)
}
