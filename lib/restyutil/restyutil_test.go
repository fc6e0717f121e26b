package restyutil

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestFormatHttpMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Portal", "epos")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	res, err := resty.New().R().
		SetFormData(map[string]string{"month": "5", "year": "2020"}).
		Post(server.URL + "/fps_transactions.action")
	require.NoError(t, err)

	msg := FormatHttpMessage(res)
	require.Contains(t, msg, "POST "+server.URL+"/fps_transactions.action")
	require.Contains(t, msg, "month=5&year=2020")
	require.Contains(t, msg, "X-Portal: epos")
	require.Contains(t, msg, "<html>ok</html>")
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resty")
	require.NoError(t, os.MkdirAll(dir, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.txt"), []byte("old"), 0600))

	out, err := NewFilesystemOutput(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	out.Write("1", "contents")

	_, err = os.Stat(filepath.Join(dir, "stale.txt"))
	require.True(t, os.IsNotExist(err))

	written, err := os.ReadFile(filepath.Join(dir, "1.txt"))
	require.NoError(t, err)
	require.Equal(t, "contents", string(written))
}

func TestFilesystemOutputLogsWriteFailures(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resty")
	logs := &bytes.Buffer{}
	out, err := NewFilesystemOutput(dir, slog.New(slog.NewTextHandler(logs, nil)))
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))
	out.Write("1", "contents")
	require.Contains(t, logs.String(), "failed to write message info file")
	require.Contains(t, logs.String(), "id=1")

	require.Panics(t, func() {
		NewFilesystemOutput(dir, nil)
	})
}
