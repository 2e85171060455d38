package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	appconfig "mall_saas_202610/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	now := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)

	key := objectKey("invoices", "INV-1.pdf", now)
	assert.Regexp(t, regexp.MustCompile(`^invoices/2026/03/09/[0-9a-f-]{36}\.pdf$`), key)

	key = objectKey("", "noext", now)
	assert.Regexp(t, regexp.MustCompile(`^2026/03/09/[0-9a-f-]{36}\.bin$`), key)
}

func TestS3Storage_PublicURL(t *testing.T) {
	s := &S3Storage{bucket: "mall", region: "ap-south-1"}
	url := s.publicURL("invoices/a.pdf")
	assert.Equal(t, "https://mall.s3.ap-south-1.amazonaws.com/invoices/a.pdf", url)
	assert.Equal(t, "invoices/a.pdf", s.extractKey(url))
	assert.Empty(t, s.extractKey("https://elsewhere.com/a.pdf"))

	s.cdnDomain = "cdn.mall.com"
	assert.Equal(t, "https://cdn.mall.com/x.pdf", s.publicURL("x.pdf"))
}

func TestS3Storage_UploadAndDelete(t *testing.T) {
	type call struct {
		method string
		path   string
		body   string
	}
	var (
		mu    sync.Mutex
		calls []call
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		calls = append(calls, call{method: r.Method, path: r.URL.Path, body: string(body)})
		mu.Unlock()

		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx := context.Background()
	storage, err := NewStorageProvider(ctx, appconfig.StorageSettings{
		Provider:  "s3",
		Bucket:    "mall",
		Region:    "us-east-1",
		AccessKey: "AKIATEST",
		SecretKey: "secret",
		Endpoint:  srv.URL,
		BasePath:  "invoices",
	})
	require.NoError(t, err)

	url, err := storage.Upload(ctx, []byte("%PDF-1.4 test"), "INV-1.pdf", "application/pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, srv.URL+"/mall/invoices/"), url)
	assert.True(t, strings.HasSuffix(url, ".pdf"), url)

	require.NoError(t, storage.Delete(ctx, url))
	assert.Error(t, storage.Delete(ctx, "https://other.host/file.pdf"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPut, calls[0].method)
	assert.True(t, strings.HasPrefix(calls[0].path, "/mall/invoices/"), calls[0].path)
	assert.Contains(t, calls[0].body, "%PDF-1.4 test")
	assert.Equal(t, http.MethodDelete, calls[1].method)
	assert.Equal(t, calls[0].path, calls[1].path)
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewStorageProvider(context.Background(), appconfig.StorageSettings{Provider: "local", LocalDir: dir})
	require.NoError(t, err)

	url, err := storage.Upload(context.Background(), []byte("hello"), "a.txt", "")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/"), url)

	full := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, "/uploads/")))
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	require.NoError(t, storage.Delete(context.Background(), url))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// 已删除的文件再次删除不报错，越界路径拒绝
	require.NoError(t, storage.Delete(context.Background(), url))
	assert.Error(t, storage.Delete(context.Background(), "/uploads/../etc/passwd"))
}

func TestNewStorageProvider_Unsupported(t *testing.T) {
	_, err := NewStorageProvider(context.Background(), appconfig.StorageSettings{Provider: "cos"})
	assert.Error(t, err)
}
