package dataset

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildArchive 在内存里构造一个 MovieSummaries 布局的 tar.gz
func buildArchive(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	files := map[string]string{
		"MovieSummaries/" + MovieFile:     "975900\t/m/03vyhn\tGhosts of Mars\t2001-08-24\t\t98.0\t{}\t{}\t{}\n",
		"MovieSummaries/" + CharacterFile: "975900\t/m/03vyhn\t2001-08-24\tAkooshay\t1958-08-26\tF\t1.62\t\tWanda De Jesus\t42.0\t\t\t\n",
		"MovieSummaries/" + PlotFile:      "975900\tA Martian police unit is sent to recover a convict.\n",
	}

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "MovieSummaries/",
		Mode:     0o755,
		Typeflag: tar.TypeDir,
	}))
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestEnsureLocalCopyIdempotent(t *testing.T) {
	archive := buildArchive(t)

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write(archive)
	}))
	defer srv.Close()

	downloadDir := t.TempDir()
	extractDir := filepath.Join(downloadDir, "MovieSummaries")

	require.NoError(t, EnsureLocalCopy(context.Background(), srv.URL, downloadDir, extractDir))

	// 下载和解压都已完成
	assert.FileExists(t, filepath.Join(downloadDir, ArchiveName))
	assert.FileExists(t, filepath.Join(extractDir, MovieFile))
	assert.FileExists(t, filepath.Join(extractDir, CharacterFile))
	assert.FileExists(t, filepath.Join(extractDir, PlotFile))

	// 第二次调用只做存在性检查，不触发网络请求
	require.NoError(t, EnsureLocalCopy(context.Background(), srv.URL, downloadDir, extractDir))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	// 解压结果可以直接被加载
	movies, characters, plots, err := LoadTables(extractDir)
	require.NoError(t, err)
	assert.Len(t, movies, 1)
	assert.Len(t, characters, 1)
	assert.Len(t, plots, 1)
}

func TestEnsureLocalCopyDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	downloadDir := t.TempDir()
	err := EnsureLocalCopy(context.Background(), srv.URL, downloadDir, filepath.Join(downloadDir, "MovieSummaries"))
	require.Error(t, err)

	var acqErr *AcquisitionError
	require.ErrorAs(t, err, &acqErr)
	assert.Equal(t, srv.URL, acqErr.URL)

	// 失败后不能留下看似完整的压缩包标记
	assert.NoFileExists(t, filepath.Join(downloadDir, ArchiveName))
}

func TestEnsureLocalCopyCorruptArchive(t *testing.T) {
	downloadDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(downloadDir, ArchiveName), []byte("this is not a gzip file"), 0o644))

	// 压缩包标记已存在，下载被跳过，直接进解压并失败
	err := EnsureLocalCopy(context.Background(), "http://unused.invalid", downloadDir, filepath.Join(downloadDir, "MovieSummaries"))
	require.Error(t, err)

	var archErr *ArchiveError
	require.ErrorAs(t, err, &archErr)
}

func TestExtractArchiveRejectsTraversal(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	content := "evil"
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "../escape.txt",
		Mode:     0o644,
		Size:     int64(len(content)),
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	dir := t.TempDir()
	archive := filepath.Join(dir, ArchiveName)
	require.NoError(t, os.WriteFile(archive, buf.Bytes(), 0o644))

	err = extractArchive(archive, dir)
	var archErr *ArchiveError
	require.ErrorAs(t, err, &archErr)
}
