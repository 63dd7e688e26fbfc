package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetFor(t *testing.T) {
	tests := []struct {
		goos, goarch string
		want         string
		zip          bool
		wantErr      bool
	}{
		{"darwin", "amd64", "tablequest_Darwin_all.tar.gz", false, false},
		{"darwin", "arm64", "tablequest_Darwin_all.tar.gz", false, false},
		{"linux", "amd64", "tablequest_Linux_x86_64.tar.gz", false, false},
		{"linux", "386", "tablequest_Linux_i386.tar.gz", false, false},
		{"windows", "arm64", "tablequest_Windows_arm64.zip", true, false},
		{"freebsd", "amd64", "", false, true},
		{"linux", "mips", "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			got, err := assetFor(tt.goos, tt.goarch)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.name)
			assert.Equal(t, tt.zip, got.zip)
		})
	}
	win, _ := assetFor("windows", "amd64")
	assert.Equal(t, "tablequest.exe", win.binary())
}

func TestParseChecksums(t *testing.T) {
	in := "abc123  tablequest_Darwin_all.tar.gz\nbadline\n\n  \nfoo  bar  baz\ndef456  tablequest_Linux_x86_64.tar.gz\n"
	got, err := parseChecksums(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"tablequest_Darwin_all.tar.gz":   "abc123",
		"tablequest_Linux_x86_64.tar.gz": "def456",
	}, got)
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	content := []byte("#!/bin/sh\necho tablequest")

	t.Run("tar.gz", func(t *testing.T) {
		src := filepath.Join(dir, "a.tar.gz")
		require.NoError(t, os.WriteFile(src, buildTarGz(t, "dist/tablequest", content), 0o644))
		dst := filepath.Join(dir, "out")
		require.NoError(t, extract(src, asset{name: "a.tar.gz"}, dst))
		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("zip", func(t *testing.T) {
		src := filepath.Join(dir, "a.zip")
		require.NoError(t, os.WriteFile(src, buildZip(t, "tablequest.exe", content), 0o644))
		dst := filepath.Join(dir, "out.exe")
		require.NoError(t, extract(src, asset{name: "a.zip", zip: true}, dst))
		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, content, got)
	})

	t.Run("missing binary", func(t *testing.T) {
		src := filepath.Join(dir, "b.tar.gz")
		require.NoError(t, os.WriteFile(src, buildTarGz(t, "README.md", content), 0o644))
		err := extract(src, asset{name: "b.tar.gz"}, filepath.Join(dir, "never"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestReplaceFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "tablequest")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o755))
	src := filepath.Join(t.TempDir(), "new")
	require.NoError(t, os.WriteFile(src, []byte("new-binary"), 0o600))

	require.NoError(t, replaceFile(target, src))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "new-binary", string(got))
	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "staged file left behind")
}

// releaseServer serves a latest-release document for tag plus the given
// download files.
func releaseServer(t *testing.T, tag string, files map[string][]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/abhisek/tablequest/releases/latest" {
			fmt.Fprintf(w, `{"tag_name":%q,"html_url":"https://example.com/%s"}`, tag, tag)
			return
		}
		prefix := "/abhisek/tablequest/releases/download/" + tag + "/"
		if body, ok := files[strings.TrimPrefix(r.URL.Path, prefix)]; ok && strings.HasPrefix(r.URL.Path, prefix) {
			w.Write(body)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func sha(b []byte) string {
	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

func TestUpdate(t *testing.T) {
	const assetName = "tablequest_Linux_x86_64.tar.gz"
	binary := []byte("new-tablequest-binary")
	archive := buildTarGz(t, "tablequest", binary)

	newChecker := func(srv *httptest.Server, execPath string) *Checker {
		return NewChecker(
			WithBaseURL(srv.URL),
			WithDownloadBaseURL(srv.URL),
			withPlatform("linux", "amd64"),
			withExecPath(func() (string, error) { return execPath, nil }),
		)
	}

	t.Run("latest", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), "tablequest")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))
		srv := releaseServer(t, "v2.0.0", map[string][]byte{
			assetName:       archive,
			"checksums.txt": []byte(sha(archive) + "  " + assetName + "\n"),
		})

		var stages []string
		err := newChecker(srv, execPath).Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"},
			func(p UpdateProgress) { stages = append(stages, p.Stage) })
		require.NoError(t, err)

		got, err := os.ReadFile(execPath)
		require.NoError(t, err)
		assert.Equal(t, binary, got)
		assert.Equal(t, []string{"check", "download", "verify", "extract", "apply", "done"}, stages)
	})

	t.Run("pinned target skips the check", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), "tablequest")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))
		srv := releaseServer(t, "v1.5.0", map[string][]byte{
			assetName:       archive,
			"checksums.txt": []byte(strings.ToUpper(sha(archive)) + "  " + assetName + "\n"),
		})

		var stages []string
		err := newChecker(srv, execPath).Update(context.Background(),
			&UpdateInput{CurrentVersion: "v2.0.0", TargetVersion: "v1.5.0"},
			func(p UpdateProgress) { stages = append(stages, p.Stage) })
		require.NoError(t, err)
		assert.NotContains(t, stages, "check")
	})

	t.Run("dev build", func(t *testing.T) {
		err := NewChecker().Update(context.Background(), &UpdateInput{CurrentVersion: DevVersion}, nil)
		assert.ErrorIs(t, err, ErrDevBuild)
	})

	t.Run("already latest", func(t *testing.T) {
		srv := releaseServer(t, "v1.0.0", nil)
		err := newChecker(srv, "").Update(context.Background(), &UpdateInput{CurrentVersion: "1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrAlreadyLatest)
	})

	t.Run("checksum mismatch", func(t *testing.T) {
		execPath := filepath.Join(t.TempDir(), "tablequest")
		require.NoError(t, os.WriteFile(execPath, []byte("old"), 0o755))
		srv := releaseServer(t, "v2.0.0", map[string][]byte{
			assetName:       archive,
			"checksums.txt": []byte(strings.Repeat("0", 64) + "  " + assetName + "\n"),
		})

		err := newChecker(srv, execPath).Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrChecksum)
		got, _ := os.ReadFile(execPath)
		assert.Equal(t, "old", string(got))
	})

	t.Run("asset not in checksums", func(t *testing.T) {
		srv := releaseServer(t, "v2.0.0", map[string][]byte{
			assetName:       archive,
			"checksums.txt": []byte(sha(archive) + "  something_else.tar.gz\n"),
		})
		err := newChecker(srv, "").Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		assert.ErrorIs(t, err, ErrChecksum)
	})

	t.Run("download failure", func(t *testing.T) {
		srv := releaseServer(t, "v2.0.0", nil)
		err := newChecker(srv, "").Update(context.Background(), &UpdateInput{CurrentVersion: "v1.0.0"}, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "download archive")
	})
}

func buildTarGz(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gw)
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     name,
		Size:     int64(len(content)),
		Mode:     0o755,
		Typeflag: tar.TypeReg,
	}))
	_, err := tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gw.Close())
	return buf.Bytes()
}

func buildZip(t *testing.T, name string, content []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}
