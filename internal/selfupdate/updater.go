package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// UpdateInput selects the release to install. An empty TargetVersion means
// the latest release.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// UpdateProgress is reported at each stage of Update: check, download,
// verify, extract, apply and done.
type UpdateProgress struct {
	Stage   string
	Message string
}

// asset is the release archive built for one platform.
type asset struct {
	name string
	zip  bool
}

var releaseArch = map[string]string{
	"amd64": "x86_64",
	"arm64": "arm64",
	"386":   "i386",
}

func assetFor(goos, goarch string) (asset, error) {
	if goos == "darwin" {
		return asset{name: binaryName + "_Darwin_all.tar.gz"}, nil
	}
	arch, ok := releaseArch[goarch]
	if !ok {
		return asset{}, fmt.Errorf("unsupported architecture: %s", goarch)
	}
	switch goos {
	case "linux":
		return asset{name: binaryName + "_Linux_" + arch + ".tar.gz"}, nil
	case "windows":
		return asset{name: binaryName + "_Windows_" + arch + ".zip", zip: true}, nil
	}
	return asset{}, fmt.Errorf("unsupported operating system: %s", goos)
}

func (a asset) binary() string {
	if a.zip {
		return binaryName + ".exe"
	}
	return binaryName
}

// Update downloads the release archive, checks it against the release's
// checksums.txt and swaps the binary in place of the running executable.
// progress may be nil.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	report := func(stage, format string, args ...any) {
		if progress != nil {
			progress(UpdateProgress{Stage: stage, Message: fmt.Sprintf(format, args...)})
		}
	}

	if input.CurrentVersion == DevVersion {
		return ErrDevBuild
	}

	tag := input.TargetVersion
	if tag == "" {
		report("check", "Checking for the latest release...")
		res, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !res.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = res.LatestVersion
	}

	a, err := assetFor(c.goos, c.goarch)
	if err != nil {
		return err
	}

	tmp, err := os.MkdirTemp("", binaryName+"-update-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	report("download", "Downloading %s...", tag)
	archive := filepath.Join(tmp, a.name)
	sum, err := c.download(ctx, c.releaseURL(tag, a.name), archive)
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}

	report("verify", "Verifying checksum...")
	if err := c.verify(ctx, tag, a.name, sum); err != nil {
		return err
	}

	report("extract", "Extracting %s...", a.binary())
	bin := filepath.Join(tmp, a.binary())
	if err := extract(archive, a, bin); err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	report("apply", "Replacing the installed binary...")
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := replaceFile(target, bin); err != nil {
		return fmt.Errorf("apply update: %w", err)
	}

	report("done", "Updated to %s", tag)
	return nil
}

func (c *Checker) releaseURL(tag, file string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag, file)
}

func (c *Checker) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

// download streams url into dst and returns the hex SHA-256 of the body.
func (c *Checker) download(ctx context.Context, url, dst string) (string, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(f, h), body); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// verify compares sum with the entry for name in the release checksums.
func (c *Checker) verify(ctx context.Context, tag, name, sum string) error {
	body, err := c.get(ctx, c.releaseURL(tag, "checksums.txt"))
	if err != nil {
		return fmt.Errorf("download checksums: %w", err)
	}
	defer body.Close()

	sums, err := parseChecksums(body)
	if err != nil {
		return fmt.Errorf("read checksums: %w", err)
	}
	want, ok := sums[name]
	if !ok {
		return fmt.Errorf("%w: %s is not listed in checksums.txt", ErrChecksum, name)
	}
	if !strings.EqualFold(want, sum) {
		return fmt.Errorf("%w: %s has %s, want %s", ErrChecksum, name, sum, want)
	}
	return nil
}

// parseChecksums reads "<sha256>  <file>" lines as written by goreleaser.
// Lines of any other shape are ignored.
func parseChecksums(r io.Reader) (map[string]string, error) {
	sums := make(map[string]string)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if f := strings.Fields(sc.Text()); len(f) == 2 {
			sums[f[1]] = f[0]
		}
	}
	return sums, sc.Err()
}

// extract copies the asset's binary out of the archive at src into dst.
func extract(src string, a asset, dst string) error {
	var (
		rc  io.ReadCloser
		err error
	)
	if a.zip {
		rc, err = openFromZip(src, a.binary())
	} else {
		rc, err = openFromTarGz(src, a.binary())
	}
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

func openFromTarGz(src, name string) (io.ReadCloser, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	closeAll := func() error { gz.Close(); return f.Close() }

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			closeAll()
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && path.Base(hdr.Name) == name {
			return readCloser{Reader: tr, close: closeAll}, nil
		}
	}
	closeAll()
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

func openFromZip(src, name string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if path.Base(f.Name) != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			zr.Close()
			return nil, err
		}
		return readCloser{Reader: rc, close: func() error { rc.Close(); return zr.Close() }}, nil
	}
	zr.Close()
	return nil, fmt.Errorf("binary %q not found in archive", name)
}

// replaceFile moves src over target, keeping target's permissions. src
// is first copied next to target so the final rename stays on one
// filesystem.
func replaceFile(target, src string) error {
	info, err := os.Stat(target)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	staged, err := os.CreateTemp(filepath.Dir(target), "."+binaryName+"-new-*")
	if err != nil {
		return err
	}
	defer os.Remove(staged.Name())

	if _, err := io.Copy(staged, in); err != nil {
		staged.Close()
		return err
	}
	if err := staged.Sync(); err != nil {
		staged.Close()
		return err
	}
	if err := staged.Close(); err != nil {
		return err
	}
	if err := os.Chmod(staged.Name(), info.Mode().Perm()); err != nil {
		return err
	}
	return os.Rename(staged.Name(), target)
}
