package selfupdate

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

var (
	ErrDevBuild      = errors.New("cannot update a development build")
	ErrAlreadyLatest = errors.New("already running the latest version")
	ErrChecksum      = errors.New("checksum verification failed")
)

// maxAssetSize caps release downloads; the CLI archive is a few MB.
const maxAssetSize = 256 << 20

// UpdateInput selects the release to install. An empty TargetVersion
// means whatever the release feed reports as latest.
type UpdateInput struct {
	CurrentVersion string
	TargetVersion  string
}

// UpdateProgress is reported once per stage so the caller can narrate.
type UpdateProgress struct {
	Stage   string
	Message string
}

// releaseAsset names one downloadable build of a release.
type releaseAsset struct {
	Name   string // archive file attached to the release
	Binary string // executable name inside the archive
}

// Update replaces the running binary with the requested release. The
// checksum manifest is fetched before the archive, so an unsupported or
// missing build fails fast without a wasted download.
func (c *Checker) Update(ctx context.Context, input *UpdateInput, progress func(UpdateProgress)) error {
	if input.CurrentVersion == "(devel)" {
		return ErrDevBuild
	}

	tag := input.TargetVersion
	if tag == "" {
		progress(UpdateProgress{Stage: "check", Message: "Checking for the latest release..."})
		result, err := c.Check(ctx, &CheckInput{Version: input.CurrentVersion})
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !result.UpdateAvailable {
			return ErrAlreadyLatest
		}
		tag = result.LatestVersion
	}

	asset, err := assetFor(runtime.GOOS, runtime.GOARCH, tag)
	if err != nil {
		return err
	}

	progress(UpdateProgress{Stage: "manifest", Message: "Fetching release manifest..."})
	manifest, err := c.fetch(ctx, c.releaseFileURL(tag, manifestName(tag)))
	if err != nil {
		return fmt.Errorf("download manifest: %w", err)
	}
	wantHash, ok := parseManifest(manifest)[asset.Name]
	if !ok {
		return fmt.Errorf("release %s has no checksum for %s", tag, asset.Name)
	}

	progress(UpdateProgress{Stage: "download", Message: fmt.Sprintf("Downloading %s...", asset.Name)})
	archive, err := c.fetch(ctx, c.releaseFileURL(tag, asset.Name))
	if err != nil {
		return fmt.Errorf("download archive: %w", err)
	}
	if err := verifyChecksum(archive, wantHash); err != nil {
		return err
	}

	progress(UpdateProgress{Stage: "extract", Message: "Unpacking..."})
	binary, err := asset.extract(archive)
	if err != nil {
		return fmt.Errorf("extract binary: %w", err)
	}

	progress(UpdateProgress{Stage: "apply", Message: "Installing..."})
	target, err := c.execPath()
	if err != nil {
		return fmt.Errorf("resolve executable path: %w", err)
	}
	if err := swapBinary(binary, target); err != nil {
		return fmt.Errorf("install %s: %w", tag, err)
	}

	progress(UpdateProgress{Stage: "done", Message: fmt.Sprintf("Updated to %s", tag)})
	return nil
}

// assetFor maps a build platform onto the archive attached to tag.
// Release archives follow aice_<version>_<os>_<arch> naming with the
// tag's leading v stripped.
func assetFor(goos, goarch, tag string) (releaseAsset, error) {
	version := strings.TrimPrefix(tag, "v")
	switch goos + "/" + goarch {
	case "linux/amd64", "linux/arm64", "darwin/amd64", "darwin/arm64":
		return releaseAsset{
			Name:   fmt.Sprintf("aice_%s_%s_%s.tar.gz", version, goos, goarch),
			Binary: "aice",
		}, nil
	case "windows/amd64", "windows/arm64":
		return releaseAsset{
			Name:   fmt.Sprintf("aice_%s_%s_%s.zip", version, goos, goarch),
			Binary: "aice.exe",
		}, nil
	default:
		return releaseAsset{}, fmt.Errorf("no release build for %s/%s", goos, goarch)
	}
}

func manifestName(tag string) string {
	return fmt.Sprintf("aice_%s_checksums.txt", strings.TrimPrefix(tag, "v"))
}

// releaseFileURL points at one file attached to the tagged release.
func (c *Checker) releaseFileURL(tag, name string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s",
		strings.TrimRight(c.downloadBaseURL, "/"), c.owner, c.repo, tag, name)
}

func (c *Checker) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAssetSize))
}

// parseManifest reads "<sha256>  <file>" lines, skipping anything that
// does not look like one.
func parseManifest(data []byte) map[string]string {
	sums := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 || len(fields[0]) != sha256.Size*2 {
			continue
		}
		sums[fields[1]] = fields[0]
	}
	return sums
}

func verifyChecksum(data []byte, wantHex string) error {
	sum := sha256.Sum256(data)
	got := hex.EncodeToString(sum[:])
	if got != wantHex {
		return fmt.Errorf("%w: want %s, got %s", ErrChecksum, wantHex, got)
	}
	return nil
}

// extract pulls the executable out of the archive. Entries are matched
// by base name so a wrapping directory inside the archive is fine.
func (a releaseAsset) extract(archive []byte) ([]byte, error) {
	if strings.HasSuffix(a.Name, ".zip") {
		return extractZip(archive, a.Binary)
	}
	return extractTarGz(archive, a.Binary)
}

func extractTarGz(data []byte, binary string) ([]byte, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar: %w", err)
		}
		if hdr.Typeflag == tar.TypeReg && filepath.Base(hdr.Name) == binary {
			return io.ReadAll(tr)
		}
	}
	return nil, fmt.Errorf("no %s in archive", binary)
}

func extractZip(data []byte, binary string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if filepath.Base(f.Name) != binary {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		out, err := io.ReadAll(rc)
		_ = rc.Close()
		return out, err
	}
	return nil, fmt.Errorf("no %s in archive", binary)
}

// swapBinary installs data over target. The new build is staged next to
// the target, re-read to catch a torn write, then swapped in with the
// old binary parked at target+".old" until the swap sticks. Windows
// cannot unlink a running executable, hence the park-then-replace.
func swapBinary(data []byte, target string) error {
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat target: %w", err)
	}

	staged, err := os.CreateTemp(filepath.Dir(target), ".aice-stage-*")
	if err != nil {
		return fmt.Errorf("stage file: %w", err)
	}
	stagedPath := staged.Name()
	defer func() { _ = os.Remove(stagedPath) }()

	_, err = staged.Write(data)
	if cerr := staged.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write staged binary: %w", err)
	}
	if err := os.Chmod(stagedPath, info.Mode().Perm()); err != nil {
		return fmt.Errorf("chmod staged binary: %w", err)
	}

	written, err := os.ReadFile(stagedPath)
	if err != nil {
		return fmt.Errorf("re-read staged binary: %w", err)
	}
	if sha256.Sum256(written) != sha256.Sum256(data) {
		return fmt.Errorf("%w: staged binary does not match download", ErrChecksum)
	}

	parked := target + ".old"
	_ = os.Remove(parked)
	if err := os.Rename(target, parked); err != nil {
		return fmt.Errorf("park old binary: %w", err)
	}
	if err := os.Rename(stagedPath, target); err != nil {
		_ = os.Rename(parked, target)
		return fmt.Errorf("install new binary: %w", err)
	}
	_ = os.Remove(parked)
	return nil
}
