package update

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/briandowns/spinner"

	"github.com/xanderwp/termutils/internal/log"
)

// downloadTimeout bounds the archive download.
const downloadTimeout = 60 * time.Second

// Protected paths the apply step must never touch: source-control metadata
// at the top of the tree, and the bootstrap scripts that installed the tool
// in the first place.
var (
	protectedDirs  = map[string]bool{".git": true, ".github": true}
	protectedFiles = map[string]bool{"install.sh": true, "install.ps1": true}
)

// ApplyResult reports what a completed apply did.
type ApplyResult struct {
	Tag      string   `json:"tag"`                // Release tag that was applied
	Copied   int      `json:"copied"`             // Files copied into the installation
	Skipped  int      `json:"skipped"`            // Files skipped by the protection rules
	Warnings []string `json:"warnings,omitempty"` // Per-file copy failures, non-fatal
}

// Applier downloads a release archive and merges it over the installation
// directory, leaving protected paths alone.
type Applier struct {
	checker    Checker
	client     *http.Client
	installDir string
	out        io.Writer
}

// NewApplier creates an applier for the given installation directory.
func NewApplier(installDir string, checker Checker) *Applier {
	return &Applier{
		checker:    checker,
		client:     &http.Client{Timeout: downloadTimeout},
		installDir: installDir,
		out:        os.Stdout,
	}
}

// WithOutput redirects progress output (for testing).
func (a *Applier) WithOutput(w io.Writer) *Applier {
	a.out = w
	return a
}

// Apply runs the full download/extract/copy pipeline for the latest release.
// Temporary state is removed on every exit path. Individual file copy
// failures do not abort the apply; they are reported in the result.
func (a *Applier) Apply(ctx context.Context) (*ApplyResult, error) {
	release, err := acquireLock(a.installDir)
	if err != nil {
		return nil, err
	}
	defer release()

	rel, err := a.checker.LatestRelease(ctx)
	if err != nil {
		return nil, err
	}
	if rel.ZipballURL == "" {
		return nil, fmt.Errorf("release %s has no downloadable archive", rel.Tag)
	}

	log.Debug().Str("phase", "downloading").Str("tag", rel.Tag).Msg("apply")
	archive, err := a.download(ctx, rel.ZipballURL)
	if err != nil {
		return nil, fmt.Errorf("download failed: %w", err)
	}
	defer func() { _ = os.Remove(archive) }()

	log.Debug().Str("phase", "extracting").Msg("apply")
	extracted, err := extractArchive(archive)
	if err != nil {
		return nil, fmt.Errorf("extract failed: %w", err)
	}
	defer func() { _ = os.RemoveAll(extracted) }()

	log.Debug().Str("phase", "copying").Msg("apply")
	result := a.copyTree(archiveContentRoot(extracted))
	result.Tag = rel.Tag
	return result, nil
}

// download streams the archive to a temporary file. Progress is printed as
// a percentage when the server advertises a content length, and as a
// spinner when it does not; neither path can fail the download.
func (a *Applier) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "termutils-update-check")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("archive server returned status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", "termutils-release-*.zip")
	if err != nil {
		return "", err
	}
	path := tmp.Name()

	var copyErr error
	if resp.ContentLength > 0 {
		copyErr = a.copyWithPercent(tmp, resp.Body, resp.ContentLength)
	} else {
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(a.out))
		s.Suffix = " downloading..."
		s.Start()
		_, copyErr = io.Copy(tmp, resp.Body)
		s.Stop()
	}

	if cerr := tmp.Close(); copyErr == nil {
		copyErr = cerr
	}
	if copyErr != nil {
		_ = os.Remove(path)
		return "", copyErr
	}
	return path, nil
}

// copyWithPercent copies the body while printing percentage progress.
func (a *Applier) copyWithPercent(dst io.Writer, src io.Reader, total int64) error {
	var done int64
	lastPct := -1
	buf := make([]byte, 32*1024)
	for {
		n, err := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return werr
			}
			done += int64(n)
			if pct := int(done * 100 / total); pct != lastPct {
				fmt.Fprintf(a.out, "\rDownloading... %3d%%", pct)
				lastPct = pct
			}
		}
		if err == io.EOF {
			fmt.Fprintln(a.out)
			return nil
		}
		if err != nil {
			fmt.Fprintln(a.out)
			return err
		}
	}
}

// extractArchive unpacks the zip archive into a fresh temporary directory.
// The directory is removed on failure.
func extractArchive(archivePath string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	dir, err := os.MkdirTemp("", "termutils-extract-")
	if err != nil {
		return "", err
	}

	for _, f := range r.File {
		if err := extractEntry(f, dir); err != nil {
			_ = os.RemoveAll(dir)
			return "", err
		}
	}
	return dir, nil
}

func extractEntry(f *zip.File, dir string) error {
	dest := filepath.Join(dir, filepath.FromSlash(f.Name))
	// Reject entries that escape the extraction root.
	if dest != dir && !strings.HasPrefix(dest, dir+string(os.PathSeparator)) {
		return fmt.Errorf("archive entry escapes extraction root: %s", f.Name)
	}

	if f.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0755)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// archiveContentRoot descends into the single top-level wrapper directory
// that hosting-provider zipballs nest their content under. An archive
// without a wrapper is used as-is.
func archiveContentRoot(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 || !entries[0].IsDir() {
		return dir
	}
	return filepath.Join(dir, entries[0].Name())
}

// copyTree merges the extracted tree over the installation directory,
// applying the protection rules. Per-file copy failures are collected as
// warnings; they never abort the remaining copies.
func (a *Applier) copyTree(srcRoot string) *ApplyResult {
	result := &ApplyResult{}

	_ = filepath.WalkDir(srcRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", path, err))
			return nil
		}
		rel, rerr := filepath.Rel(srcRoot, path)
		if rerr != nil || rel == "." {
			return nil
		}

		if topLevelComponent(rel, protectedDirs) {
			result.Skipped++
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if protectedFiles[d.Name()] {
			result.Skipped++
			return nil
		}

		if cerr := copyFile(path, filepath.Join(a.installDir, rel)); cerr != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", rel, cerr))
			log.Warn().Str("file", rel).Err(cerr).Msg("copy failed")
			return nil
		}
		result.Copied++
		return nil
	})

	return result
}

// topLevelComponent reports whether the first path component of rel is in
// the given set.
func topLevelComponent(rel string, set map[string]bool) bool {
	first := rel
	if i := strings.IndexByte(filepath.ToSlash(rel), '/'); i >= 0 {
		first = rel[:i]
	}
	return set[first]
}

// copyFile copies src to dst, creating parent directories and preserving
// the source file mode.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
