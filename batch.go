package rmeconv

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpango/glg"
)

// Folder layout of the legacy material library.
const (
	DefaultFromDir = "mat_dev_old"
	DefaultToDir   = "mat_dev"
)

// Base name suffixes, applied before the extension.
const (
	rmeSuffix      = "_rme"
	ormSuffix      = "_orm"
	emissionSuffix = "_e"
)

// DefaultSearchDirs are the extra material roots probed for albedo textures
// after the source root itself.
var DefaultSearchDirs = []string{"mat_src", "mat_TEMP"}

// BatchOptions configures a library conversion run.
type BatchOptions struct {
	// FromDir is the root of the legacy material tree.
	FromDir string

	// ToDir receives the converted tree, mirroring the relative layout of
	// FromDir.
	ToDir string

	// SearchDirs are additional roots probed for albedo textures, in order,
	// when FromDir itself has none.
	SearchDirs []string

	// Params applies to every conversion of the run.
	Params Params
}

// DefaultBatchOptions returns the stock legacy library layout with default
// conversion parameters.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		FromDir:    DefaultFromDir,
		ToDir:      DefaultToDir,
		SearchDirs: DefaultSearchDirs,
		Params:     DefaultParams(),
	}
}

// FileResult records what happened to a single RME texture.
type FileResult struct {
	RMEPath    string
	AlbedoPath string
	Outcome    Outcome
	Err        error
}

// Summary aggregates a batch run.
type Summary struct {
	Copied          int
	CopySkips       int
	CopyFailures    int
	ORMWritten      int
	EmissionWritten int
	NoOps           int
	Failures        int

	Results []FileResult
}

func (s *Summary) record(r FileResult) {
	s.Results = append(s.Results, r)

	if r.Outcome.ORMWritten {
		s.ORMWritten++
	}

	if r.Outcome.EmissionWritten {
		s.EmissionWritten++
	}

	switch {
	case r.Err != nil:
		s.Failures++
	case r.Outcome.NoOp():
		s.NoOps++
	}
}

// Run converts a whole material library in two passes. First every non-RME
// texture is copied through to the destination tree, then each RME texture is
// converted into its ORM and emission results. A failing file is logged and
// skipped, it does not stop the run.
func Run(opts BatchOptions) (*Summary, error) {
	fromAbs, err := filepath.Abs(opts.FromDir)
	if err != nil {
		return nil, err
	}

	toAbs, err := filepath.Abs(opts.ToDir)
	if err != nil {
		return nil, err
	}

	searchAbs := make([]string, 0, len(opts.SearchDirs))

	for _, d := range opts.SearchDirs {
		abs, err := filepath.Abs(d)
		if err != nil {
			return nil, err
		}

		searchAbs = append(searchAbs, abs)
	}

	sum := &Summary{}

	if err := copyThrough(fromAbs, toAbs, sum); err != nil {
		return sum, err
	}

	if err := convertTree(fromAbs, toAbs, searchAbs, opts.Params, sum); err != nil {
		return sum, err
	}

	return sum, nil
}

// copyThrough mirrors normal, albedo and other non-RME textures into the
// destination tree. Files already present in the destination are kept, and a
// file that cannot be copied is logged and skipped.
func copyThrough(fromAbs, toAbs string, sum *Summary) error {
	return filepath.WalkDir(fromAbs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == fromAbs {
				return err
			}

			glg.Warnf("skipping unreadable entry: %v", err)

			return nil
		}

		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(d.Name())
		if !AcceptedExtension(ext) {
			return nil
		}

		glg.Infof("%s:", path)

		rel, err := filepath.Rel(fromAbs, path)
		if err != nil {
			glg.Errorf("copy error: %v, on file: %s", err, path)

			sum.CopyFailures++

			return nil
		}

		dest := filepath.Join(toAbs, rel)
		if fileExists(dest) {
			glg.Infof("destination file already exists: %s", dest)

			sum.CopySkips++

			return nil
		}

		if strings.HasSuffix(strings.TrimSuffix(d.Name(), ext), rmeSuffix) {
			return nil
		}

		if err := copyFile(path, dest); err != nil {
			glg.Errorf("copy error: %v, on file: %s", err, path)

			sum.CopyFailures++

			return nil
		}

		sum.Copied++

		return nil
	})
}

// convertTree walks the source tree once more and converts every RME texture,
// collecting per-file results in sum.
func convertTree(fromAbs, toAbs string, searchDirs []string, p Params, sum *Summary) error {
	return filepath.WalkDir(fromAbs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == fromAbs {
				return err
			}

			glg.Warnf("skipping unreadable entry: %v", err)

			return nil
		}

		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(d.Name())

		base := strings.TrimSuffix(d.Name(), ext)
		if !strings.HasSuffix(base, rmeSuffix) {
			return nil
		}

		base = strings.TrimSuffix(base, rmeSuffix)

		glg.Infof("%s:", path)

		if !AcceptedExtension(ext) {
			glg.Infof("ignoring file because of its extension (%q)", ext)

			return nil
		}

		rel, err := filepath.Rel(fromAbs, filepath.Dir(path))
		if err != nil {
			failEntry(sum, FileResult{RMEPath: path}, err)

			return nil
		}

		albedoPath, tried := FindAlbedo(fromAbs, rel, base, searchDirs)

		ormOut := filepath.Join(toAbs, rel, base+ormSuffix+resultExtension)
		emisOut := filepath.Join(toAbs, rel, base+emissionSuffix+resultExtension)

		res := FileResult{RMEPath: path, AlbedoPath: albedoPath}

		if !fileExists(path) {
			glg.Warnf("unexpectedly, rme file doesn't exist: %s", path)

			res.Err = fmt.Errorf("%w: %s", ErrMissingInput, path)
			sum.record(res)

			return nil
		}

		if albedoPath == "" {
			glg.Warnf("can't find albedo file for: %s", path)

			for _, t := range tried {
				glg.Warnf("tried: %s", t)
			}
		}

		if err := os.MkdirAll(filepath.Dir(ormOut), 0o755); err != nil {
			failEntry(sum, res, err)

			return nil
		}

		res.Outcome, res.Err = Convert(albedoPath, path, ormOut, emisOut, p)
		if res.Err != nil {
			glg.Errorf("convert error: %v, on files: %s, %s", res.Err, albedoPath, path)
		}

		sum.record(res)

		return nil
	})
}

// failEntry records a per-file conversion failure. The walk keeps going, one
// broken file never stops the batch.
func failEntry(sum *Summary, res FileResult, err error) {
	res.Err = err

	glg.Errorf("convert error: %v, on files: %s, %s", err, res.AlbedoPath, res.RMEPath)

	sum.record(res)
}

// FindAlbedo locates the albedo texture matching an RME base name. The source
// root is probed first, then each search root, each with every accepted
// extension. The second return value lists the paths probed before the hit,
// or every probed path when nothing was found.
func FindAlbedo(fromAbs, relDir, base string, searchDirs []string) (string, []string) {
	var tried []string

	roots := append([]string{fromAbs}, searchDirs...)

	for _, root := range roots {
		for _, ext := range acceptedExtensions {
			p := filepath.Join(root, relDir, base+ext)
			if fileExists(p) {
				return p, tried
			}

			tried = append(tried, p)
		}
	}

	return "", tried
}

func copyFile(src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	return os.WriteFile(dest, data, 0o644)
}
