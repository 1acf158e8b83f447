package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/danmuck/aeprobe/internal/observability"
	"github.com/danmuck/aeprobe/internal/signature"
	"github.com/danmuck/aeprobe/internal/version"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ProjectExt is the only container extension InspectVersion accepts.
const ProjectExt = ".aep"

const modifiedLayout = "2006-01-02 15:04:05"

var ErrUnsupportedExtension = errors.New("analyzer: file must have .aep extension")

// Report statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type FileInfo struct {
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
	// Created is the creation time on windows and the inode change time on
	// unix. Empty where neither is available.
	Created string `json:"created,omitempty"`
}

type DebugInfo struct {
	SignatureHex *string `json:"signature_hex"`
}

// Report is the version inspection result for one project file.
type Report struct {
	Source        string           `json:"source"`
	Status        string           `json:"status"`
	Message       string           `json:"message,omitempty"`
	FileInfo      *FileInfo        `json:"file_info,omitempty"`
	VersionStatus string           `json:"version_status,omitempty"`
	VersionInfo   *version.Version `json:"version_info,omitempty"`
	DebugInfo     *DebugInfo       `json:"debug_info,omitempty"`
}

// InspectVersion scans a project container for its version signature.
// Precondition failures (extension, missing file) are errors; a scan that
// fails midway is reported with VersionStatus "error".
func (a *Analyzer) InspectVersion(path string) (Report, error) {
	if !strings.EqualFold(filepath.Ext(path), ProjectExt) {
		return Report{}, fmt.Errorf("%w: %s", ErrUnsupportedExtension, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Report{}, fmt.Errorf("analyzer: resolve %s: %w", path, err)
	}
	st, err := os.Stat(abs)
	if err != nil {
		return Report{}, fmt.Errorf("analyzer: project file not found: %w", err)
	}

	report := Report{
		Source: path,
		Status: StatusSuccess,
		FileInfo: &FileInfo{
			Path:     abs,
			Size:     st.Size(),
			Modified: st.ModTime().Format(modifiedLayout),
		},
	}
	if created, ok := createdTime(abs); ok {
		report.FileInfo.Created = created.Format(modifiedLayout)
	}

	f, err := os.Open(abs)
	if err != nil {
		report.VersionStatus = StatusError
		report.Message = err.Error()
		return report, nil
	}
	defer f.Close()

	res, err := a.ResolveStream(f)
	if err != nil {
		log.Error().Msgf("analyzer.InspectVersion path=%s err=%v", abs, err)
		report.VersionStatus = StatusError
		report.Message = err.Error()
		return report, nil
	}
	report.VersionStatus = string(res.Status)
	report.VersionInfo = &res.Version
	report.DebugInfo = &DebugInfo{SignatureHex: res.SignatureHex}
	log.Info().Msgf("analyzer.InspectVersion path=%s status=%s version=%q build=%d",
		abs, res.Status, res.Version.FullVersion, res.Version.Build)
	return report, nil
}

// ResolveStream scans r and resolves the signature against the catalog.
func (a *Analyzer) ResolveStream(r io.Reader) (version.Result, error) {
	m, err := signature.Scan(r)
	if err != nil {
		observability.RecordScan(observability.OutcomeIOError, m.BytesRead)
		return version.Result{}, err
	}
	outcome := observability.OutcomeNotFound
	if m.Found {
		outcome = observability.OutcomeFound
	}
	observability.RecordScan(outcome, m.BytesRead)

	res := version.Resolve(a.catalog, m)
	observability.RecordResolve(string(res.Status))
	return res, nil
}

// InspectVersions inspects paths with at most limit files open at once.
// Reports keep the input order; per-file failures become error reports.
func (a *Analyzer) InspectVersions(ctx context.Context, paths []string, limit int) ([]Report, error) {
	if limit < 1 {
		limit = 1
	}
	reports := make([]Report, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := a.InspectVersion(path)
			if err != nil {
				log.Warn().Msgf("analyzer.InspectVersions path=%s err=%v", path, err)
				report = Report{Source: path, Status: StatusError, Message: err.Error()}
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
