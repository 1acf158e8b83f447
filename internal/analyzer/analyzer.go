package analyzer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/danmuck/aeprobe/internal/catalog"
	"github.com/danmuck/aeprobe/internal/model"
	"github.com/danmuck/aeprobe/internal/observability"
	"github.com/danmuck/aeprobe/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Analyzer holds read-only collaborators and is safe for concurrent use.
type Analyzer struct {
	parser  *protocol.Parser
	catalog *catalog.Catalog
}

func New(cat *catalog.Catalog) *Analyzer {
	if cat == nil {
		cat = catalog.Empty()
	}
	return &Analyzer{parser: protocol.NewParser(), catalog: cat}
}

// WithMaxLineBytes sets the analysis stream line limit.
func (a *Analyzer) WithMaxLineBytes(n int) *Analyzer {
	a.parser.WithMaxLineBytes(n)
	return a
}

// AnalyzeOutput parses the analysis stream at path into a Project.
func (a *Analyzer) AnalyzeOutput(path string) (model.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		observability.RecordParse(observability.OutcomeIOError, 0)
		return model.Project{}, fmt.Errorf("%w: %v", protocol.ErrIO, err)
	}
	defer f.Close()

	p, err := a.AnalyzeStream(f)
	if err != nil {
		log.Error().Msgf("analyzer.AnalyzeOutput path=%s err=%v", path, err)
		return model.Project{}, err
	}
	log.Info().Msgf("analyzer.AnalyzeOutput path=%s project=%q compositions=%d", path, p.Name, len(p.Compositions))
	return p, nil
}

// AnalyzeStream parses and builds a Project from r.
func (a *Analyzer) AnalyzeStream(r io.Reader) (model.Project, error) {
	start := time.Now()
	root, err := a.parser.Parse(r)
	if err != nil {
		observability.RecordParse(parseOutcome(err), time.Since(start))
		return model.Project{}, err
	}
	p, err := model.BuildProject(root)
	if err != nil {
		observability.RecordParse(observability.OutcomeMalformed, time.Since(start))
		return model.Project{}, err
	}
	observability.RecordParse(observability.OutcomeOK, time.Since(start))
	return p, nil
}

func parseOutcome(err error) string {
	switch {
	case errors.Is(err, protocol.ErrMalformedSection):
		return observability.OutcomeMalformed
	case errors.Is(err, protocol.ErrEmptyInput):
		return observability.OutcomeEmpty
	default:
		return observability.OutcomeIOError
	}
}
