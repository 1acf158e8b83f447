package protocol

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultMaxLineBytes bounds a single line of the stream.
const DefaultMaxLineBytes = 1 << 20

// Scanner wraps a bufio.Scanner and counts lines.
type Scanner struct {
	*bufio.Scanner
	lineNum int
}

func NewScanner(r io.Reader, maxLineBytes int) *Scanner {
	size := 4096
	if maxLineBytes < size {
		size = maxLineBytes
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, size), maxLineBytes)
	return &Scanner{Scanner: s}
}

// NextLine advances the scanner and returns the current line number and text.
func (s *Scanner) NextLine() (int, string, bool) {
	if !s.Scan() {
		return s.lineNum, "", false
	}
	s.lineNum++
	return s.lineNum, s.Text(), true
}

// Parser turns an analysis stream into a Record tree.
// A Parser holds only configuration and is safe for concurrent use.
type Parser struct {
	maxLineBytes int
}

func NewParser() *Parser {
	return &Parser{maxLineBytes: DefaultMaxLineBytes}
}

// WithMaxLineBytes raises or lowers the per-line limit.
func (p *Parser) WithMaxLineBytes(n int) *Parser {
	if n > 0 {
		p.maxLineBytes = n
	}
	return p
}

// Parse reads r to EOF with the default parser.
func Parse(r io.Reader) (*Record, error) {
	return NewParser().Parse(r)
}

// ParseLines parses pre-split lines.
func ParseLines(lines []string) (*Record, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyInput
	}
	st := newParseState()
	for i, line := range lines {
		if err := st.feed(i+1, line); err != nil {
			return nil, err
		}
	}
	return st.finish()
}

func (p *Parser) Parse(r io.Reader) (*Record, error) {
	scanner := NewScanner(r, p.maxLineBytes)
	st := newParseState()
	seen := false
	for {
		lineNum, line, ok := scanner.NextLine()
		if !ok {
			break
		}
		seen = true
		if err := st.feed(lineNum, line); err != nil {
			log.Debug().Msgf("protocol.Parse failed line=%d err=%v", lineNum, err)
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	if !seen {
		return nil, ErrEmptyInput
	}
	root, err := st.finish()
	if err != nil {
		log.Debug().Msgf("protocol.Parse failed at eof lines=%d err=%v", scanner.lineNum, err)
		return nil, err
	}
	log.Debug().Msgf(
		"protocol.Parse ok lines=%d compositions=%d footage=%d folders=%d",
		scanner.lineNum,
		len(root.Children(ListCompositions)),
		len(root.Children(ListFootage)),
		len(root.Children(ListFolders)),
	)
	return root, nil
}

// frame is one open section. For container sections rec is the owning record,
// used only as the parent of the items the container closes.
type frame struct {
	section Section
	marker  string
	rec     *Record
	owned   bool
	line    int
}

type parseState struct {
	root  *Record
	stack []frame
}

func newParseState() *parseState {
	return &parseState{root: NewRecord(SectionRoot)}
}

func (st *parseState) top() *frame {
	if len(st.stack) == 0 {
		return nil
	}
	return &st.stack[len(st.stack)-1]
}

func (st *parseState) current() *Record {
	if f := st.top(); f != nil {
		return f.rec
	}
	return st.root
}

func (st *parseState) currentSection() Section {
	if f := st.top(); f != nil {
		return f.section
	}
	return SectionRoot
}

func (st *parseState) openName() string {
	if f := st.top(); f != nil {
		return f.marker
	}
	return ""
}

func (st *parseState) fail(lineNum int, line, reason string) error {
	return &SectionError{Open: st.openName(), Line: line, LineNum: lineNum, Reason: reason}
}

func (st *parseState) feed(lineNum int, raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" {
		return nil
	}
	switch kind, name := classifyMarker(line); kind {
	case startMarker:
		return st.open(lineNum, line, name)
	case endMarker:
		return st.close(lineNum, line, name)
	}

	key, value, _ := strings.Cut(line, "=")
	if key == EffectKey {
		return st.addEffect(lineNum, line, value)
	}
	// Containers own no fields; a line between items belongs to nothing.
	if f := st.top(); f != nil && sections[f.section].container {
		log.Debug().Msgf("protocol.Parse dropped field line=%d open=%s key=%q", lineNum, f.marker, key)
		return nil
	}
	st.current().Set(key, Coerce(value))
	return nil
}

func (st *parseState) open(lineNum int, line, name string) error {
	section := lookupSection(name)
	if !section.LegalParent(st.currentSection()) {
		return st.fail(lineNum, line, fmt.Sprintf("%s not allowed inside %s", name, st.currentSection()))
	}
	for _, f := range st.stack {
		if f.marker == name {
			return st.fail(lineNum, line, fmt.Sprintf("%s already open since line %d", name, f.line))
		}
	}

	f := frame{section: section, marker: name, line: lineNum}
	switch {
	case section == SectionUnknown:
		f.rec, f.owned = newUnknownRecord(name), true
	case sections[section].container:
		f.rec = st.current()
	default:
		f.rec, f.owned = NewRecord(section), true
	}
	st.stack = append(st.stack, f)
	return nil
}

func (st *parseState) close(lineNum int, line, name string) error {
	f := st.top()
	if f == nil {
		return st.fail(lineNum, line, fmt.Sprintf("%s_END without open section", name))
	}
	if f.marker != name {
		return st.fail(lineNum, line, fmt.Sprintf("%s_END does not match open %s from line %d", name, f.marker, f.line))
	}
	done := *f
	st.stack = st.stack[:len(st.stack)-1]
	if !done.owned {
		return nil
	}

	owner := st.current()
	switch done.section {
	case SectionProjectInfo:
		st.root.merge(done.rec)
	case SectionUnknown:
		owner.appendChild(strings.ToLower(done.marker), done.rec)
	default:
		owner.appendChild(sections[done.section].list, done.rec)
	}
	return nil
}

// addEffect handles effect=<matchName>,<name>, split on the first comma.
func (st *parseState) addEffect(lineNum int, line, value string) error {
	var layer *Record
	for i := len(st.stack) - 1; i >= 0; i-- {
		if st.stack[i].section == SectionLayer {
			layer = st.stack[i].rec
			break
		}
	}
	if layer == nil {
		return st.fail(lineNum, line, "effect outside LAYER")
	}
	matchName, name, _ := strings.Cut(value, ",")
	effect := &Record{Section: SectionEffect}
	effect.Set(EffectMatchNameKey, StringValue(matchName))
	effect.Set(EffectNameKey, StringValue(name))
	layer.appendChild(ListEffects, effect)
	return nil
}

func (st *parseState) finish() (*Record, error) {
	if f := st.top(); f != nil {
		return nil, &SectionError{
			Open:    f.marker,
			Line:    f.marker + startSuffix,
			LineNum: f.line,
			Reason:  fmt.Sprintf("end of input with %d open section(s)", len(st.stack)),
		}
	}
	return st.root, nil
}
