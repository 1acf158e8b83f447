package protocol

import (
	"bufio"
	"io"
	"strings"
)

// Encode writes root back out in the stream grammar. Parsing the output
// yields a tree equal to root.
func Encode(w io.Writer, root *Record) error {
	if root == nil {
		return ErrNilRecord
	}
	e := &encoder{w: bufio.NewWriter(w)}

	if len(root.Fields) > 0 {
		e.line(SectionProjectInfo.Marker() + startSuffix)
		e.fields(root)
		e.line(SectionProjectInfo.Marker() + endSuffix)
	}
	e.container(SectionCompositions, root.List(ListCompositions))
	e.container(SectionFootage, root.List(ListFootage))
	e.container(SectionFolders, root.List(ListFolders))
	e.unknownLists(root)

	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}

type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) line(s string) {
	if e.err != nil {
		return
	}
	if _, err := e.w.WriteString(s); err != nil {
		e.err = err
		return
	}
	e.err = e.w.WriteByte('\n')
}

func (e *encoder) fields(r *Record) {
	for _, f := range r.Fields {
		e.line(f.Key + "=" + f.Value.Text())
	}
}

// container emits MARKER_START, each item block, MARKER_END. Empty lists are skipped.
func (e *encoder) container(section Section, l *List) {
	if l == nil || len(l.Items) == 0 {
		return
	}
	e.line(section.Marker() + startSuffix)
	for _, item := range l.Items {
		e.record(item, item.Section.Marker())
	}
	e.line(section.Marker() + endSuffix)
}

func (e *encoder) record(r *Record, marker string) {
	e.line(marker + startSuffix)
	e.fields(r)
	switch r.Section {
	case SectionComp:
		e.container(SectionLayers, r.List(ListLayers))
	case SectionLayer:
		e.effects(r.List(ListEffects))
	}
	e.unknownLists(r)
	e.line(marker + endSuffix)
}

func (e *encoder) effects(l *List) {
	if l == nil || len(l.Items) == 0 {
		return
	}
	e.line(SectionEffects.Marker() + startSuffix)
	for _, effect := range l.Items {
		matchName, _ := effect.Get(EffectMatchNameKey)
		name, _ := effect.Get(EffectNameKey)
		e.line(EffectKey + "=" + matchName.Text() + "," + name.Text())
	}
	e.line(SectionEffects.Marker() + endSuffix)
}

func (e *encoder) unknownLists(r *Record) {
	for _, l := range r.Lists {
		if l.Section != SectionUnknown {
			continue
		}
		marker := l.Marker
		if marker == "" {
			marker = strings.ToUpper(l.Name)
		}
		for _, item := range l.Items {
			e.record(item, marker)
		}
	}
}
