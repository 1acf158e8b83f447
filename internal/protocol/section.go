package protocol

import "strings"

// Section enumerates the marker-delimited blocks of the analysis stream.
type Section uint8

const (
	SectionRoot Section = iota
	SectionProjectInfo
	SectionCompositions
	SectionComp
	SectionLayers
	SectionLayer
	SectionEffects
	SectionFootage
	SectionFootageItem
	SectionFolders
	SectionFolder
	// SectionUnknown is any well-formed NAME_START/NAME_END pair outside the known set.
	SectionUnknown
	// SectionEffect tags records built from effect= lines; it has no markers.
	SectionEffect
)

const (
	startSuffix = "_START"
	endSuffix   = "_END"
)

// Child list names.
const (
	ListCompositions = "compositions"
	ListFootage      = "footage"
	ListFolders      = "folders"
	ListLayers       = "layers"
	ListEffects      = "effects"
)

// EffectKey is the field key whose value is "<matchName>,<name>".
const EffectKey = "effect"

// Effect record keys.
const (
	EffectMatchNameKey = "matchName"
	EffectNameKey      = "name"
)

type sectionDef struct {
	marker string
	parent Section
	// container sections own no record; their items attach to the parent's record.
	container bool
	// list names the parent-owner child list an item record is appended to.
	list string
}

var sections = map[Section]sectionDef{
	SectionProjectInfo:  {marker: "PROJECT_INFO", parent: SectionRoot},
	SectionCompositions: {marker: "COMPOSITIONS", parent: SectionRoot, container: true},
	SectionComp:         {marker: "COMP", parent: SectionCompositions, list: ListCompositions},
	SectionLayers:       {marker: "LAYERS", parent: SectionComp, container: true},
	SectionLayer:        {marker: "LAYER", parent: SectionLayers, list: ListLayers},
	SectionEffects:      {marker: "EFFECTS", parent: SectionLayer, container: true},
	SectionFootage:      {marker: "FOOTAGE", parent: SectionRoot, container: true},
	SectionFootageItem:  {marker: "FOOTAGE_ITEM", parent: SectionFootage, list: ListFootage},
	SectionFolders:      {marker: "FOLDERS", parent: SectionRoot, container: true},
	SectionFolder:       {marker: "FOLDER", parent: SectionFolders, list: ListFolders},
}

var sectionsByMarker = func() map[string]Section {
	out := make(map[string]Section, len(sections))
	for s, def := range sections {
		out[def.marker] = s
	}
	return out
}()

// childLists are pre-initialized, in this order, on every new record of a section.
var childLists = map[Section][]string{
	SectionRoot:  {ListCompositions, ListFootage, ListFolders},
	SectionComp:  {ListLayers},
	SectionLayer: {ListEffects},
}

func (s Section) String() string {
	switch s {
	case SectionRoot:
		return "ROOT"
	case SectionUnknown:
		return "UNKNOWN"
	case SectionEffect:
		return "EFFECT"
	}
	if def, ok := sections[s]; ok {
		return def.marker
	}
	return "INVALID"
}

// Marker returns the marker name without the _START/_END suffix.
func (s Section) Marker() string {
	return sections[s].marker
}

// LegalParent reports whether s may be opened directly inside parent.
// Unknown sections may appear anywhere.
func (s Section) LegalParent(parent Section) bool {
	if s == SectionUnknown {
		return true
	}
	def, ok := sections[s]
	return ok && def.parent == parent
}

// markerKind classifies a trimmed line.
type markerKind uint8

const (
	notMarker markerKind = iota
	startMarker
	endMarker
)

// classifyMarker splits NAME_START / NAME_END lines. Names are upper-case
// identifiers; anything containing '=' is a field line.
func classifyMarker(line string) (markerKind, string) {
	if strings.ContainsRune(line, '=') {
		return notMarker, ""
	}
	var kind markerKind
	var name string
	switch {
	case strings.HasSuffix(line, startSuffix):
		kind, name = startMarker, strings.TrimSuffix(line, startSuffix)
	case strings.HasSuffix(line, endSuffix):
		kind, name = endMarker, strings.TrimSuffix(line, endSuffix)
	default:
		return notMarker, ""
	}
	if !isMarkerName(name) {
		return notMarker, ""
	}
	return kind, name
}

func isMarkerName(name string) bool {
	if name == "" || name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return true
}

func lookupSection(name string) Section {
	if s, ok := sectionsByMarker[name]; ok {
		return s
	}
	return SectionUnknown
}
