package markup

const (
	// RunIDElementID is the id of the element carrying the run identifier.
	RunIDElementID = "run-id"
	// RunIDSelector selects the run identifier element.
	RunIDSelector = "#" + RunIDElementID
	// EntryClass marks each entry container.
	EntryClass = "srt-object"
	// OriginalTextClass marks elements the host page injects with the
	// untranslated source text.
	OriginalTextClass = "original-text"
)

// Field positions inside an entry container.
const (
	fieldIndex = iota
	fieldTiming
	fieldText
	fieldCount
)
