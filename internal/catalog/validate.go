package catalog

import (
	"fmt"
	"strings"

	"github.com/statichead/rabbitears/internal/models"
)

// ValidatedChannel is a channel definition plus the schema issues found in
// it. A channel with issues is carried through to the import so its failure
// lands in the report without stopping the run.
type ValidatedChannel struct {
	Def    ChannelDef
	Issues []string
}

// Valid reports whether the channel definition passed schema validation.
func (vc *ValidatedChannel) Valid() bool {
	return len(vc.Issues) == 0
}

// Label identifies the channel in reports: its number when the document
// supplied one, otherwise its position in the channels sequence.
func (vc *ValidatedChannel) Label(index int) string {
	number := strings.TrimSpace(string(vc.Def.Number))
	if number != "" {
		return number
	}
	return fmt.Sprintf("channels[%d]", index)
}

// ValidatedDocument is the output of Validate: every channel definition in
// document order, each carrying its own schema issues.
type ValidatedDocument struct {
	Channels []ValidatedChannel
}

// Validate checks a parsed document against the catalog schema. Problems
// with the document shape itself (no channels sequence, duplicate channel
// numbers) abort the run with a *ValidationError listing every such
// violation. Problems scoped to a single channel entry (missing fields,
// unknown stream source) are recorded on that channel and fail only it at
// import time.
func Validate(doc *Document) (*ValidatedDocument, error) {
	if doc == nil || doc.Channels == nil {
		return nil, &ValidationError{Violations: []string{"document must contain a top-level channels sequence"}}
	}

	var violations []string

	seen := make(map[string]int, len(doc.Channels))
	for i := range doc.Channels {
		number := strings.TrimSpace(string(doc.Channels[i].Number))
		if number == "" {
			continue
		}
		if first, ok := seen[number]; ok {
			violations = append(violations,
				fmt.Sprintf("channels[%d]: number %q already used by channels[%d]", i, number, first))
			continue
		}
		seen[number] = i
	}
	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	vdoc := &ValidatedDocument{Channels: make([]ValidatedChannel, 0, len(doc.Channels))}
	for i := range doc.Channels {
		def := doc.Channels[i]
		vdoc.Channels = append(vdoc.Channels, ValidatedChannel{
			Def:    def,
			Issues: validateChannel(&def),
		})
	}
	return vdoc, nil
}

func validateChannel(def *ChannelDef) []string {
	var issues []string

	if strings.TrimSpace(string(def.Number)) == "" {
		issues = append(issues, "number is required")
	}
	if strings.TrimSpace(def.Name) == "" {
		issues = append(issues, "name is required")
	}

	for j := range def.Streams {
		issues = append(issues, validateStream(&def.Streams[j], j)...)
	}
	return issues
}

func validateStream(def *StreamDef, index int) []string {
	var issues []string

	if strings.TrimSpace(def.Collection) == "" {
		issues = append(issues, fmt.Sprintf("streams[%d]: collection is required", index))
	}
	if strings.TrimSpace(def.URL) == "" {
		issues = append(issues, fmt.Sprintf("streams[%d]: url is required", index))
	}
	if strings.TrimSpace(def.Source) == "" {
		issues = append(issues, fmt.Sprintf("streams[%d]: source is required", index))
	} else if !models.ValidSource(def.Source) {
		issues = append(issues, fmt.Sprintf("streams[%d]: source %q must be one of: youtube, archive", index, def.Source))
	}
	return issues
}
