// Package binding encodes and decodes the identifier stored on a generated diagram.
//
// An identifier has the form
//
//	bound-diagram#<type>#<uniqueId>#<sheetId>#<extent>
//
// and is the only persisted state tying a diagram to its source range.
package binding

import (
	"strconv"
	"strings"

	"github.com/ukaji3/vennsync/pkg/vennsync/models"
)

// Tag prefixes every identifier owned by this package.
const Tag = "bound-diagram"

// Separator separates identifier fields.
const Separator = "#"

const fieldCount = 5

// Encode builds the identifier for a diagram bound to extentText on sheetID.
func Encode(t models.DiagramType, uniqueID int64, sheetID int, extentText string) string {
	return strings.Join([]string{
		Tag,
		string(t),
		strconv.FormatInt(uniqueID, 10),
		strconv.Itoa(sheetID),
		extentText,
	}, Separator)
}

// IsBound reports whether s carries the identifier tag.
func IsBound(s string) bool {
	return strings.HasPrefix(s, Tag+Separator)
}

// Decode parses an identifier. It reports false for identifiers not owned by this
// package, for unknown diagram types and for malformed numeric fields.
func Decode(s string) (models.Binding, bool) {
	if !IsBound(s) {
		return models.Binding{}, false
	}

	fields := strings.SplitN(s, Separator, fieldCount)
	if len(fields) < fieldCount {
		return models.Binding{}, false
	}

	t := models.DiagramType(fields[1])
	if !t.Valid() {
		return models.Binding{}, false
	}
	uniqueID, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return models.Binding{}, false
	}
	sheetID, err := strconv.Atoi(fields[3])
	if err != nil {
		return models.Binding{}, false
	}

	return models.Binding{
		Type:       t,
		UniqueID:   uniqueID,
		SheetID:    sheetID,
		ExtentText: fields[4],
		Alt:        s,
	}, true
}
