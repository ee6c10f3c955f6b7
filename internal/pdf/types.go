package pdf

import "errors"

// ErrMalformedDocument is returned when a byte sequence cannot be loaded as a
// PDF document. It is the only fatal error the inspection and fill paths
// produce; everything past loading degrades per field.
var ErrMalformedDocument = errors.New("malformed pdf document")

// ControlType identifies the kind of interactive control behind a form field.
type ControlType string

const (
	ControlTypeText      ControlType = "text"
	ControlTypeCheckbox  ControlType = "checkbox"
	ControlTypeRadio     ControlType = "radio"
	ControlTypeSelect    ControlType = "select"
	ControlTypeButton    ControlType = "button"
	ControlTypeSignature ControlType = "signature"
	ControlTypeUnknown   ControlType = "unknown"
)

// FormField describes one interactive form field of a document.
type FormField struct {
	Name    string      `json:"name"`
	Type    ControlType `json:"type"`
	Options []string    `json:"options,omitempty"`
}
