package schema

// FieldType is the input widget family of a schema field.
type FieldType string

const (
	TypeText     FieldType = "text"
	TypeTextarea FieldType = "textarea"
	TypeSelect   FieldType = "select"
	TypeNumber   FieldType = "number"
	TypeSwitch   FieldType = "switch"
	TypeImage    FieldType = "image"
)

// ComponentSelect is the only accepted rendering override.
const ComponentSelect = "select"

// ParseFieldType clamps a raw type onto the known set; anything unknown
// degrades to text.
func ParseFieldType(s string) FieldType {
	switch t := FieldType(s); t {
	case TypeText, TypeTextarea, TypeSelect, TypeNumber, TypeSwitch, TypeImage:
		return t
	default:
		return TypeText
	}
}

// Option is one choice of a select field.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Field describes one input parameter of an ability.
type Field struct {
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required,omitempty"`
	Description string    `json:"description,omitempty"`
	Placeholder string    `json:"placeholder,omitempty"`
	Options     []Option  `json:"options,omitempty"`
	// DefaultValue is a string, float64 or bool; nil when absent.
	DefaultValue     interface{} `json:"default_value,omitempty"`
	Component        string      `json:"component,omitempty"`
	AllowCustomValue bool        `json:"allow_custom_value,omitempty"`
}

// IsSelect reports whether the field renders as a select, either by type or
// through the component override.
func (f Field) IsSelect() bool {
	return f.Type == TypeSelect || f.Component == ComponentSelect
}

// FieldByName finds a field by its key.
func FieldByName(fields []Field, name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
