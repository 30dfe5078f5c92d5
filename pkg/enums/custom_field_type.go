package enums

import "fmt"

// CustomFieldType constrains the shape of a profile custom field value.
type CustomFieldType string

const (
	CustomFieldTypeText     CustomFieldType = "text"
	CustomFieldTypeTextarea CustomFieldType = "textarea"
	CustomFieldTypeURL      CustomFieldType = "url"
	CustomFieldTypeEmail    CustomFieldType = "email"
	CustomFieldTypePhone    CustomFieldType = "phone"
	CustomFieldTypeDate     CustomFieldType = "date"
)

var validCustomFieldTypes = []CustomFieldType{
	CustomFieldTypeText,
	CustomFieldTypeTextarea,
	CustomFieldTypeURL,
	CustomFieldTypeEmail,
	CustomFieldTypePhone,
	CustomFieldTypeDate,
}

// String implements fmt.Stringer.
func (t CustomFieldType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known CustomFieldType.
func (t CustomFieldType) IsValid() bool {
	for _, candidate := range validCustomFieldTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseCustomFieldType converts raw input into a CustomFieldType.
func ParseCustomFieldType(value string) (CustomFieldType, error) {
	for _, candidate := range validCustomFieldTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid custom field type %q", value)
}
