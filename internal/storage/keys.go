package storage

import "fmt"

// Key scheme inherited from the original system. The constructed key is
// the primary per-type record; the activity key is the legacy flat copy
// kept for records written before types were namespaced.

// ConstructedKey is the primary key for generated content of a type.
func ConstructedKey(typ, id string) string {
	return fmt.Sprintf("constructed_%s_%s", typ, id)
}

// LegacyKey is the flat backward-compatibility copy.
func LegacyKey(id string) string {
	return fmt.Sprintf("activity_%s", id)
}

// FieldsKey holds the form field values an activity was built from.
func FieldsKey(id string) string {
	return fmt.Sprintf("activity_%s_fields", id)
}

// DeletedQuestionsKey tracks questions the user removed from a list.
func DeletedQuestionsKey(id string) string {
	return fmt.Sprintf("activity_deleted_questions_%s", id)
}

// TextContentKey holds standalone text renditions of an activity.
func TextContentKey(typ, id string) string {
	return fmt.Sprintf("text_content_%s_%s", typ, id)
}
