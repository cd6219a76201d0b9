// dto.go
package todo

import "encoding/json"

// ใช้ตอนสร้าง
type CreateTodoInput struct {
	Title json.RawMessage `json:"title"`
}

// TitleString returns the title when the client sent a JSON string.
// Absent, null, and non-string values all come back as "".
func (in CreateTodoInput) TitleString() string {
	var s string
	if len(in.Title) == 0 || json.Unmarshal(in.Title, &s) != nil {
		return ""
	}
	return s
}

// ใช้ตอนเปลี่ยนสถานะ
type UpdateStatusInput struct {
	Completed json.RawMessage `json:"completed"`
}

// CompletedBool coerces the raw value with the same truthiness rules a
// browser client applies: absent, null, false, 0 and "" are false.
func (in UpdateStatusInput) CompletedBool() bool {
	return truthy(in.Completed)
}

func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}

	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		// objects and arrays
		return true
	}
}
