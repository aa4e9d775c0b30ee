package utility

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Label tạo nhãn hiển thị từ giá trị mã: "partially_received" -> "Partially Received"
func Label(value string) string {
	s := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(value))
	if s == "" {
		return value
	}
	return cases.Title(language.Und).String(s)
}
