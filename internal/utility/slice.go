package utility

import (
	"sort"
	"strings"
)

// SplitCSV tách chuỗi phân cách bởi dấu phẩy: trim, bỏ phần rỗng, bỏ trùng, sắp xếp
func SplitCSV(s string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, ok := seen[part]; ok {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	sort.Strings(out)
	return out
}
