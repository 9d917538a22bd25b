package model

import "strings"

// 初期カテゴリ
var DefaultCategories = []string{"Anillos", "Aretes", "Cadenas", "Pulseras", "Otros"}

// 初期カテゴリ + セッション追加分（大文字小文字は区別しない、重複なし）
func MergeCategories(extras []string) []string {
	out := make([]string, 0, len(DefaultCategories)+len(extras))
	seen := make(map[string]struct{}, cap(out))

	add := func(c string) {
		c = strings.TrimSpace(c)
		if c == "" {
			return
		}
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	for _, c := range DefaultCategories {
		add(c)
	}
	for _, c := range extras {
		add(c)
	}
	return out
}

func KnownCategory(name string, extras []string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, c := range MergeCategories(extras) {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}
