package utils

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CodeName 序列化映射字段中的一项（Freebase code -> 显示名）
type CodeName struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ParseCodeNameMap 解析序列化映射字段
// genres/languages/countries 列在单元格内存的是一个 JSON 对象文本，
// 形如 {"/m/02l7c8": "Romance Film", "/m/01z4y": "Comedy"}
// 返回保持原文出现顺序的键值对（map 会打乱顺序，排行的并列项
// 需要按首次出现顺序稳定排序）
func ParseCodeNameMap(s string) ([]CodeName, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	dec := json.NewDecoder(strings.NewReader(s))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("解析映射字段失败: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("解析映射字段失败: 不是 JSON 对象: %q", s)
	}

	var pairs []CodeName
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("解析映射字段失败: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("解析映射字段失败: 键不是字符串")
		}
		var val string
		if err := dec.Decode(&val); err != nil {
			return nil, fmt.Errorf("解析映射字段失败: %w", err)
		}
		pairs = append(pairs, CodeName{Code: key, Name: val})
	}

	return pairs, nil
}

// MapValues 提取映射字段的显示名列表（保持顺序）
func MapValues(pairs []CodeName) []string {
	if len(pairs) == 0 {
		return nil
	}
	names := make([]string, 0, len(pairs))
	for _, p := range pairs {
		names = append(names, p.Name)
	}
	return names
}
