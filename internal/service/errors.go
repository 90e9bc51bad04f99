package service

import (
	"fmt"
	"strings"
)

// NotLoadedError 查询在数据集加载完成前被调用
type NotLoadedError struct {
	Table string
}

func (e *NotLoadedError) Error() string {
	return fmt.Sprintf("数据集尚未加载 (%s 表)", e.Table)
}

// InvalidArgumentError 参数取值不在允许范围内
// Accepted 携带动态计算出的合法取值集合，方便调用方直接展示
type InvalidArgumentError struct {
	Name     string
	Value    string
	Accepted []string
}

func (e *InvalidArgumentError) Error() string {
	if len(e.Accepted) > 0 {
		return fmt.Sprintf("参数 %s 取值非法: %q，允许的取值: %s",
			e.Name, e.Value, strings.Join(e.Accepted, ", "))
	}
	return fmt.Sprintf("参数 %s 取值非法: %q", e.Name, e.Value)
}

// InvalidRangeError 身高区间下界大于上界
type InvalidRangeError struct {
	Min, Max float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("身高区间非法: min_height (%.2f) 不能大于 max_height (%.2f)", e.Min, e.Max)
}

// MalformedDateError 日期字段的年份前缀无法转换为整数
type MalformedDateError struct {
	Value string
}

func (e *MalformedDateError) Error() string {
	return fmt.Sprintf("日期字段格式非法，无法提取年份: %q", e.Value)
}
