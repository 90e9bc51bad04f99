package dataset

import (
	"fmt"
	"strings"
)

// AcquisitionError 下载阶段失败（网络错误、超时、写盘失败）
// 调用方自行决定是否删除残留文件后重试，本层不做自动重试
type AcquisitionError struct {
	URL string
	Err error
}

func (e *AcquisitionError) Error() string {
	return fmt.Sprintf("数据集下载失败 (%s): %v", e.URL, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// ArchiveError 压缩包损坏或无法解压
type ArchiveError struct {
	Path string
	Err  error
}

func (e *ArchiveError) Error() string {
	return fmt.Sprintf("压缩包解压失败 (%s): %v", e.Path, e.Err)
}

func (e *ArchiveError) Unwrap() error { return e.Err }

// MissingDatasetFileError 解压后缺少预期的数据文件，致命错误
type MissingDatasetFileError struct {
	Files []string
}

func (e *MissingDatasetFileError) Error() string {
	return fmt.Sprintf("数据集文件缺失: %s，请检查解压结果", strings.Join(e.Files, ", "))
}
