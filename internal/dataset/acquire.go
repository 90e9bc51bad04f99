package dataset

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArchiveName 数据集压缩包文件名
const ArchiveName = "MovieSummaries.tar.gz"

const (
	// 下载整体超时，数据集约 46MB，慢速网络下留足余量
	downloadTimeout = 10 * time.Minute
	// 分块拷贝缓冲区大小，避免整个响应体进内存
	copyBufferSize = 64 * 1024
)

// EnsureLocalCopy 确保本地缓存目录中存在解压后的数据集
// 以文件/目录是否存在作为幂等标记：压缩包已存在则跳过下载，
// 解压目录已存在则跳过解压，不做内容校验
func EnsureLocalCopy(ctx context.Context, url, downloadDir, extractDir string) error {
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return &AcquisitionError{URL: url, Err: fmt.Errorf("创建下载目录失败: %w", err)}
	}

	archive := filepath.Join(downloadDir, ArchiveName)

	if _, err := os.Stat(archive); os.IsNotExist(err) {
		if err := downloadFile(ctx, url, archive); err != nil {
			return err
		}
	} else {
		log.Println("[数据集] 压缩包已存在，跳过下载")
	}

	if _, err := os.Stat(extractDir); os.IsNotExist(err) {
		if err := extractArchive(archive, downloadDir); err != nil {
			return err
		}
	} else {
		log.Println("[数据集] 已解压，跳过解压")
	}

	return nil
}

// downloadFile 分块流式下载到临时文件，成功后原子重命名
// 避免中断后留下看似完整实则损坏的压缩包
func downloadFile(ctx context.Context, url, dest string) error {
	log.Printf("[数据集] 开始下载: %s", url)

	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &AcquisitionError{URL: url, Err: err}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return &AcquisitionError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &AcquisitionError{URL: url, Err: fmt.Errorf("服务端返回状态码 %d", resp.StatusCode)}
	}

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return &AcquisitionError{URL: url, Err: err}
	}

	buf := make([]byte, copyBufferSize)
	if _, err := io.CopyBuffer(f, resp.Body, buf); err != nil {
		f.Close()
		os.Remove(tmp)
		return &AcquisitionError{URL: url, Err: fmt.Errorf("写入中断: %w", err)}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return &AcquisitionError{URL: url, Err: err}
	}

	if err := os.Rename(tmp, dest); err != nil {
		return &AcquisitionError{URL: url, Err: err}
	}

	log.Println("[数据集] 下载完成")
	return nil
}

// extractArchive 将 gzip 压缩的 tar 包解压到目标目录
// 解压目录由压缩包内部结构产生（MovieSummaries/...）
func extractArchive(archive, destDir string) error {
	log.Printf("[数据集] 开始解压: %s", archive)

	f, err := os.Open(archive)
	if err != nil {
		return &ArchiveError{Path: archive, Err: err}
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return &ArchiveError{Path: archive, Err: err}
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &ArchiveError{Path: archive, Err: err}
		}

		// 拒绝指向目录外的条目
		name := filepath.Clean(hdr.Name)
		if filepath.IsAbs(name) || strings.HasPrefix(name, "..") {
			return &ArchiveError{Path: archive, Err: fmt.Errorf("非法路径条目: %s", hdr.Name)}
		}
		target := filepath.Join(destDir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return &ArchiveError{Path: archive, Err: err}
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return &ArchiveError{Path: archive, Err: err}
			}
			out, err := os.Create(target)
			if err != nil {
				return &ArchiveError{Path: archive, Err: err}
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return &ArchiveError{Path: archive, Err: err}
			}
			if err := out.Close(); err != nil {
				return &ArchiveError{Path: archive, Err: err}
			}
		default:
			// 数据集内只有目录和普通文件，其余类型直接跳过
		}
	}

	log.Println("[数据集] 解压完成")
	return nil
}
