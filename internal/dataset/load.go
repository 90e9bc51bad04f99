package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/user/moviedash/internal/model"
)

// LoadTables 从解压目录加载三张表
// 三个文件任一缺失即返回 MissingDatasetFileError 并指明缺失文件；
// 行内容不做额外校验，字段数不足按空值处理，数值字段解析失败按空值处理
func LoadTables(extractDir string) (model.MovieTable, model.CharacterTable, model.PlotSummaryTable, error) {
	paths := map[string]string{
		MovieFile:     filepath.Join(extractDir, MovieFile),
		CharacterFile: filepath.Join(extractDir, CharacterFile),
		PlotFile:      filepath.Join(extractDir, PlotFile),
	}

	var missing []string
	for _, name := range []string{MovieFile, CharacterFile, PlotFile} {
		if _, err := os.Stat(paths[name]); err != nil {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, nil, &MissingDatasetFileError{Files: missing}
	}

	var movies model.MovieTable
	err := readTSV(paths[MovieFile], func(rec []string) {
		movies = append(movies, model.Movie{
			WikipediaID: parseID(field(rec, 0)),
			FreebaseID:  field(rec, 1),
			Title:       field(rec, 2),
			ReleaseDate: field(rec, 3),
			BoxOffice:   parseFloat(field(rec, 4)),
			RuntimeMin:  parseFloat(field(rec, 5)),
			Languages:   field(rec, 6),
			Countries:   field(rec, 7),
			Genres:      field(rec, 8),
		})
	})
	if err != nil {
		return nil, nil, nil, err
	}

	var characters model.CharacterTable
	err = readTSV(paths[CharacterFile], func(rec []string) {
		characters = append(characters, model.Character{
			WikipediaID:      parseID(field(rec, 0)),
			FreebaseID:       field(rec, 1),
			MovieReleaseDate: field(rec, 2),
			CharacterName:    field(rec, 3),
			ActorDOB:         field(rec, 4),
			ActorGender:      field(rec, 5),
			ActorHeight:      parseFloat(field(rec, 6)),
			ActorEthnicity:   field(rec, 7),
			ActorName:        field(rec, 8),
			ActorAge:         parseFloat(field(rec, 9)),
			FreebaseMapID:    field(rec, 10),
			FreebaseCharID:   field(rec, 11),
			FreebaseActorID:  field(rec, 12),
		})
	})
	if err != nil {
		return nil, nil, nil, err
	}

	var plots model.PlotSummaryTable
	err = readTSV(paths[PlotFile], func(rec []string) {
		plots = append(plots, model.PlotSummary{
			WikipediaID: parseID(field(rec, 0)),
			Summary:     field(rec, 1),
		})
	})
	if err != nil {
		return nil, nil, nil, err
	}

	log.Printf("[数据集] 加载完成: 电影 %d 条, 角色 %d 条, 简介 %d 条",
		len(movies), len(characters), len(plots))

	return movies, characters, plots, nil
}

// readTSV 逐行读取无表头 TSV 文件
func readTSV(path string, fn func(rec []string)) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("打开数据文件失败 (%s): %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1 // 字段数不固定，短行按缺失处理

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("解析数据文件失败 (%s): %w", path, err)
		}
		fn(rec)
	}
	return nil
}

// field 按位置取字段，越界返回空串（短行容忍）
func field(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}

// parseID 解析数值主键，非法值归零（与底层解析器的容忍度保持一致）
func parseID(s string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v
}

// parseFloat 解析可空数值列，空串或非法值返回 nil
func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
