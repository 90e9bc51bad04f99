package service

import (
	"sort"
	"strconv"

	"github.com/user/moviedash/internal/model"
	"github.com/user/moviedash/internal/repository"
	"github.com/user/moviedash/internal/utils"
)

// heightHistBins 身高直方图的分桶数
const heightHistBins = 30

// StatsService 数据集统计查询
// 所有查询都是对仓库快照的纯读操作，派生视图由仓库缓存，
// 重复调用、并发调用结果一致
type StatsService struct {
	store *repository.Store
}

// NewStatsService 创建统计服务
func NewStatsService(store *repository.Store) *StatsService {
	return &StatsService{store: store}
}

// MovieType 统计出现频率最高的前 topN 个电影类型
// 按出现次数降序，并列时按首次出现顺序（稳定排序）
// topN <= 0 时返回空结果（该行为在旧版里未定义，这里取空结果）
func (s *StatsService) MovieType(topN int) ([]model.GenreCount, error) {
	if !s.store.MoviesLoaded() {
		return nil, &NotLoadedError{Table: "movie"}
	}
	if topN <= 0 {
		return []model.GenreCount{}, nil
	}

	counts := make(map[string]int)
	var order []string
	for _, pairs := range s.store.DeserializedGenres() {
		for _, p := range pairs {
			if _, seen := counts[p.Name]; !seen {
				order = append(order, p.Name)
			}
			counts[p.Name]++
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if topN < len(order) {
		order = order[:topN]
	}

	out := make([]model.GenreCount, 0, len(order))
	for _, name := range order {
		out = append(out, model.GenreCount{MovieType: name, Count: counts[name]})
	}
	return out, nil
}

// ActorCount 演员数量直方图
// 先按电影去重统计演员名，再统计"有 k 个演员的电影有几部"，按 k 升序
func (s *StatsService) ActorCount() ([]model.ActorCountBucket, error) {
	if !s.store.CharactersLoaded() {
		return nil, &NotLoadedError{Table: "character"}
	}

	// 每部电影的去重演员名集合（空演员名视作缺失，不参与计数）
	perMovie := make(map[int64]map[string]struct{})
	for _, ch := range s.store.Characters() {
		actors, ok := perMovie[ch.WikipediaID]
		if !ok {
			actors = make(map[string]struct{})
			perMovie[ch.WikipediaID] = actors
		}
		if ch.ActorName != "" {
			actors[ch.ActorName] = struct{}{}
		}
	}

	hist := make(map[int]int)
	for _, actors := range perMovie {
		hist[len(actors)]++
	}

	keys := make([]int, 0, len(hist))
	for k := range hist {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]model.ActorCountBucket, 0, len(keys))
	for _, k := range keys {
		out = append(out, model.ActorCountBucket{NumberOfActors: k, MovieCount: hist[k]})
	}
	return out, nil
}

// ActorDistributions 按性别和身高区间筛选角色表
// gender 必须是 "All" 或角色表中实际出现过的性别值；
// 身高区间两端都取闭区间，身高缺失的行被区间过滤隐式排除；
// plot 为 true 时额外返回身高直方图分桶供前端绘图
func (s *StatsService) ActorDistributions(gender string, minHeight, maxHeight float64, plot bool) ([]model.Character, []model.HeightBucket, error) {
	if minHeight > maxHeight {
		return nil, nil, &InvalidRangeError{Min: minHeight, Max: maxHeight}
	}
	if !s.store.CharactersLoaded() {
		return nil, nil, &NotLoadedError{Table: "character"}
	}

	accepted := append([]string{"All"}, s.store.DistinctGenders()...)
	if gender != "All" {
		valid := false
		for _, g := range s.store.DistinctGenders() {
			if g == gender {
				valid = true
				break
			}
		}
		if !valid {
			return nil, nil, &InvalidArgumentError{Name: "gender", Value: gender, Accepted: accepted}
		}
	}

	var rows []model.Character
	for _, ch := range s.store.Characters() {
		if gender != "All" && ch.ActorGender != gender {
			continue
		}
		// 身高缺失时任何比较都不成立
		if ch.ActorHeight == nil {
			continue
		}
		if *ch.ActorHeight < minHeight || *ch.ActorHeight > maxHeight {
			continue
		}
		rows = append(rows, ch)
	}

	var hist []model.HeightBucket
	if plot {
		hist = heightHistogram(rows)
	}
	return rows, hist, nil
}

// heightHistogram 对筛选结果按实际身高范围等宽分桶
func heightHistogram(rows []model.Character) []model.HeightBucket {
	if len(rows) == 0 {
		return nil
	}

	lo, hi := *rows[0].ActorHeight, *rows[0].ActorHeight
	for _, ch := range rows[1:] {
		if *ch.ActorHeight < lo {
			lo = *ch.ActorHeight
		}
		if *ch.ActorHeight > hi {
			hi = *ch.ActorHeight
		}
	}

	if lo == hi {
		return []model.HeightBucket{{From: lo, To: hi, Count: len(rows)}}
	}

	width := (hi - lo) / heightHistBins
	counts := make([]int, heightHistBins)
	for _, ch := range rows {
		i := int((*ch.ActorHeight - lo) / width)
		if i >= heightHistBins {
			i = heightHistBins - 1 // 最大值落入最后一个桶
		}
		counts[i]++
	}

	out := make([]model.HeightBucket, 0, heightHistBins)
	for i, c := range counts {
		out = append(out, model.HeightBucket{
			From:  lo + float64(i)*width,
			To:    lo + float64(i+1)*width,
			Count: c,
		})
	}
	return out
}

// Releases 每年上映电影数量，可选按类型过滤
// genre 为空串表示不过滤；给定类型必须在数据集中实际出现过；
// 上映日期开头 4 个字符无法转成年份时返回 MalformedDateError
func (s *StatsService) Releases(genre string) ([]model.YearCount, error) {
	if !s.store.MoviesLoaded() {
		return nil, &NotLoadedError{Table: "movie"}
	}

	var genres [][]utils.CodeName
	if genre != "" {
		genres = s.store.DeserializedGenres()
		if _, ok := s.store.GenreSet()[genre]; !ok {
			return nil, &InvalidArgumentError{Name: "genre", Value: genre, Accepted: s.AcceptedGenres()}
		}
	}

	counts := make(map[int]int)
	for i, m := range s.store.Movies() {
		// 上映日期缺失的行直接丢弃
		if m.ReleaseDate == "" {
			continue
		}

		if genre != "" {
			match := false
			for _, p := range genres[i] {
				if p.Name == genre {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}

		token := m.ReleaseDate
		if len(token) > 4 {
			token = token[:4]
		}
		year, err := strconv.Atoi(token)
		if err != nil {
			return nil, &MalformedDateError{Value: m.ReleaseDate}
		}
		counts[year]++
	}

	years := make([]int, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	sort.Ints(years)

	out := make([]model.YearCount, 0, len(years))
	for _, y := range years {
		out = append(out, model.YearCount{Year: y, MovieCount: counts[y]})
	}
	return out, nil
}

// Ages 演员出生日期直方图，按年（"Y"）或按月（"M"）统计
// unit 非法时静默回退到按年统计，这是刻意保留的宽松策略，不报错
func (s *StatsService) Ages(unit string) (*model.AgesResult, error) {
	if !s.store.CharactersLoaded() {
		return nil, &NotLoadedError{Table: "character"}
	}

	if unit != "Y" && unit != "M" {
		unit = "Y"
	}

	counts := make(map[int]int)
	for _, ch := range s.store.Characters() {
		// 出生日期缺失的行直接丢弃
		if ch.ActorDOB == "" {
			continue
		}

		switch unit {
		case "Y":
			token := ch.ActorDOB
			if len(token) > 4 {
				token = token[:4]
			}
			// 非数字年份直接过滤掉
			if !isNumeric(token) {
				continue
			}
			year, _ := strconv.Atoi(token)
			counts[year]++
		case "M":
			token := monthToken(ch.ActorDOB)
			if token == "" {
				continue
			}
			month, err := strconv.Atoi(token)
			if err != nil {
				continue
			}
			counts[month]++
		}
	}

	keys := make([]int, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	rows := make([]model.BirthCount, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, model.BirthCount{Period: k, Count: counts[k]})
	}

	label := "Year"
	if unit == "M" {
		label = "Month"
	}
	return &model.AgesResult{Unit: unit, Label: label, Rows: rows}, nil
}

// AcceptedGenders 合法的性别筛选取值（"All" + 数据集中的实际取值）
func (s *StatsService) AcceptedGenders() []string {
	return append([]string{"All"}, s.store.DistinctGenders()...)
}

// AcceptedGenres 数据集中出现过的全部类型显示名，字典序
func (s *StatsService) AcceptedGenres() []string {
	set := s.store.GenreSet()
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// isNumeric 是否全部由数字组成
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// monthToken 提取出生日期的月份段（ISO 日期的第 5-6 个字符）
func monthToken(dob string) string {
	if len(dob) >= 7 {
		return dob[5:7]
	}
	if len(dob) > 5 {
		return dob[5:]
	}
	return ""
}
