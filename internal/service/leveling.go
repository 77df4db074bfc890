package service

// LevelThresholds is the cumulative XP needed to *be* at each level, indexed
// by level-1. Hand-tuned, not a formula: early levels are cheap so new users
// level up in their first sessions, later levels stretch out. Treat this as
// product configuration; retuning it is safe because levels are always
// recomputed from xp_total, never patched incrementally.
var LevelThresholds = []int{
	0,      // 1
	100,    // 2
	250,    // 3
	450,    // 4
	700,    // 5
	1000,   // 6
	1350,   // 7
	1750,   // 8
	2200,   // 9
	2700,   // 10
	3300,   // 11
	4000,   // 12
	4800,   // 13
	5700,   // 14
	6700,   // 15
	7800,   // 16
	9000,   // 17
	10300,  // 18
	11700,  // 19
	13200,  // 20
	14900,  // 21
	16800,  // 22
	18900,  // 23
	21200,  // 24
	23700,  // 25
	26400,  // 26
	29300,  // 27
	32400,  // 28
	35700,  // 29
	39200,  // 30
	43000,  // 31
	47100,  // 32
	51500,  // 33
	56200,  // 34
	61200,  // 35
	66500,  // 36
	72100,  // 37
	78000,  // 38
	84200,  // 39
	90700,  // 40
	97600,  // 41
	104900, // 42
	112600, // 43
	120700, // 44
	129200, // 45
	138100, // 46
	147400, // 47
	157100, // 48
	167200, // 49
	177700, // 50
}

// RankTitle maps a minimum level to a display title; the rank for a level is
// the highest MinLevel not exceeding it.
type RankTitle struct {
	MinLevel int    `json:"min_level"`
	Title    string `json:"title"`
}

var RankTitles = []RankTitle{
	{MinLevel: 1, Title: "Novice"},
	{MinLevel: 5, Title: "Apprentice"},
	{MinLevel: 10, Title: "Coder"},
	{MinLevel: 15, Title: "Developer"},
	{MinLevel: 20, Title: "Engineer"},
	{MinLevel: 30, Title: "Architect"},
	{MinLevel: 40, Title: "Master"},
	{MinLevel: 50, Title: "Legend"},
}

// LevelProgress is the derived view of a ledger total against the table.
type LevelProgress struct {
	Level              int     `json:"level"`
	RankTitle          string  `json:"rank_title"`
	CurrentLevelFloor  int     `json:"current_level_floor"`
	NextLevelCeiling   int     `json:"next_level_ceiling"`
	ProgressXP         int     `json:"progress_xp"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// LevelingService is a pure calculator over the threshold and rank tables.
type LevelingService struct {
	thresholds []int
	ranks      []RankTitle
}

func NewLevelingService() *LevelingService {
	return &LevelingService{thresholds: LevelThresholds, ranks: RankTitles}
}

// MaxLevel is the highest level the table defines.
func (s *LevelingService) MaxLevel() int {
	return len(s.thresholds)
}

// ThresholdForLevel returns the cumulative XP required to be at level.
// Levels beyond the table are pinned to the top threshold.
func (s *LevelingService) ThresholdForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	if level > len(s.thresholds) {
		return s.thresholds[len(s.thresholds)-1]
	}
	return s.thresholds[level-1]
}

// LevelForXP returns the highest level whose threshold does not exceed xp.
func (s *LevelingService) LevelForXP(xpTotal int) int {
	if xpTotal <= 0 {
		return 1
	}

	// Binary search over the monotonic threshold table.
	lo, hi := 0, len(s.thresholds)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.thresholds[mid] <= xpTotal {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo + 1
}

// RankForLevel returns the title of the highest rank at or below level.
func (s *LevelingService) RankForLevel(level int) string {
	title := s.ranks[0].Title
	for _, r := range s.ranks {
		if level >= r.MinLevel {
			title = r.Title
		}
	}
	return title
}

// Progress derives the full level view from a ledger total. At the maximum
// defined level the percentage is pinned at 100 and the ceiling equals the
// floor: no further level-up is possible.
func (s *LevelingService) Progress(xpTotal int) LevelProgress {
	if xpTotal < 0 {
		xpTotal = 0
	}

	level := s.LevelForXP(xpTotal)
	floor := s.ThresholdForLevel(level)

	p := LevelProgress{
		Level:             level,
		RankTitle:         s.RankForLevel(level),
		CurrentLevelFloor: floor,
	}

	if level >= s.MaxLevel() {
		p.NextLevelCeiling = floor
		p.ProgressXP = xpTotal - floor
		p.ProgressPercentage = 100
		return p
	}

	ceiling := s.ThresholdForLevel(level + 1)
	p.NextLevelCeiling = ceiling
	p.ProgressXP = xpTotal - floor
	p.ProgressPercentage = float64(p.ProgressXP) / float64(ceiling-floor) * 100
	return p
}
