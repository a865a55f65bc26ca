package progression

// LevelThreshold maps a level to the experience required to reach it
// and the title it carries.
type LevelThreshold struct {
	Level  int    `json:"level"`
	MinExp int    `json:"minExp"`
	Title  string `json:"title"`
}

// levelTable is fixed and ordered by level. Level is the highest entry
// whose MinExp does not exceed the user's experience.
var levelTable = []LevelThreshold{
	{Level: 1, MinExp: 0, Title: "Spendthrift Novice"},
	{Level: 5, MinExp: 100, Title: "Apprentice Saver"},
	{Level: 10, MinExp: 500, Title: "Mid-tier Penny Pincher"},
	{Level: 15, MinExp: 1200, Title: "Veteran Thrift Warrior"},
	{Level: 20, MinExp: 2000, Title: "Scold-Proof Shopper"},
	{Level: 25, MinExp: 3000, Title: "Will of Steel"},
	{Level: 30, MinExp: 5000, Title: "Saving Deity"},
}

// LevelForExp computes the level for an experience total.
func LevelForExp(exp int) int {
	for i := len(levelTable) - 1; i >= 0; i-- {
		if exp >= levelTable[i].MinExp {
			return levelTable[i].Level
		}
	}
	return levelTable[0].Level
}

// TitleForLevel returns the highest title the level qualifies for.
func TitleForLevel(level int) string {
	for i := len(levelTable) - 1; i >= 0; i-- {
		if level >= levelTable[i].Level {
			return levelTable[i].Title
		}
	}
	return levelTable[0].Title
}

// ExpToNext returns the experience still needed for the next table
// entry, or 0 at max level.
func ExpToNext(exp, level int) int {
	for _, t := range levelTable {
		if t.Level > level {
			return t.MinExp - exp
		}
	}
	return 0
}

// Thresholds returns a copy of the level table for display.
func Thresholds() []LevelThreshold {
	out := make([]LevelThreshold, len(levelTable))
	copy(out, levelTable)
	return out
}
