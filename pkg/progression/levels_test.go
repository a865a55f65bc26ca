package progression

import "testing"

func TestLevelForExp(t *testing.T) {
	tests := []struct {
		exp   int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 5},
		{499, 5},
		{500, 10},
		{1200, 15},
		{1999, 15},
		{2000, 20},
		{3000, 25},
		{4999, 25},
		{5000, 30},
		{99999, 30},
	}

	for _, tt := range tests {
		if got := LevelForExp(tt.exp); got != tt.level {
			t.Errorf("LevelForExp(%d) = %d, expected %d", tt.exp, got, tt.level)
		}
	}
}

func TestLevelForExp_NonDecreasing(t *testing.T) {
	prev := 0
	for exp := 0; exp <= 6000; exp += 7 {
		level := LevelForExp(exp)
		if level < prev {
			t.Fatalf("LevelForExp(%d) = %d dropped below previous %d", exp, level, prev)
		}
		if again := LevelForExp(exp); again != level {
			t.Fatalf("LevelForExp(%d) not deterministic: %d then %d", exp, level, again)
		}
		prev = level
	}
}

func TestTitleForLevel(t *testing.T) {
	tests := []struct {
		level int
		title string
	}{
		{1, "Spendthrift Novice"},
		{4, "Spendthrift Novice"},
		{5, "Apprentice Saver"},
		{12, "Mid-tier Penny Pincher"},
		{30, "Saving Deity"},
		{42, "Saving Deity"},
	}

	for _, tt := range tests {
		if got := TitleForLevel(tt.level); got != tt.title {
			t.Errorf("TitleForLevel(%d) = %q, expected %q", tt.level, got, tt.title)
		}
	}
}

func TestExpToNext(t *testing.T) {
	tests := []struct {
		name  string
		exp   int
		level int
		want  int
	}{
		{"fresh user", 0, 1, 100},
		{"mid level", 150, 5, 350},
		{"just below max", 4800, 25, 200},
		{"max level", 5000, 30, 0},
		{"beyond max", 12000, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpToNext(tt.exp, tt.level); got != tt.want {
				t.Errorf("ExpToNext(%d, %d) = %d, expected %d", tt.exp, tt.level, got, tt.want)
			}
		})
	}
}
