package algo

import (
	"sort"

	"github.com/huangsam/skillspot/schema"
)

// sortValue picks the ranking value for a key. Unknown keys fall back to count.
func sortValue(s schema.SkillStat, key schema.SortKey) float64 {
	switch key {
	case schema.SortByHotness:
		return s.Hotness
	case schema.SortByGrowth:
		return s.GrowthRate
	default:
		return float64(s.Count)
	}
}

// RankSkills sorts skills by key in descending order, breaking ties by skill name
// ascending, assigns 1-based ranks and returns the top 'limit' entries.
// A limit <= 0 returns every skill.
func RankSkills(skills []schema.SkillStat, key schema.SortKey, limit int) []schema.SkillStat {
	sort.SliceStable(skills, func(i, j int) bool {
		vi, vj := sortValue(skills[i], key), sortValue(skills[j], key)
		if vi != vj {
			return vi > vj
		}
		return skills[i].Skill < skills[j].Skill
	})
	if limit > 0 && len(skills) > limit {
		skills = skills[:limit]
	}
	for i := range skills {
		skills[i].Rank = i + 1
	}
	return skills
}

// RankTrending sorts trending skills by growth descending, then name ascending.
func RankTrending(skills []schema.TrendingSkill) []schema.TrendingSkill {
	sort.SliceStable(skills, func(i, j int) bool {
		if skills[i].GrowthRate != skills[j].GrowthRate {
			return skills[i].GrowthRate > skills[j].GrowthRate
		}
		return skills[i].Skill < skills[j].Skill
	})
	return skills
}

// RankCoOccurrences sorts by count descending, then name ascending.
func RankCoOccurrences(related []schema.CoOccurrence) []schema.CoOccurrence {
	sort.SliceStable(related, func(i, j int) bool {
		if related[i].Count != related[j].Count {
			return related[i].Count > related[j].Count
		}
		return related[i].Skill < related[j].Skill
	})
	return related
}

// RankCounts turns a name->count map into entries sorted by count descending,
// then name ascending, keeping only the top 'limit' (all when limit <= 0).
func RankCounts(counts map[string]int, limit int) []schema.NetworkNode {
	out := make([]schema.NetworkNode, 0, len(counts))
	for name, c := range counts {
		out = append(out, schema.NetworkNode{Skill: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Skill < out[j].Skill
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
