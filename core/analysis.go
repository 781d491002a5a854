package core

import (
	"github.com/huangsam/skillspot/schema"
	"go.uber.org/zap"
)

// scoredSkill is one skill row handed to run tracking.
type scoredSkill struct {
	name  string
	score schema.SkillScore
}

// recordAnalysis stores one scoring run when an analysis store is configured.
// Tracking failures are logged and never affect the query result.
func (e *Engine) recordAnalysis(op, version string, params map[string]any, skills []scoredSkill) {
	if e.analysis == nil {
		return
	}
	start := e.now()
	params["operation"] = op

	analysisID, err := e.analysis.BeginAnalysis(start, version, params)
	if err != nil {
		e.logger.Warn("analysis tracking initialization failed", zap.String("op", op), zap.Error(err))
		return
	}

	recorded := 0
	for _, s := range skills {
		s.score.AnalysisTime = start
		s.score.Operation = op
		if err := e.analysis.RecordSkillScore(analysisID, s.name, s.score); err != nil {
			e.logger.Warn("failed to record skill score",
				zap.Int64("analysis_id", analysisID), zap.String("skill", s.name), zap.Error(err))
			continue
		}
		recorded++
	}

	if err := e.analysis.EndAnalysis(analysisID, e.now(), recorded); err != nil {
		e.logger.Warn("failed to finalize analysis tracking", zap.Int64("analysis_id", analysisID), zap.Error(err))
	}
}

// statScores converts ranked skill rows for tracking.
func statScores(stats []schema.SkillStat) []scoredSkill {
	out := make([]scoredSkill, len(stats))
	for i, s := range stats {
		out[i] = scoredSkill{name: s.Skill, score: schema.SkillScore{
			Count:         s.Count,
			GrowthRate:    s.GrowthRate,
			SalaryPremium: s.SalaryPremium,
			DemandGap:     s.DemandGap,
			Hotness:       s.Hotness,
			Label:         s.Label,
		}}
	}
	return out
}
