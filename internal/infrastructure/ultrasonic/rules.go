package ultrasonic

import "glulam-ndt/internal/domain/entity"

// severityRule одно правило классификации зоны
type severityRule struct {
	name       string
	matches    func(z entity.Zone) bool
	confidence entity.Confidence
	severity   entity.Severity
}

// severityRules проверяются по порядку, срабатывает первое подходящее.
// Последнее правило подходит всегда.
var severityRules = []severityRule{
	{
		name:       "definite peak",
		matches:    func(z entity.Zone) bool { return z.MaxTOF >= entity.DefiniteTOF },
		confidence: entity.ConfidenceHigh,
		severity:   entity.SeveritySevere,
	},
	{
		name:       "likely peak",
		matches:    func(z entity.Zone) bool { return z.MaxTOF >= entity.LikelyTOF },
		confidence: entity.ConfidenceHigh,
		severity:   entity.SeverityModerate,
	},
	{
		name:       "sustained suspicious average",
		matches:    func(z entity.Zone) bool { return z.AvgTOF >= entity.SuspiciousTOF && len(z.Points) >= 2 },
		confidence: entity.ConfidenceMedium,
		severity:   entity.SeverityMild,
	},
	{
		name:       "baseline elevation only",
		matches:    func(entity.Zone) bool { return true },
		confidence: entity.ConfidenceLow,
		severity:   entity.SeverityPossible,
	},
}

func matchSeverity(z entity.Zone) severityRule {
	for _, r := range severityRules {
		if r.matches(z) {
			return r
		}
	}
	return severityRules[len(severityRules)-1]
}
