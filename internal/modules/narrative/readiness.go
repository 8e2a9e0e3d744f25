package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/studyflow-backend/internal/modules/analytics"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
	"github.com/yungbote/studyflow-backend/internal/platform/openai"
)

const (
	readinessMaxLength  = 400
	maxSummaryChars     = 600
	readinessRiskFactor = 3
)

var readinessTemperature = 0.3

const readinessSystemPrompt = `You write short exam-readiness briefings for a student.
You receive a JSON report computed by a scheduler. Reply with a single JSON object:
{"summary": string, "probability": number 0-100, "risk_tier": "low"|"medium"|"high"|"critical", "risk_factors": [string, at most 3]}.
Stay consistent with the numbers you were given. No markdown.`

// EnhanceReadiness asks the enhancer to rephrase rep. Summary, Probability, RiskTier
// and RiskFactors are each replaced only when the returned field validates; all
// other fields are untouched. Indeterminate reports are returned as is.
func EnhanceReadiness(ctx context.Context, enh Enhancer, log *logger.Logger, rep analytics.ReadinessReport) analytics.ReadinessReport {
	if enh == nil || rep.Indeterminate {
		return rep
	}
	payload, err := json.Marshal(map[string]any{
		"days_left":       rep.DaysLeft,
		"overall_pct":     rep.OverallPct,
		"probability":     rep.Probability,
		"risk_tier":       rep.RiskTier,
		"subjects":        rep.Subjects,
		"warnings":        rep.Warnings,
		"recommendations": rep.Recommendations,
	})
	if err != nil {
		return rep
	}

	temp := readinessTemperature
	text, err := enh.Generate(ctx, []openai.Block{
		{Role: "system", Text: readinessSystemPrompt},
		{Role: "user", Text: string(payload)},
	}, openai.Options{MaxLength: readinessMaxLength, Temperature: &temp})
	if err != nil {
		if log != nil && !errors.Is(err, ErrDisabled) {
			log.Warn("readiness narrative failed; keeping deterministic report", "error", err)
		}
		return rep
	}

	obj, ok := ExtractObject(text)
	if !ok {
		if log != nil {
			log.Warn("readiness narrative was not a JSON object; keeping deterministic report", "chars", len(text))
		}
		return rep
	}

	out := rep
	rejected := []string{}
	if s, ok := asString(obj["summary"]); ok {
		s = truncateRunes(s, maxSummaryChars)
		out.Summary = s
		out.Enhanced = true
	} else if _, present := obj["summary"]; present {
		rejected = append(rejected, "summary")
	}
	if p, ok := asNumber(obj["probability"]); ok && !math.IsNaN(p) && p >= 0 && p <= 100 {
		out.Probability = math.Round(p*10) / 10
		out.Enhanced = true
	} else if _, present := obj["probability"]; present {
		rejected = append(rejected, "probability")
	}
	if tier, ok := asString(obj["risk_tier"]); ok && analytics.ValidRiskTier(strings.ToLower(tier)) {
		out.RiskTier = strings.ToLower(tier)
		out.Enhanced = true
	} else if _, present := obj["risk_tier"]; present {
		rejected = append(rejected, "risk_tier")
	}
	if factors, ok := asStringList(obj["risk_factors"], readinessRiskFactor); ok {
		out.RiskFactors = factors
		out.Enhanced = true
	} else if _, present := obj["risk_factors"]; present {
		rejected = append(rejected, "risk_factors")
	}

	if len(rejected) > 0 && log != nil {
		log.Warn("readiness narrative fields rejected", "fields", strings.Join(rejected, ","))
	}
	return out
}

// truncateRunes cuts s to at most n runes without splitting a character.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n]))
}
