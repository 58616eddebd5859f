package intel

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"qrsafe/internal/domain"
	"qrsafe/internal/ports"
)

const (
	FallbackReason  = "Unable to determine a clear reason."
	DegradedDetails = "Unable to verify this URL through web search. Please proceed with caution."
)

// Rating is the constrained vocabulary of the analysis answer.
type Rating string

const (
	RatingSafe       Rating = "safe"
	RatingSuspicious Rating = "suspicious"
	RatingDangerous  Rating = "dangerous"
	RatingUncertain  Rating = "uncertain"
)

var (
	safetyPattern = regexp.MustCompile(`(?i)SAFETY:\s*(safe|suspicious|dangerous)`)
	reasonPattern = regexp.MustCompile(`(?im)REASON:\s*(.*?)\s*$`)
)

const analysisPromptPattern = `Based on the following information about %s, determine if the website is safe, suspicious, or dangerous.

Web search information:
%s

Respond in this exact format:
SAFETY: [safe/suspicious/dangerous]
REASON: [one clear sentence explaining your assessment]`

// Assessment is the parsed form of an analysis answer.
type Assessment struct {
	Rating Rating
	Reason string
}

// Safe maps the rating onto the tri-state verdict value.
func (a Assessment) Safe() *bool {
	switch a.Rating {
	case RatingSafe:
		return domain.Ptr(true)
	case RatingDangerous:
		return domain.Ptr(false)
	default:
		return nil
	}
}

// ParseAssessment reads the first SAFETY and REASON lines from text. Missing
// or unrecognised values resolve to RatingUncertain and FallbackReason.
func ParseAssessment(text string) Assessment {
	a := Assessment{Rating: RatingUncertain, Reason: FallbackReason}
	if m := safetyPattern.FindStringSubmatch(text); m != nil {
		a.Rating = Rating(strings.ToLower(m[1]))
	}
	if m := reasonPattern.FindStringSubmatch(text); m != nil {
		if reason := strings.TrimSpace(m[1]); reason != "" {
			a.Reason = reason
		}
	}
	return a
}

// Extractor forces the free-text findings into a structured verdict with a
// second, search-free model call.
type Extractor struct {
	asker ports.Asker
	model string
}

func NewExtractor(asker ports.Asker, model string) *Extractor {
	return &Extractor{asker: asker, model: model}
}

// Extract never fails: a model fault yields a degraded verdict.
func (e *Extractor) Extract(ctx context.Context, rawURL string, findings domain.Findings) domain.SafetyVerdict {
	text, err := e.asker.Ask(ctx, ports.AskRequest{
		Model:  e.model,
		Prompt: AnalysisPrompt(rawURL, findings),
	})
	if err != nil {
		return Degraded(fmt.Errorf("analyse findings: %w", err))
	}
	a := ParseAssessment(text)
	raw := string(findings)
	return domain.SafetyVerdict{
		Safe:        a.Safe(),
		Source:      domain.IntelligenceSource,
		Details:     a.Reason,
		RawFindings: &raw,
	}
}

// AnalysisPrompt embeds the findings in the fixed two-line format request.
func AnalysisPrompt(rawURL string, findings domain.Findings) string {
	return fmt.Sprintf(analysisPromptPattern, rawURL, findings)
}

// Degraded builds the soft-fail verdict for cause.
func Degraded(cause error) domain.SafetyVerdict {
	msg := cause.Error()
	return domain.SafetyVerdict{
		Safe:    nil,
		Source:  domain.IntelligenceSource,
		Details: DegradedDetails,
		Error:   &msg,
	}
}
