package redflag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// SurgeryProtocol is the part of a rehabilitation protocol the classifier
// needs: free-text red flags specific to the surgery.
type SurgeryProtocol struct {
	SurgeryType string
	RedFlags    []string
}

// ProtocolLookup resolves protocol-specific red flags. It returns nil, nil
// for an unknown surgery type.
type ProtocolLookup interface {
	GetSurgeryProtocol(ctx context.Context, surgeryType string) (*SurgeryProtocol, error)
}

// Checker is implemented by Classifier and by the cached wrapper.
type Checker interface {
	CheckRedFlags(ctx context.Context, symptoms []string, surgeryType string) *Report
}

// Evaluate scans symptoms in three explicit phases per symptom: the
// critical taxonomy, then the warning taxonomy, then protocol flags. A
// symptom that matches a critical entry is never also reported as a warning.
func Evaluate(symptoms []string, protocolFlags []string) *Report {
	var checks []Check
	for _, symptom := range symptoms {
		if strings.TrimSpace(symptom) == "" {
			continue
		}

		if entry, kws := matchTaxonomy(symptom, CriticalTaxonomy); entry != nil {
			checks = append(checks, checkFromEntry(symptom, entry, SeverityCritical, kws))
			continue
		}
		if entry, kws := matchTaxonomy(symptom, WarningTaxonomy); entry != nil {
			checks = append(checks, checkFromEntry(symptom, entry, SeverityWarning, kws))
			continue
		}
		for _, flag := range protocolFlags {
			kws := Matches(symptom, []string{flag})
			if len(kws) == 0 {
				continue
			}
			checks = append(checks, Check{
				Symptom:         symptom,
				Condition:       flag,
				Severity:        SeverityWarning,
				Action:          "Contact your surgical team today about this symptom.",
				Urgency:         UrgencySameDay,
				MatchedKeywords: kws,
			})
		}
	}
	return buildReport(checks)
}

func checkFromEntry(symptom string, e *TaxonomyEntry, sev Severity, kws []string) Check {
	return Check{
		Symptom:         symptom,
		Condition:       e.Label,
		Severity:        sev,
		Action:          e.Action,
		Urgency:         e.Urgency,
		MatchedKeywords: kws,
		Criteria:        e.Criteria,
		RiskFactors:     e.RiskFactors,
	}
}

func buildReport(checks []Check) *Report {
	seen := make(map[string]bool, len(checks))
	deduped := make([]Check, 0, len(checks))
	for _, c := range checks {
		if seen[c.Condition] {
			continue
		}
		seen[c.Condition] = true
		deduped = append(deduped, c)
	}
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Severity.rank() < deduped[j].Severity.rank()
	})

	r := &Report{Checks: deduped}
	for _, c := range deduped {
		if c.Severity == SeverityCritical {
			r.CriticalCount++
		} else {
			r.WarningCount++
		}
	}
	r.HasRedFlags = len(deduped) > 0
	switch {
	case r.CriticalCount > 0:
		r.Recommendation = RecommendationEmergency
	case r.HasRedFlags:
		r.Recommendation = RecommendationContact
	default:
		r.Recommendation = RecommendationContinue
	}
	return r
}

// markIncomplete records that part of the scan could not run. The emergency
// recommendation is kept when a critical flag was still found.
func markIncomplete(r *Report, err error) {
	r.Incomplete = true
	r.EvaluationError = err.Error()
	if r.CriticalCount == 0 {
		r.Recommendation = RecommendationUnchecked
	}
}

// Classifier runs red-flag scans with protocol-specific flags.
type Classifier struct {
	protocols ProtocolLookup
	logger    zerolog.Logger
}

// NewClassifier creates a classifier. protocols may be nil, in which case
// only the static taxonomies are used.
func NewClassifier(protocols ProtocolLookup, logger zerolog.Logger) *Classifier {
	return &Classifier{
		protocols: protocols,
		logger:    logger.With().Str("component", "redflag").Logger(),
	}
}

// CheckRedFlags scans symptoms, adding protocol flags for surgeryType. A
// failed protocol lookup never hides the static-table matches; it marks the
// report incomplete so callers fail towards escalation.
func (c *Classifier) CheckRedFlags(ctx context.Context, symptoms []string, surgeryType string) *Report {
	var flags []string
	var lookupErr error
	if surgeryType != "" && c.protocols != nil && hasSymptoms(symptoms) {
		p, err := c.protocols.GetSurgeryProtocol(ctx, surgeryType)
		if err != nil {
			lookupErr = fmt.Errorf("load protocol red flags for %q: %w", surgeryType, err)
			c.logger.Error().Err(err).Str("surgery_type", surgeryType).Msg("red flag scan incomplete")
		} else if p != nil {
			flags = p.RedFlags
		}
	}

	r := Evaluate(symptoms, flags)
	if lookupErr != nil {
		markIncomplete(r, lookupErr)
	}
	return r
}

// CheckSingleSymptom scans one symptom.
func (c *Classifier) CheckSingleSymptom(ctx context.Context, symptom, surgeryType string) *Report {
	return c.CheckRedFlags(ctx, []string{symptom}, surgeryType)
}

// ShouldStopExercise decides whether the patient must stop before a session.
func (c *Classifier) ShouldStopExercise(ctx context.Context, symptoms []string, surgeryType string) *StopDecision {
	return Decide(c.CheckRedFlags(ctx, symptoms, surgeryType))
}

// ShouldStopExercise applies the exercise gate using any Checker.
func ShouldStopExercise(ctx context.Context, checker Checker, symptoms []string, surgeryType string) *StopDecision {
	return Decide(checker.CheckRedFlags(ctx, symptoms, surgeryType))
}

// Decide applies the exercise gate to a report: stop on any critical flag,
// on two or more distinct warnings, or when the scan was incomplete.
func Decide(r *Report) *StopDecision {
	d := &StopDecision{Report: r}
	switch {
	case r.CriticalCount > 0:
		d.ShouldStop = true
		d.Reason = fmt.Sprintf("critical red flag: %s", r.MostSevere().Condition)
	case r.WarningCount >= 2:
		d.ShouldStop = true
		d.Reason = fmt.Sprintf("%d warning signs reported", r.WarningCount)
	case r.Incomplete:
		d.ShouldStop = true
		d.Reason = "symptoms could not be fully evaluated"
	case r.WarningCount == 1:
		d.Reason = fmt.Sprintf("one warning sign reported (%s); continue with caution", r.Checks[0].Condition)
	default:
		d.Reason = "no red flags"
	}
	return d
}

func hasSymptoms(symptoms []string) bool {
	for _, s := range symptoms {
		if strings.TrimSpace(s) != "" {
			return true
		}
	}
	return false
}
