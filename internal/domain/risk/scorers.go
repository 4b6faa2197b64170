package risk

import (
	"math"
	"sort"
	"time"

	"golang.org/x/text/message"
)

const day = 24 * time.Hour

// Look-back windows per domain.
var windows = map[Domain]time.Duration{
	DomainPain:          7 * day,
	DomainAdherence:     14 * day,
	DomainPsychological: 14 * day,
	DomainMovement:      14 * day,
	DomainHealth:        7 * day,
	DomainProgression:   14 * day,
}

// minTrendSamples is the fewest records for a first-half/second-half
// comparison to count.
const minTrendSamples = 4

// tally accumulates points and factors for one domain.
type tally struct {
	domain  Domain
	score   float64
	factors []ContributingFactor
}

func (t *tally) add(points float64, key string, impact float64, desc string) {
	t.score += points
	t.factors = append(t.factors, ContributingFactor{
		Factor:      key,
		Impact:      impact,
		Description: desc,
		Category:    t.domain,
	})
}

func (t *tally) result(samples int) DomainScore {
	factors := t.factors
	if factors == nil {
		factors = []ContributingFactor{}
	}
	return DomainScore{Domain: t.domain, Score: clamp(t.score), Factors: factors, Samples: samples}
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// halves splits vals into an older and a newer half; the newer half takes
// the middle element for odd lengths.
func halves(vals []float64) (older, newer []float64) {
	mid := len(vals) / 2
	return vals[:mid], vals[mid:]
}

func wholeDays(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d / day)
}

func scorePain(p *message.Printer, logs []PainLog, preds []PainPrediction) DomainScore {
	t := tally{domain: DomainPain}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].RecordedAt.Before(logs[j].RecordedAt) })

	levels := make([]float64, len(logs))
	for i, l := range logs {
		levels[i] = float64(l.Level)
	}
	days := int(windows[DomainPain] / day)

	if len(levels) > 0 {
		avg := mean(levels)
		switch {
		case avg >= 7:
			t.add(40, "high_pain_level", 0.9, p.Sprintf(msgHighPain, avg, days))
		case avg >= 5:
			t.add(25, "moderate_pain_level", 0.6, p.Sprintf(msgModeratePain, avg, days))
		}
	}

	if len(levels) >= minTrendSamples {
		older, newer := halves(levels)
		if rise := mean(newer) - mean(older); rise >= 2 {
			t.add(25, "pain_increasing", 0.8, p.Sprintf(msgPainIncreasing, rise))
		}
	}

	for i, l := range logs {
		spike := l.Level >= 9
		if !spike && i > 0 {
			spike = float64(l.Level) >= mean(levels[:i])+3
		}
		if spike {
			t.add(20, "pain_spike", 0.85, p.Sprintf(msgPainSpike, l.Level))
			break
		}
	}

	var maxFlare float64
	for _, pr := range preds {
		maxFlare = math.Max(maxFlare, pr.FlareProbability)
	}
	if maxFlare >= 0.7 {
		t.add(15, "predicted_pain_flare", 0.6, p.Sprintf(msgPredictedFlare, maxFlare*100))
	}
	return t.result(len(logs) + len(preds))
}

func scoreAdherence(p *message.Printer, logs []ExerciseLog, program *Program, windowStart, now time.Time) DomainScore {
	t := tally{domain: DomainAdherence}
	if program == nil {
		return t.result(len(logs))
	}

	completed := 0
	var last time.Time
	var painDuring []float64
	for _, l := range logs {
		if !l.Completed {
			continue
		}
		completed++
		if l.PerformedAt.After(last) {
			last = l.PerformedAt
		}
		if l.PainDuring != nil {
			painDuring = append(painDuring, float64(*l.PainDuring))
		}
	}

	if expected := program.SessionsPerWeek * 2; expected > 0 {
		rate := float64(completed) / float64(expected)
		switch {
		case rate < 0.5:
			t.add(50, "low_adherence", 0.9, p.Sprintf(msgAdherenceRate, completed, expected, rate*100))
		case rate < 0.75:
			t.add(25, "reduced_adherence", 0.6, p.Sprintf(msgAdherenceRate, completed, expected, rate*100))
		}
	}

	// Without a completed session in the window, count from the later of
	// the window start and the program start.
	if last.IsZero() {
		last = windowStart
		if program.StartedAt.After(last) {
			last = program.StartedAt
		}
	}
	switch idle := wholeDays(now.Sub(last)); {
	case idle >= 7:
		t.add(30, "inactivity", 0.85, p.Sprintf(msgInactivity, idle))
	case idle >= 4:
		t.add(15, "reduced_activity", 0.5, p.Sprintf(msgReducedActivity, idle))
	}

	if len(painDuring) > 0 {
		if avg := mean(painDuring); avg >= 6 {
			t.add(20, "exercise_pain", 0.7, p.Sprintf(msgExercisePain, avg))
		}
	}
	return t.result(len(logs))
}

func scorePsychological(p *message.Printer, promis []PROMIS29, tsk []TSK11) DomainScore {
	t := tally{domain: DomainPsychological}

	if len(promis) > 0 {
		latest := promis[0]
		for _, r := range promis[1:] {
			if r.RecordedAt.After(latest.RecordedAt) {
				latest = r
			}
		}
		switch {
		case latest.AnxietyT >= 65:
			t.add(30, "high_anxiety", 0.8, p.Sprintf(msgAnxiety, latest.AnxietyT))
		case latest.AnxietyT >= 60:
			t.add(15, "elevated_anxiety", 0.5, p.Sprintf(msgAnxiety, latest.AnxietyT))
		}
		switch {
		case latest.DepressionT >= 65:
			t.add(30, "high_depression", 0.85, p.Sprintf(msgDepression, latest.DepressionT))
		case latest.DepressionT >= 60:
			t.add(15, "elevated_depression", 0.5, p.Sprintf(msgDepression, latest.DepressionT))
		}
		if latest.PainInterferenceT >= 65 {
			t.add(15, "pain_interference", 0.6, p.Sprintf(msgPainInterference, latest.PainInterferenceT))
		}
	}

	if len(tsk) > 0 {
		latest := tsk[0]
		for _, r := range tsk[1:] {
			if r.RecordedAt.After(latest.RecordedAt) {
				latest = r
			}
		}
		switch {
		case latest.Total >= 30:
			t.add(25, "high_kinesiophobia", 0.75, p.Sprintf(msgHighKinesiophobia, latest.Total))
		case latest.Total >= 25:
			t.add(10, "moderate_kinesiophobia", 0.4, p.Sprintf(msgModKinesiophobia, latest.Total))
		}
	}
	return t.result(len(promis) + len(tsk))
}

func scoreMovement(p *message.Printer, sessions []MovementSession) DomainScore {
	t := tally{domain: DomainMovement}
	if len(sessions) == 0 {
		return t.result(0)
	}
	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].RecordedAt.Before(sessions[j].RecordedAt) })

	quality := make([]float64, len(sessions))
	comps := make([]float64, len(sessions))
	for i, s := range sessions {
		quality[i] = s.QualityScore
		comps[i] = float64(s.Compensations)
	}

	switch avg := mean(quality); {
	case avg < 50:
		t.add(40, "poor_movement_quality", 0.8, p.Sprintf(msgMovementQuality, avg))
	case avg < 70:
		t.add(20, "suboptimal_movement_quality", 0.5, p.Sprintf(msgMovementQuality, avg))
	}

	if len(quality) >= minTrendSamples {
		older, newer := halves(quality)
		if drop := mean(older) - mean(newer); drop >= 10 {
			t.add(20, "declining_movement_quality", 0.7, p.Sprintf(msgDecliningMovement, drop))
		}
	}

	if avg := mean(comps); avg >= 3 {
		t.add(20, "compensation_patterns", 0.6, p.Sprintf(msgCompensations, avg))
	}
	return t.result(len(sessions))
}

func scoreHealth(p *message.Printer, samples []HealthSample) DomainScore {
	t := tally{domain: DomainHealth}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].RecordedAt.Before(samples[j].RecordedAt) })

	var sleep, hrv, steps []float64
	for _, s := range samples {
		if s.SleepHours != nil {
			sleep = append(sleep, *s.SleepHours)
		}
		if s.HRV != nil {
			hrv = append(hrv, *s.HRV)
		}
		if s.Steps != nil {
			steps = append(steps, float64(*s.Steps))
		}
	}

	if len(sleep) > 0 {
		switch avg := mean(sleep); {
		case avg < 6:
			t.add(30, "poor_sleep", 0.7, p.Sprintf(msgSleep, avg))
		case avg < 7:
			t.add(15, "insufficient_sleep", 0.4, p.Sprintf(msgSleep, avg))
		}
	}

	// Latest HRV is compared against the mean of the readings before it.
	if len(hrv) >= 3 {
		latest := hrv[len(hrv)-1]
		baseline := mean(hrv[:len(hrv)-1])
		if baseline > 0 && latest <= baseline*0.8 {
			t.add(25, "hrv_decline", 0.6, p.Sprintf(msgHRVDecline, latest, (1-latest/baseline)*100))
		}
	}

	if len(steps) > 0 {
		avg := mean(steps)
		switch {
		case avg < 2000:
			t.add(25, "very_low_activity", 0.7, p.Sprintf(msgSteps, int(math.Round(avg))))
		case avg < 4000:
			t.add(10, "low_activity", 0.4, p.Sprintf(msgSteps, int(math.Round(avg))))
		}
	}
	return t.result(len(samples))
}

// psfsMCID is the minimal clinically important difference on the PSFS.
const psfsMCID = 2.0

func scoreProgression(p *message.Printer, psfs []PSFS, program *Program, now time.Time) DomainScore {
	t := tally{domain: DomainProgression}
	sort.SliceStable(psfs, func(i, j int) bool { return psfs[i].RecordedAt.Before(psfs[j].RecordedAt) })

	if len(psfs) >= 2 {
		first, last := psfs[0], psfs[len(psfs)-1]
		change := last.Score - first.Score
		span := wholeDays(last.RecordedAt.Sub(first.RecordedAt))
		switch {
		case change <= -psfsMCID:
			t.add(50, "functional_decline", 0.9, p.Sprintf(msgFunctionalDecline, -change))
		case change < psfsMCID && span >= 7:
			t.add(30, "plateau", 0.6, p.Sprintf(msgPlateau, change, span))
		}
	}

	if program != nil && program.PhaseExpectedWeeks > 0 && !program.PhaseStartedAt.IsZero() {
		inPhase := wholeDays(now.Sub(program.PhaseStartedAt))
		if over := inPhase - program.PhaseExpectedWeeks*7; over > 0 {
			t.add(20, "phase_overdue", 0.5,
				p.Sprintf(msgPhaseOverdue, program.CurrentPhase, over, program.PhaseExpectedWeeks))
		}
	}
	return t.result(len(psfs))
}
