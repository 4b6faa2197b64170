package risk

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Factor descriptions are message keys: English is the key itself, other
// languages are registered in the catalog below.
const (
	msgHighPain          = "Average pain %.1f/10 over the last %d days"
	msgModeratePain      = "Moderate average pain %.1f/10 over the last %d days"
	msgPainIncreasing    = "Pain rose by %.1f points across the window"
	msgPainSpike         = "Pain spike to %d/10"
	msgPredictedFlare    = "Predicted pain flare probability %.0f%%"
	msgAdherenceRate     = "Completed %d of %d expected sessions (%.0f%%)"
	msgInactivity        = "No completed session for %d days"
	msgReducedActivity   = "Last completed session %d days ago"
	msgExercisePain      = "Average pain during exercise %.1f/10"
	msgAnxiety           = "PROMIS-29 anxiety T-score %.1f"
	msgDepression        = "PROMIS-29 depression T-score %.1f"
	msgHighKinesiophobia = "TSK-11 total %d indicates high fear of movement"
	msgModKinesiophobia  = "TSK-11 total %d indicates moderate fear of movement"
	msgPainInterference  = "PROMIS-29 pain interference T-score %.1f"
	msgMovementQuality   = "Average movement quality %.0f/100"
	msgDecliningMovement = "Movement quality fell by %.0f points"
	msgCompensations     = "Average of %.1f compensations per session"
	msgSleep             = "Average sleep %.1f hours"
	msgHRVDecline        = "Latest HRV %.0f ms is %.0f%% below the recent mean"
	msgSteps             = "Average %d steps per day"
	msgFunctionalDecline = "PSFS fell by %.1f points"
	msgPlateau           = "PSFS changed by only %.1f points over %d days"
	msgPhaseOverdue      = "Phase %d running %d days past its expected %d weeks"
)

var swedish = map[string]string{
	msgHighPain:          "Genomsnittlig smärta %.1f/10 de senaste %d dagarna",
	msgModeratePain:      "Måttlig genomsnittlig smärta %.1f/10 de senaste %d dagarna",
	msgPainIncreasing:    "Smärtan ökade med %.1f poäng under perioden",
	msgPainSpike:         "Smärttopp på %d/10",
	msgPredictedFlare:    "Förväntad risk för smärtskov %.0f%%",
	msgAdherenceRate:     "%d av %d förväntade pass genomförda (%.0f%%)",
	msgInactivity:        "Inget genomfört pass på %d dagar",
	msgReducedActivity:   "Senaste genomförda pass för %d dagar sedan",
	msgExercisePain:      "Genomsnittlig smärta under träning %.1f/10",
	msgAnxiety:           "PROMIS-29 ångest T-poäng %.1f",
	msgDepression:        "PROMIS-29 depression T-poäng %.1f",
	msgHighKinesiophobia: "TSK-11 summa %d tyder på hög rörelserädsla",
	msgModKinesiophobia:  "TSK-11 summa %d tyder på måttlig rörelserädsla",
	msgPainInterference:  "PROMIS-29 smärtpåverkan T-poäng %.1f",
	msgMovementQuality:   "Genomsnittlig rörelsekvalitet %.0f/100",
	msgDecliningMovement: "Rörelsekvaliteten sjönk med %.0f poäng",
	msgCompensations:     "I snitt %.1f kompensationer per pass",
	msgSleep:             "Genomsnittlig sömn %.1f timmar",
	msgHRVDecline:        "Senaste HRV %.0f ms ligger %.0f%% under snittet",
	msgSteps:             "I snitt %d steg per dag",
	msgFunctionalDecline: "PSFS sjönk med %.1f poäng",
	msgPlateau:           "PSFS ändrades bara %.1f poäng på %d dagar",
	msgPhaseOverdue:      "Fas %d pågår %d dagar längre än förväntade %d veckor",
}

func init() {
	for key, msg := range swedish {
		if err := message.SetString(language.Swedish, key, msg); err != nil {
			panic(err)
		}
	}
}

// SupportedLanguages lists the languages factor descriptions are rendered in.
var SupportedLanguages = []language.Tag{language.English, language.Swedish}

var languageMatcher = language.NewMatcher(SupportedLanguages)

// PrinterFor picks the closest supported language for a BCP 47 tag or
// Accept-Language value, falling back to English.
func PrinterFor(lang string) *message.Printer {
	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		return message.NewPrinter(language.English)
	}
	_, idx, _ := languageMatcher.Match(tags...)
	return message.NewPrinter(SupportedLanguages[idx])
}
