package redflag

// Condition identifies one entry of the red-flag taxonomy.
type Condition int

const (
	ConditionDVT Condition = iota
	ConditionPulmonaryEmbolism
	ConditionCardiacEvent
	ConditionStroke
	ConditionCaudaEquina
	ConditionSepsis
	ConditionCompartmentSyndrome
	ConditionNeurovascularCompromise

	ConditionWoundInfection
	ConditionFever
	ConditionIncreasedSwelling
	ConditionAlteredSensation
	ConditionPossibleCRPS
	ConditionWorseningPain
	ConditionJointInstability
	ConditionDizziness

	conditionCount
)

// TaxonomyEntry is the fixed schema of a red-flag condition.
type TaxonomyEntry struct {
	Condition   Condition `json:"-"`
	Label       string    `json:"label"`
	Keywords    []string  `json:"keywords"`
	Action      string    `json:"action"`
	Urgency     Urgency   `json:"urgency"`
	Criteria    string    `json:"criteria,omitempty"`
	RiskFactors []string  `json:"risk_factors,omitempty"`
}

// Keywords are Swedish and English. Single-token keywords also match
// truncated symptom words, so they must not contain common words such as
// "smärta" or "svullnad" as a substring.

// CriticalTaxonomy lists conditions that require emergency care. It is
// scanned before WarningTaxonomy and in slice order.
var CriticalTaxonomy = []TaxonomyEntry{
	{
		Condition: ConditionDVT,
		Label:     "DVT",
		Keywords: []string{
			"dvt", "blodpropp", "djup ventrombos", "ensidig bensvullnad", "varm vad",
			"svullen vad", "ömhet i vaden", "deep vein thrombosis", "blood clot",
			"calf swelling", "swollen calf", "calf tenderness", "warm calf",
		},
		Action:   "Stop exercising. Possible blood clot in the leg: seek emergency care now and do not massage the calf.",
		Urgency:  UrgencyImmediate,
		Criteria: "Wells criteria: unilateral calf swelling, localized tenderness, warmth, pitting edema, dilated superficial veins.",
		RiskFactors: []string{
			"recent surgery", "immobilization", "previous DVT", "active cancer", "hormonal therapy",
		},
	},
	{
		Condition: ConditionPulmonaryEmbolism,
		Label:     "Pulmonary embolism",
		Keywords: []string{
			"lungemboli", "andnöd", "plötslig andfåddhet", "svårt att andas", "hostar blod",
			"pulmonary embolism", "shortness of breath", "difficulty breathing", "coughing blood",
			"coughing up blood",
		},
		Action:  "Call 112 now. Sudden breathlessness can be a blood clot in the lung.",
		Urgency: UrgencyImmediate,
		RiskFactors: []string{
			"recent surgery", "known DVT", "immobilization",
		},
	},
	{
		Condition: ConditionCardiacEvent,
		Label:     "Cardiac event",
		Keywords: []string{
			"hjärtinfarkt", "ont i bröstet", "smärta i bröstet", "tryck över bröstet",
			"smärta ut i vänster arm", "heart attack", "chest pain", "chest pressure",
			"chest tightness", "pain radiating to the arm",
		},
		Action:  "Call 112 now. Stop all activity and sit down while waiting for help.",
		Urgency: UrgencyImmediate,
	},
	{
		Condition: ConditionStroke,
		Label:     "Stroke",
		Keywords: []string{
			"stroke", "hängande mungipa", "sned mun", "sluddrigt tal", "svårt att prata",
			"svaghet i ena armen", "facial droop", "face drooping", "slurred speech",
			"arm weakness", "sudden confusion",
		},
		Action:   "Call 112 now and note the time symptoms started.",
		Urgency:  UrgencyImmediate,
		Criteria: "FAST: Face drooping, Arm weakness, Speech difficulty, Time to call emergency services.",
	},
	{
		Condition: ConditionCaudaEquina,
		Label:     "Cauda equina syndrome",
		Keywords: []string{
			"cauda equina", "sadelanestesi", "domning i underlivet", "kan inte kissa",
			"urininkontinens", "avföringsinkontinens", "saddle anesthesia", "saddle numbness",
			"urinary retention", "loss of bladder control", "loss of bowel control",
		},
		Action:  "Go to the emergency department now. Nerve compression in the lower back needs urgent assessment.",
		Urgency: UrgencyImmediate,
		Criteria: "Saddle anesthesia, bladder or bowel dysfunction, bilateral leg symptoms.",
	},
	{
		Condition: ConditionSepsis,
		Label:     "Sepsis",
		Keywords: []string{
			"sepsis", "blodförgiftning", "frossa", "skakningar med feber", "septic", "rigors",
			"fever with chills", "high fever and confusion",
		},
		Action:  "Seek emergency care now. Fever with chills after surgery can indicate a serious infection.",
		Urgency: UrgencyImmediate,
	},
	{
		Condition: ConditionCompartmentSyndrome,
		Label:     "Compartment syndrome",
		Keywords: []string{
			"kompartmentsyndrom", "extrem smärta vid passiv rörelse", "spänd hård muskel",
			"compartment syndrome", "severe pain on passive stretch", "tense swollen muscle",
		},
		Action:  "Seek emergency care now. Loosen any tight bandage or brace.",
		Urgency: UrgencyImmediate,
	},
	{
		Condition: ConditionNeurovascularCompromise,
		Label:     "Neurovascular compromise",
		Keywords: []string{
			"kall blek fot", "kall blek hand", "ingen puls i foten", "blå tår",
			"pulseless", "cold pale foot", "cold pale hand", "blue toes",
		},
		Action:  "Seek emergency care now. Reduced blood flow to the limb must be assessed immediately.",
		Urgency: UrgencyImmediate,
	},
}

// WarningTaxonomy lists conditions that should be reviewed by a provider
// within 24-48 hours.
var WarningTaxonomy = []TaxonomyEntry{
	{
		Condition: ConditionWoundInfection,
		Label:     "Wound infection",
		Keywords: []string{
			"sårinfektion", "infekterat sår", "var från såret", "vätskar från såret",
			"rodnad runt såret", "wound infection", "infected wound", "pus from the wound",
			"wound discharge", "redness around the wound",
		},
		Action:  "Keep the wound clean and covered and contact your provider today.",
		Urgency: UrgencySameDay,
	},
	{
		Condition: ConditionFever,
		Label:     "Fever",
		Keywords: []string{
			"feber", "temperatur över 38", "fever", "temperature above 38",
		},
		Action:  "Rest, measure your temperature and contact your provider today.",
		Urgency: UrgencySameDay,
	},
	{
		Condition: ConditionIncreasedSwelling,
		Label:     "Increased swelling",
		Keywords: []string{
			"ökad svullnad", "mer svullen", "svullnad", "increased swelling", "more swollen", "swelling",
		},
		Action:  "Elevate and cool the area, reduce exercise load and contact your provider within 48 hours.",
		Urgency: UrgencyWithin48h,
	},
	{
		Condition: ConditionAlteredSensation,
		Label:     "Altered sensation",
		Keywords: []string{
			"domningar", "stickningar", "känselbortfall", "nedsatt känsel", "numbness",
			"tingling", "pins and needles", "loss of sensation",
		},
		Action:  "Avoid exercises that provoke the symptoms and contact your provider within 48 hours.",
		Urgency: UrgencyWithin48h,
	},
	{
		Condition: ConditionPossibleCRPS,
		Label:     "Possible CRPS",
		Keywords: []string{
			"brännande smärta", "färgförändring", "överkänslig för beröring", "allodyni",
			"burning pain", "skin color change", "skin colour change", "hypersensitive to touch",
			"allodynia", "abnormal sweating",
		},
		Action:   "Contact your provider within 48 hours for a CRPS screening.",
		Urgency:  UrgencyWithin48h,
		Criteria: "Budapest criteria: symptoms in at least three of sensory, vasomotor, sudomotor and motor/trophic categories.",
	},
	{
		Condition: ConditionWorseningPain,
		Label:     "Worsening pain",
		Keywords: []string{
			"ökande smärta", "värre smärta", "svår smärta", "nattlig smärta", "vilovärk",
			"increasing pain", "worsening pain", "severe pain", "night pain", "pain at rest",
		},
		Action:  "Reduce exercise intensity and contact your provider within 48 hours.",
		Urgency: UrgencyWithin48h,
	},
	{
		Condition: ConditionJointInstability,
		Label:     "Joint instability",
		Keywords: []string{
			"instabil", "viker sig", "låsning", "hoppar ur led", "instability", "giving way",
			"locking", "dislocation",
		},
		Action:  "Stop loading the joint and contact your provider within 48 hours.",
		Urgency: UrgencyWithin48h,
	},
	{
		Condition: ConditionDizziness,
		Label:     "Dizziness",
		Keywords: []string{
			"yrsel", "svimning", "svimmade", "dizziness", "dizzy", "fainting", "fainted", "lightheaded",
		},
		Action:  "Sit or lie down, do not exercise alone and contact your provider today.",
		Urgency: UrgencySameDay,
	},
}

// matchTaxonomy returns the first entry with at least one matched keyword.
func matchTaxonomy(symptom string, table []TaxonomyEntry) (*TaxonomyEntry, []string) {
	for i := range table {
		if kws := Matches(symptom, table[i].Keywords); len(kws) > 0 {
			return &table[i], kws
		}
	}
	return nil, nil
}
