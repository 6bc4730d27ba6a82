package triage

import "time"

// Level is the urgency classification of an evaluation. Levels are ordered:
// I is the most urgent, V the least.
type Level int

const (
	LevelI   Level = 1 // Resuscitation
	LevelII  Level = 2 // Emergency
	LevelIII Level = 3 // Urgency
	LevelIV  Level = 4 // Minor Urgency
	LevelV   Level = 5 // Non-urgent
)

var levelNumerals = map[Level]string{
	LevelI:   "I",
	LevelII:  "II",
	LevelIII: "III",
	LevelIV:  "IV",
	LevelV:   "V",
}

var levelLabels = map[Level]string{
	LevelI:   "Resuscitation",
	LevelII:  "Emergency",
	LevelIII: "Urgency",
	LevelIV:  "Minor Urgency",
	LevelV:   "Non-urgent",
}

// String returns the roman numeral form used on the wire and in storage.
func (l Level) String() string {
	if s, ok := levelNumerals[l]; ok {
		return s
	}
	return "?"
}

// Label returns the human-readable display name for the level.
func (l Level) Label() string {
	return levelLabels[l]
}

// MoreUrgentThan reports whether l is strictly more urgent than other.
func (l Level) MoreUrgentThan(other Level) bool {
	return l < other
}

// MarshalJSON encodes the level as its roman numeral string.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON decodes a roman numeral string into a Level.
func (l *Level) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	lv, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = lv
	return nil
}

// ParseLevel converts a roman numeral string into a Level.
func ParseLevel(s string) (Level, error) {
	for lv, numeral := range levelNumerals {
		if numeral == s {
			return lv, nil
		}
	}
	return 0, &ValidationError{Fields: map[string]string{"level": "unknown triage level " + s}}
}

// Status is the disposition state of an evaluation.
type Status string

const (
	// StatusPendiente means awaiting attention (initial state).
	StatusPendiente Status = "PENDIENTE"

	// StatusEnAtencion means a clinician is attending the patient.
	StatusEnAtencion Status = "EN_ATENCION"

	// StatusAtendido means the evaluation was resolved (terminal).
	StatusAtendido Status = "ATENDIDO"

	// StatusDerivado means the patient was referred elsewhere (terminal).
	StatusDerivado Status = "DERIVADO"
)

// transitions is the allowed state graph. PENDIENTE may fast-path straight
// to a terminal state when no intermediate attention step is recorded.
var transitions = map[Status][]Status{
	StatusPendiente:  {StatusEnAtencion, StatusAtendido, StatusDerivado},
	StatusEnAtencion: {StatusAtendido, StatusDerivado},
	StatusAtendido:   {},
	StatusDerivado:   {},
}

// Valid reports whether s is a known disposition status.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transitions are allowed out of s.
func (s Status) Terminal() bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether moving from s to next is allowed.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// VitalSigns is the immutable measurement bundle driving classification.
// All six fields are always present; physiological range checks are the
// classifier's concern, not the type's.
type VitalSigns struct {
	TemperatureC        float64 `json:"temperatura"`
	SystolicBP          float64 `json:"presionSistolica"`
	DiastolicBP         float64 `json:"presionDiastolica"`
	HeartRateBpm        float64 `json:"frecuenciaCardiaca"`
	RespiratoryRateRpm  float64 `json:"frecuenciaRespiratoria"`
	OxygenSaturationPct float64 `json:"saturacionO2"`
}

// Evaluation is one classification event tied to a patient. The level and
// the vitals that produced it are set once at creation; re-evaluating a
// patient creates a new record. Only Status and Observations mutate after
// creation.
type Evaluation struct {
	ID              string     `json:"id"`
	PatientID       string     `json:"patient_id"`
	PatientIdent    string     `json:"identificacion"`
	PatientName     string     `json:"nombre"`
	Vitals          VitalSigns `json:"vitalSigns"`
	Level           Level      `json:"triageLevel"`
	Status          Status     `json:"status"`
	Observations    string     `json:"observaciones,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	StatusChangedAt time.Time  `json:"status_changed_at"`
}

// StatsSnapshot is the dashboard aggregate derived from the evaluation set.
// Recomputed on demand, never persisted.
type StatsSnapshot struct {
	Daily    map[string]int `json:"daily"`     // local calendar date (YYYY-MM-DD) -> count
	ByStatus map[Status]int `json:"by_status"` // disposition status -> count
	ByLevel  map[string]int `json:"by_level"`  // roman numeral level -> count
	Total    int            `json:"total"`
}
