package triage

import (
	"strconv"
	"strings"
)

// Classify maps a vitals bundle to an urgency level. Pure and total: it
// always returns a level and never touches external state.
//
// Tiers are checked most-severe first and the first matching disjunction
// wins; a patient meeting any Tier-I criterion is never reported lower even
// if every other value looks mild. All comparators are strict: a temperature
// of exactly 40.0 does not trigger Tier I, 40.01 does.
func Classify(vs VitalSigns) Level {
	temp := vs.TemperatureC
	sys := vs.SystolicBP
	hr := vs.HeartRateBpm
	rr := vs.RespiratoryRateRpm
	o2 := vs.OxygenSaturationPct

	if temp > 40 || temp < 35 ||
		sys > 180 || sys < 90 ||
		hr > 120 || hr < 50 ||
		o2 < 90 {
		return LevelI
	}

	if temp > 39 || temp < 35.5 ||
		sys > 160 || sys < 100 ||
		hr > 110 || hr < 60 ||
		rr > 24 || rr < 12 ||
		o2 < 92 {
		return LevelII
	}

	if temp > 38.5 ||
		sys > 140 || sys < 110 ||
		hr > 100 ||
		rr > 22 || rr < 14 ||
		o2 < 94 {
		return LevelIII
	}

	if temp > 37.5 ||
		sys > 130 ||
		hr > 90 {
		return LevelIV
	}

	return LevelV
}

// VitalSignsInput carries operator-entered measurement text before
// validation. Field names match the intake form wire format.
type VitalSignsInput struct {
	Temperature     string `json:"temperatura"`
	Systolic        string `json:"presionSistolica"`
	Diastolic       string `json:"presionDiastolica"`
	HeartRate       string `json:"frecuenciaCardiaca"`
	RespiratoryRate string `json:"frecuenciaRespiratoria"`
	O2Saturation    string `json:"saturacionO2"`
}

// ParseVitalSigns validates operator input into a VitalSigns bundle. Every
// field must be a parsable decimal: a missing vital must never silently
// classify as healthy, so any absent or malformed value fails with a
// ValidationError naming each bad field.
func ParseVitalSigns(in VitalSignsInput) (VitalSigns, error) {
	fields := []struct {
		name  string
		raw   string
		value *float64
	}{
		{"temperatura", in.Temperature, nil},
		{"presionSistolica", in.Systolic, nil},
		{"presionDiastolica", in.Diastolic, nil},
		{"frecuenciaCardiaca", in.HeartRate, nil},
		{"frecuenciaRespiratoria", in.RespiratoryRate, nil},
		{"saturacionO2", in.O2Saturation, nil},
	}

	var vs VitalSigns
	fields[0].value = &vs.TemperatureC
	fields[1].value = &vs.SystolicBP
	fields[2].value = &vs.DiastolicBP
	fields[3].value = &vs.HeartRateBpm
	fields[4].value = &vs.RespiratoryRateRpm
	fields[5].value = &vs.OxygenSaturationPct

	bad := make(map[string]string)
	for _, f := range fields {
		raw := strings.TrimSpace(f.raw)
		if raw == "" {
			bad[f.name] = "required"
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			bad[f.name] = "not a number: " + raw
			continue
		}
		*f.value = v
	}

	if len(bad) > 0 {
		return VitalSigns{}, &ValidationError{Fields: bad}
	}
	return vs, nil
}
