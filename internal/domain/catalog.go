package domain

// Glucose bounds accepted at intake, in mg/dL. The lower bound is exclusive.
const (
	MinGlucose = 0
	MaxGlucose = 1000
)

// TimeSlots are the half-hour slots a user can pick for a test
var TimeSlots = []string{
	"07:30", "08:00", "08:30", "09:00", "09:30",
	"10:00", "10:30", "11:00", "11:30", "12:00",
}

// Symptom is a selectable symptom with its callback key and display label
type Symptom struct {
	Key   string
	Label string
}

// NoSymptomKey is the key of the "none" symptom
const NoSymptomKey = "none"

// Symptoms is the fixed list of symptoms shown during intake
var Symptoms = []Symptom{
	{Key: "dizziness", Label: "سرگیجه"},
	{Key: "headache", Label: "سردرد"},
	{Key: "lethargy", Label: "بیحالی"},
	{Key: "muscle_cramp", Label: "گرفتگی عضلات"},
	{Key: "tremor", Label: "لرزش دست و پا"},
	{Key: "vomiting", Label: "استفراغ"},
	{Key: "blurred_vision", Label: "تاری دید"},
	{Key: "thirst", Label: "تشنگی بیش از حد"},
	{Key: NoSymptomKey, Label: "هیچکدام"},
}

// SymptomLabel returns the display label for a symptom key
func SymptomLabel(key string) (string, bool) {
	for _, s := range Symptoms {
		if s.Key == key {
			return s.Label, true
		}
	}
	return "", false
}

// IsSymptomLabel reports whether label belongs to the symptom catalog
func IsSymptomLabel(label string) bool {
	for _, s := range Symptoms {
		if s.Label == label {
			return true
		}
	}
	return false
}

// IsTimeSlot reports whether slot is one of TimeSlots
func IsTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// ValidGlucose reports whether value is inside the accepted intake range
func ValidGlucose(value int) bool {
	return value > MinGlucose && value <= MaxGlucose
}
