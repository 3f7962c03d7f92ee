package engine

// String backed enums for DB interoperability.

type Specialization string
type Difficulty string
type Gender string
type Route string
type TestCategory string
type VitalField string
type VitalStatus string

const (
	SpecGeneralPractice   Specialization = "general_practice"
	SpecCardiology        Specialization = "cardiology"
	SpecNeurology         Specialization = "neurology"
	SpecEmergencyMedicine Specialization = "emergency_medicine"
)

var AllSpecializations = []Specialization{SpecGeneralPractice, SpecCardiology, SpecNeurology, SpecEmergencyMedicine}

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var AllDifficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderOther  Gender = "other"
)

var AllGenders = []Gender{GenderFemale, GenderMale, GenderOther}

const (
	RouteOral          Route = "oral"
	RouteIntravenous   Route = "intravenous"
	RouteIntramuscular Route = "intramuscular"
	RouteInhaled       Route = "inhaled"
)

var AllRoutes = []Route{RouteOral, RouteIntravenous, RouteIntramuscular, RouteInhaled}

const (
	CategoryVitals      TestCategory = "vitals"
	CategoryBlood       TestCategory = "blood"
	CategoryCardiac     TestCategory = "cardiac"
	CategoryImaging     TestCategory = "imaging"
	CategoryNeuro       TestCategory = "neuro"
	CategoryRespiratory TestCategory = "respiratory"
)

var AllTestCategories = []TestCategory{CategoryVitals, CategoryBlood, CategoryCardiac, CategoryImaging, CategoryNeuro, CategoryRespiratory}

const (
	FieldHeartRate        VitalField = "heart_rate"
	FieldSystolicBP       VitalField = "systolic_bp"
	FieldDiastolicBP      VitalField = "diastolic_bp"
	FieldTemperature      VitalField = "temperature"
	FieldRespiratoryRate  VitalField = "respiratory_rate"
	FieldOxygenSaturation VitalField = "oxygen_saturation"
)

var AllVitalFields = []VitalField{FieldHeartRate, FieldSystolicBP, FieldDiastolicBP, FieldTemperature, FieldRespiratoryRate, FieldOxygenSaturation}

const (
	StatusNormal       VitalStatus = "normal"
	StatusAbnormalLow  VitalStatus = "abnormal_low"
	StatusAbnormalHigh VitalStatus = "abnormal_high"
)

var AllVitalStatuses = []VitalStatus{StatusNormal, StatusAbnormalLow, StatusAbnormalHigh}

// Generic helpers
func contains[T ~string](list []T, v T) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func (s Specialization) Validate() bool { return contains(AllSpecializations, s) }
func (d Difficulty) Validate() bool     { return contains(AllDifficulties, d) }
func (g Gender) Validate() bool         { return contains(AllGenders, g) }
func (r Route) Validate() bool          { return contains(AllRoutes, r) }
func (c TestCategory) Validate() bool   { return contains(AllTestCategories, c) }
func (f VitalField) Validate() bool     { return contains(AllVitalFields, f) }
func (v VitalStatus) Validate() bool    { return contains(AllVitalStatuses, v) }

// List helpers
func ListSpecializations() []Specialization { return append([]Specialization{}, AllSpecializations...) }
func ListDifficulties() []Difficulty        { return append([]Difficulty{}, AllDifficulties...) }
func ListRoutes() []Route                   { return append([]Route{}, AllRoutes...) }

var specializationTitles = map[Specialization]string{
	SpecGeneralPractice:   "General Practice",
	SpecCardiology:        "Cardiology",
	SpecNeurology:         "Neurology",
	SpecEmergencyMedicine: "Emergency Medicine",
}

// Title returns the human-readable name of the specialization.
func (s Specialization) Title() string {
	if t, ok := specializationTitles[s]; ok {
		return t
	}
	return string(s)
}
