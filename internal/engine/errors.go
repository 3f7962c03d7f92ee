package engine

import "fmt"

// ConfigurationError reports a catalog that cannot be used at all. It is
// raised during catalog construction and treated as fatal at startup.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("catalog configuration invalid: %s", e.Reason)
}

// NoMatchingConditionError reports that no condition in a specialization
// intersects the severity band of the requested difficulty. Callers recover
// by falling back to a specialization-wide uniform pick.
type NoMatchingConditionError struct {
	Specialization Specialization
	Difficulty     Difficulty
}

func (e *NoMatchingConditionError) Error() string {
	return fmt.Sprintf("no %s condition matches difficulty %q", e.Specialization, e.Difficulty)
}

// UnknownTestError reports a test name absent from the catalog. The patient
// is left untouched.
type UnknownTestError struct {
	Name string
}

func (e *UnknownTestError) Error() string {
	return fmt.Sprintf("unknown test %q", e.Name)
}

// UnknownInterventionError reports an intervention order the engine refused:
// an unregistered name, a treatment outside the patient's specialization, or
// an impossible dose or route. The patient is left untouched.
type UnknownInterventionError struct {
	Name   string
	Detail string
}

func (e *UnknownInterventionError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("unknown intervention %q: %s", e.Name, e.Detail)
	}
	return fmt.Sprintf("unknown intervention %q", e.Name)
}
