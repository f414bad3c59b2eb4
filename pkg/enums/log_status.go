package enums

// LogStatus records whether the audited request succeeded.
type LogStatus string

const (
	LogStatusSuccess LogStatus = "success"
	LogStatusFailure LogStatus = "failure"
)

// String implements fmt.Stringer.
func (s LogStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LogStatus.
func (s LogStatus) IsValid() bool {
	return s == LogStatusSuccess || s == LogStatusFailure
}
