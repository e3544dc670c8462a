package attendance

// Status classifies the free-form status string stored on a record.
type Status int

const (
	StatusUnrecognized Status = iota
	StatusPresent
	StatusAbsent
	StatusHalfday
	StatusHoliday
)

var statusNames = map[string]Status{
	"present": StatusPresent,
	"absent":  StatusAbsent,
	"halfday": StatusHalfday,
	"holiday": StatusHoliday,
}

// ParseStatus matches exactly and case-sensitively. Anything else is
// StatusUnrecognized; such records are stored but counted nowhere.
func ParseStatus(s string) Status {
	if st, ok := statusNames[s]; ok {
		return st
	}
	return StatusUnrecognized
}

func (s Status) String() string {
	switch s {
	case StatusPresent:
		return "present"
	case StatusAbsent:
		return "absent"
	case StatusHalfday:
		return "halfday"
	case StatusHoliday:
		return "holiday"
	default:
		return "Unrecognized"
	}
}
