package domain

type CrowdLevel string

const (
	CrowdLevelLow    CrowdLevel = "low"
	CrowdLevelMedium CrowdLevel = "medium"
	CrowdLevelHigh   CrowdLevel = "high"
)

// CrowdLevelFor maps an occupancy percentage to a crowd level.
func CrowdLevelFor(occupancy float64) CrowdLevel {
	switch {
	case occupancy < 50:
		return CrowdLevelLow
	case occupancy < 80:
		return CrowdLevelMedium
	default:
		return CrowdLevelHigh
	}
}

func (l CrowdLevel) Valid() bool {
	switch l {
	case CrowdLevelLow, CrowdLevelMedium, CrowdLevelHigh:
		return true
	default:
		return false
	}
}

func (l CrowdLevel) Color() string {
	switch l {
	case CrowdLevelLow:
		return "green"
	case CrowdLevelMedium:
		return "yellow"
	default:
		return "red"
	}
}

type CrowdPrediction struct {
	ShowtimeID          string     `json:"showtimeId"`
	OccupancyPercentage float64    `json:"occupancyPercentage"`
	Level               CrowdLevel `json:"level"`
}
