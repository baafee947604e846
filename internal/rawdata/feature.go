package rawdata

import "github.com/iancoleman/strcase"

// FeatureStatus 피처가 어떤 방식으로 결정되었는지를 나타냅니다.
type FeatureStatus int

const (
	FeatureUnknown FeatureStatus = iota
	FeatureDetected
	FeatureEstimated
	FeatureManual
)

func (s FeatureStatus) String() string {
	switch s {
	case FeatureDetected:
		return "Detected"
	case FeatureEstimated:
		return "Estimated"
	case FeatureManual:
		return "Manual"
	default:
		return "Unknown"
	}
}

func (s FeatureStatus) MarshalText() ([]byte, error) {
	return []byte(strcase.ToSnake(s.String())), nil
}

// Feature 크로마토그래피 상에서 검출된 피크 하나입니다.
// Area와 Charge가 nil이면 아직 결정되지 않은 값입니다.
type Feature struct {
	MZ            float64       `json:"mz"`
	RetentionTime float64       `json:"retention_time"`
	Height        float64       `json:"height"`
	Area          *float64      `json:"area,omitempty"`
	Charge        *int          `json:"charge,omitempty"`
	Status        FeatureStatus `json:"status"`
}

// NeutralMass 전하가 결정된 경우 양성자 부가 이온 기준의 중성 질량을 반환합니다.
func (f Feature) NeutralMass() (float64, bool) {
	const protonMass = 1.007276
	if f.Charge == nil || *f.Charge == 0 {
		return 0, false
	}

	z := float64(*f.Charge)
	if z < 0 {
		z = -z
		return f.MZ*z + protonMass*z, true
	}
	return f.MZ*z - protonMass*z, true
}
