package enums

import "fmt"

// DisputeResolution names the administrative outcome applied to a dispute.
type DisputeResolution string

const (
	DisputeResolutionRefundBuyer     DisputeResolution = "refund_buyer"
	DisputeResolutionReleaseToSeller DisputeResolution = "release_to_seller"
	DisputeResolutionPartialRefund   DisputeResolution = "partial_refund"
)

var validDisputeResolutions = []DisputeResolution{
	DisputeResolutionRefundBuyer,
	DisputeResolutionReleaseToSeller,
	DisputeResolutionPartialRefund,
}

// IsValid reports whether the value is a known DisputeResolution.
func (r DisputeResolution) IsValid() bool {
	for _, candidate := range validDisputeResolutions {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseDisputeResolution converts raw input into a DisputeResolution.
func ParseDisputeResolution(value string) (DisputeResolution, error) {
	for _, candidate := range validDisputeResolutions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dispute resolution %q", value)
}
