package enums

import "fmt"

// CommDirection records whether the customer reached out or staff did.
type CommDirection string

const (
	CommDirectionInbound  CommDirection = "inbound"
	CommDirectionOutbound CommDirection = "outbound"
)

var validCommDirections = []CommDirection{
	CommDirectionInbound,
	CommDirectionOutbound,
}

func (d CommDirection) String() string {
	return string(d)
}

func (d CommDirection) IsValid() bool {
	for _, candidate := range validCommDirections {
		if candidate == d {
			return true
		}
	}
	return false
}

func ParseCommDirection(value string) (CommDirection, error) {
	for _, candidate := range validCommDirections {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid communication direction %q", value)
}
