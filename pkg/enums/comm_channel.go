package enums

import "fmt"

// CommChannel identifies how a customer communication went out.
type CommChannel string

const (
	CommChannelSMS   CommChannel = "sms"
	CommChannelEmail CommChannel = "email"
	CommChannelCall  CommChannel = "call"
	CommChannelNote  CommChannel = "note"
)

var validCommChannels = []CommChannel{
	CommChannelSMS,
	CommChannelEmail,
	CommChannelCall,
	CommChannelNote,
}

func (c CommChannel) String() string {
	return string(c)
}

func (c CommChannel) IsValid() bool {
	for _, candidate := range validCommChannels {
		if candidate == c {
			return true
		}
	}
	return false
}

func ParseCommChannel(value string) (CommChannel, error) {
	for _, candidate := range validCommChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid communication channel %q", value)
}
