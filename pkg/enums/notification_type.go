package enums

import "fmt"

// NotificationType categorizes in-app notifications.
type NotificationType string

const (
	NotificationTypeOrder   NotificationType = "order"
	NotificationTypePayment NotificationType = "payment"
	NotificationTypeDispute NotificationType = "dispute"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeOrder,
	NotificationTypePayment,
	NotificationTypeDispute,
}

// IsValid reports whether the value is a known NotificationType.
func (t NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
