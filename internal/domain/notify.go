package domain

type NotifyRecipient struct {
	StaffID  int64  `json:"staffID"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// NotifyMessage 是发到消息队列中的通知消息，由 notifier worker 消费
type NotifyMessage struct {
	Type       string            `json:"type"` // 目前只有 week_published
	WeekStart  string            `json:"weekStart"`
	Recipients []NotifyRecipient `json:"recipients"`
}

const NotifyTypeWeekPublished = "week_published"
