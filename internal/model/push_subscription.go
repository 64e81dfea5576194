package model

// PushSubscription Web Push 订阅记录（endpoint + 浏览器密钥对）
type PushSubscription struct {
	BaseModel
	UserID   uint   `gorm:"index;not null" json:"userId"`
	Endpoint string `gorm:"size:500;uniqueIndex;not null" json:"endpoint"`
	P256dh   string `gorm:"size:255;not null" json:"p256dh"`
	Auth     string `gorm:"size:255;not null" json:"auth"`
}

func (PushSubscription) TableName() string {
	return "push_subscriptions"
}
