package model

// User 终端用户（买家）
type User struct {
	BaseModel
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone        string `gorm:"size:32;uniqueIndex;not null" json:"phone"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	RoleID   *int64 `gorm:"index" json:"roleId"`
	Verified bool   `gorm:"default:false" json:"verified"`
}

func (User) TableName() string { return "users" }

// OTP 渠道
const (
	OTPChannelSMS   = "sms"
	OTPChannelEmail = "email"
)

// OTPRecord 一次性验证码，存储于 Redis，过期自动删除
type OTPRecord struct {
	UserID   int64  `json:"userId"`
	Channel  string `json:"channel"`
	CodeHash string `json:"codeHash"`
	Attempts int    `json:"attempts"`
}
