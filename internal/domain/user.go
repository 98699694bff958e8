package domain

import (
	"time"
)

type User struct {
	ID             int64      `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	TelegramChatID *string    `json:"telegram_chat_id"`
	Timezone       string     `json:"timezone"`
	IsAdmin        bool       `json:"is_admin"`
	CreatedAt      time.Time  `json:"created_at"`
	LastLogin      *time.Time `json:"last_login"`
}
