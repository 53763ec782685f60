package user

import (
	"time"

	"github.com/xiebiao/bookshop/internal/domain/user"
)

const tracerName = "bookshop/application/user"

// UserDTO 用户信息(不含密码)
type UserDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToDTO 实体转DTO
func ToDTO(u *user.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
