package identity

// Роли пользователей, известные identity-сервису
const (
	RoleUser  = "user"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

// User модель пользователя из identity-сервиса
type User struct {
	ID        int64  `json:"id"`
	Role      string `json:"role"`
	CompanyID *int64 `json:"company_id,omitempty"`
	Blocked   bool   `json:"blocked"`
}

// IsAdmin сообщает, имеет ли пользователь административные привилегии
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaffOf сообщает, является ли пользователь сотрудником указанной компании
func (u *User) IsStaffOf(companyID int64) bool {
	if u.Role != RoleStaff && u.Role != RoleAdmin {
		return false
	}
	if u.Role == RoleAdmin {
		return true
	}
	return u.CompanyID != nil && *u.CompanyID == companyID
}

// ErrorResponse модель ошибки от identity-сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
