package entity

type User struct {
	ID    string `gorm:"primarykey"`
	Name  string
	Email string
	Role  string
}

const (
	SuperAdminRole = "SUPER_ADMIN"
	AdminRole      = "ADMIN"
	UserRole       = "USER"
)

func (u User) IsAdmin() bool {
	return u.Role == SuperAdminRole || u.Role == AdminRole
}
