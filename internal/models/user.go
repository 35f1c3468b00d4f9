package models

// UserProfile описывает профиль пользователя, как его отдаёт сервер.
type UserProfile struct {
	UserID   int            `json:"userId"`
	Name     string         `json:"name"`
	Username string         `json:"username"`
	Email    string         `json:"email"`
	Location string         `json:"personal_location"`
	Rating   float64        `json:"rating"`
	Roles    []ProviderRole `json:"roles"`
}

// RoleNamed возвращает первую роль с указанным именем без учёта регистра.
func (u *UserProfile) RoleNamed(name string) (ProviderRole, bool) {
	for _, role := range u.Roles {
		if equalFold(role.Role, name) {
			return role, true
		}
	}
	return ProviderRole{}, false
}

// UserForm: тело POST /user и PATCH /user.
// Пароль не отправляется, если он пустой.
type UserForm struct {
	Name     string `json:"user_name"`
	Username string `json:"user_username"`
	Email    string `json:"user_mail"`
	Location string `json:"user_location"`
	Password string `json:"user_password,omitempty"`
}

// LoginRequest: учётные данные для POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse: токен и идентификатор пользователя.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID int    `json:"userId"`
}

// ProfilePicture: ссылка на аватар пользователя.
type ProfilePicture struct {
	URL string `json:"profilePic"`
}
