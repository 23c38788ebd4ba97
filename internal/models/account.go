package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account: запись справочника общины, она же учётная запись для входа.
type Account struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Nickname        string    `json:"nickname,omitempty"`
	Role            string    `json:"role"`
	Mobile          string    `json:"mobile,omitempty"`
	AlternateMobile string    `json:"alternateMobile,omitempty"`
	Address         string    `json:"address,omitempty"`
	Spouse          string    `json:"spouse,omitempty"`
	Children        []string  `json:"children,omitempty"`
	NativePlace     string    `json:"nativePlace,omitempty"`
	Church          string    `json:"church,omitempty"`
	Avatar          string    `json:"avatar,omitempty"`
	Photos          []string  `json:"photos,omitempty"`
	PasswordHash    string    `json:"-"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// UpdateAccountRequest: частичное обновление, nil-поля не трогаем.
type UpdateAccountRequest struct {
	Name            *string   `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Email           *string   `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Nickname        *string   `json:"nickname,omitempty" validate:"omitempty,max=60"`
	Role            *string   `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	Mobile          *string   `json:"mobile,omitempty" validate:"omitempty,max=32"`
	AlternateMobile *string   `json:"alternateMobile,omitempty" validate:"omitempty,max=32"`
	Address         *string   `json:"address,omitempty" validate:"omitempty,max=500"`
	Spouse          *string   `json:"spouse,omitempty" validate:"omitempty,max=120"`
	Children        *[]string `json:"children,omitempty" validate:"omitempty,max=20,dive,max=120"`
	NativePlace     *string   `json:"nativePlace,omitempty" validate:"omitempty,max=500"`
	Church          *string   `json:"church,omitempty" validate:"omitempty,max=120"`
	Avatar          *string   `json:"avatar,omitempty" validate:"omitempty,url"`
	Photos          *[]string `json:"photos,omitempty" validate:"omitempty,max=4,dive,url"`
}

func (u *UpdateAccountRequest) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Nickname == nil && u.Role == nil &&
		u.Mobile == nil && u.AlternateMobile == nil && u.Address == nil && u.Spouse == nil &&
		u.Children == nil && u.NativePlace == nil && u.Church == nil && u.Avatar == nil && u.Photos == nil
}

// Apply переносит заданные поля в аккаунт (используется хранилищами без частичного UPDATE).
func (u *UpdateAccountRequest) Apply(a *Account) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&a.Name, u.Name)
	set(&a.Email, u.Email)
	set(&a.Nickname, u.Nickname)
	set(&a.Role, u.Role)
	set(&a.Mobile, u.Mobile)
	set(&a.AlternateMobile, u.AlternateMobile)
	set(&a.Address, u.Address)
	set(&a.Spouse, u.Spouse)
	set(&a.NativePlace, u.NativePlace)
	set(&a.Church, u.Church)
	set(&a.Avatar, u.Avatar)
	if u.Children != nil {
		a.Children = append([]string(nil), (*u.Children)...)
	}
	if u.Photos != nil {
		a.Photos = append([]string(nil), (*u.Photos)...)
	}
}

// AccountSummary: то, что отдаём вместе с токеном после входа/регистрации.
type AccountSummary struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Nickname string `json:"nickname,omitempty"`
	Role     string `json:"role"`
}

func (a *Account) Summary() AccountSummary {
	return AccountSummary{ID: a.ID, Name: a.Name, Email: a.Email, Nickname: a.Nickname, Role: a.Role}
}

// CreateAccountRequest: новый контакт от администратора. Пароль генерирует сервер.
type CreateAccountRequest struct {
	Name            string   `json:"name" validate:"required,min=1,max=120"`
	Email           string   `json:"email" validate:"required,email,max=254"`
	Nickname        string   `json:"nickname,omitempty" validate:"omitempty,max=60"`
	Role            string   `json:"role,omitempty" validate:"omitempty,oneof=user admin"`
	Mobile          string   `json:"mobile,omitempty" validate:"omitempty,max=32"`
	AlternateMobile string   `json:"alternateMobile,omitempty" validate:"omitempty,max=32"`
	Address         string   `json:"address,omitempty" validate:"omitempty,max=500"`
	Spouse          string   `json:"spouse,omitempty" validate:"omitempty,max=120"`
	Children        []string `json:"children,omitempty" validate:"omitempty,max=20,dive,max=120"`
	NativePlace     string   `json:"nativePlace,omitempty" validate:"omitempty,max=500"`
	Church          string   `json:"church,omitempty" validate:"omitempty,max=120"`
}

func (r *CreateAccountRequest) ToAccount() *Account {
	return &Account{
		Name:            r.Name,
		Email:           r.Email,
		Nickname:        r.Nickname,
		Role:            r.Role,
		Mobile:          r.Mobile,
		AlternateMobile: r.AlternateMobile,
		Address:         r.Address,
		Spouse:          r.Spouse,
		Children:        r.Children,
		NativePlace:     r.NativePlace,
		Church:          r.Church,
	}
}
