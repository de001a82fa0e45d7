package models

import (
	"context"
	"html"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null;unique" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      UserRole  `gorm:"type:enum('employee','manager','admin');default:'employee'" json:"role"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string   `json:"name" binding:"required"`
	Email    string   `json:"email" binding:"required"`
	Password string   `json:"password" binding:"required"`
	Role     UserRole `json:"role"`
}

type LoginInfo struct {
	Token string   `json:"token"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Role  UserRole `json:"role"`
}

/*
caches:
	User:$id
*/

func (user User) RemoveInstanceRedis() error {
	return config.RemoveRedisKey("User:" + utils.IntToString(user.ID))
}

func (result *User) PrepareGive() {
	result.Password = ""
}

// RegisterUser creates an account. Role defaults to employee so a
// self-registered user cannot grant themselves elevated access.
func RegisterUser(ctx context.Context, input *NewUser) (*User, error) {

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if !utils.IsValidEmail(input.Email) {
		return nil, utils.NewAppError(utils.ErrorKindInvalidLine, "email",
			"invalid email address %q", input.Email)
	}
	if input.Role == "" {
		input.Role = UserRoleEmployee
	}
	if !input.Role.IsValid() {
		return nil, utils.NewAppError(utils.ErrorKindInvalidLine, "role",
			"invalid role %q", input.Role)
	}
	if err := utils.ValidateUnique[User](ctx, "email", input.Email, 0); err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Name:     html.EscapeString(strings.TrimSpace(input.Name)),
		Email:    input.Email,
		Password: string(hashedPassword),
		Role:     input.Role,
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	user.PrepareGive()
	return &user, nil
}

func Login(ctx context.Context, email string, password string) (*LoginInfo, error) {

	db := config.GetDB()
	email = strings.ToLower(strings.TrimSpace(email))

	var user User
	err := db.WithContext(ctx).Model(&User{}).Where("email = ?", email).Take(&user).Error
	if err != nil {
		return nil, utils.NewAppError(utils.ErrorKindForbidden, "", "invalid email or password")
	}

	// Fail closed on every compare error, not only the mismatch sentinel; a
	// malformed stored hash must never authenticate.
	if err := utils.ComparePassword(user.Password, password); err != nil {
		return nil, utils.NewAppError(utils.ErrorKindForbidden, "", "invalid email or password")
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, utils.NewAppError(utils.ErrorKindForbidden, "", "user is disabled")
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	// warm the auth cache so the middleware skips the DB on the next request
	user.PrepareGive()
	if err := config.SetRedisObject("User:"+utils.IntToString(user.ID), &user, time.Hour); err != nil {
		return nil, err
	}

	return &LoginInfo{
		Token: token,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

// Logout drops the cached user record. The JWT itself stays valid until it
// expires; there is no server-side token revocation list.
func Logout(ctx context.Context) (bool, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return false, utils.NewAppError(utils.ErrorKindForbidden, "", "not logged in")
	}
	if err := config.RemoveRedisKey("User:" + utils.IntToString(userId)); err != nil {
		return false, err
	}
	return true, nil
}

func GetAllUsers(ctx context.Context) ([]*User, error) {

	if err := requireRole(ctx, UserRoleAdmin); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*User
	if err := db.WithContext(ctx).Order("id ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	for _, user := range results {
		user.PrepareGive()
	}
	return results, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}
	user.PrepareGive()
	return user, nil
}

// UpdateUserRole changes a user's role. The cached copy is dropped so the
// change takes effect on the user's next request.
func UpdateUserRole(ctx context.Context, id int, role UserRole) (*User, error) {

	if err := requireRole(ctx, UserRoleAdmin); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, utils.NewAppError(utils.ErrorKindInvalidLine, "role",
			"invalid role %q", role)
	}

	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&user).Update("Role", role).Error; err != nil {
		return nil, err
	}
	if err := user.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	user.PrepareGive()
	return user, nil
}

// SetUserActive enables or disables an account. Disabled users fail both
// login and the auth middleware check.
func SetUserActive(ctx context.Context, id int, isActive bool) (*User, error) {

	if err := requireRole(ctx, UserRoleAdmin); err != nil {
		return nil, err
	}

	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&user).Update("IsActive", isActive).Error; err != nil {
		return nil, err
	}
	if err := user.RemoveInstanceRedis(); err != nil {
		return nil, err
	}
	user.PrepareGive()
	return user, nil
}
