package repository

import (
	"errors"
	"time"

	"github.com/user/reelog/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(email, username, password string) (*model.User, error) {
	// 密码哈希
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         "user",
		Level:        1,
		Preferences:  "{}",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := r.db.Create(user).Error; err != nil {
		return nil, err
	}

	return user, nil
}

// FindByEmail 根据邮箱查找用户
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByID 根据 ID 查找用户
func (r *UserRepository) FindByID(id int) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// CheckPassword 验证密码
func (r *UserRepository) CheckPassword(user *model.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// ProfileUpdate 资料更新字段，nil 表示不修改
type ProfileUpdate struct {
	Username    *string
	AvatarURL   *string
	Preferences *string
}

// UpdateProfile 更新个人资料（仅限本人调用，权限在 handler 层校验）
func (r *UserRepository) UpdateProfile(userID int, upd ProfileUpdate) (*model.User, error) {
	values := map[string]interface{}{"updated_at": time.Now()}
	if upd.Username != nil {
		values["username"] = *upd.Username
	}
	if upd.AvatarURL != nil {
		values["avatar_url"] = *upd.AvatarURL
	}
	if upd.Preferences != nil {
		values["preferences"] = *upd.Preferences
	}

	if err := r.db.Model(&model.User{}).Where("id = ?", userID).Updates(values).Error; err != nil {
		return nil, err
	}
	return r.FindByID(userID)
}

// AddXP 增加经验值，每 100 经验升一级
func (r *UserRepository) AddXP(userID, amount int) error {
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"xp":    gorm.Expr("xp + ?", amount),
			"level": gorm.Expr("(xp + ?) / 100 + 1", amount),
		}).Error
}

// SearchByUsername 按用户名模糊搜索
func (r *UserRepository) SearchByUsername(keyword string, limit int) ([]*model.User, error) {
	var users []*model.User
	err := r.db.Where("username ILIKE ?", "%"+keyword+"%").
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
