package repositories

import (
	"directChat/internal/errs"
	"directChat/internal/models"
	"directChat/internal/utils"

	"gorm.io/gorm"
)

type AuthenticationRepository struct {
	db *gorm.DB
}

func NewAuthenticationRepository(db *gorm.DB) *AuthenticationRepository {
	return &AuthenticationRepository{
		db: db,
	}
}

func (ar *AuthenticationRepository) CreateUser(user *models.User) (*models.User, []error) {
	var errors []error
	result := ar.db.Create(user)
	if result.Error != nil {
		errors = append(errors, result.Error)
		return nil, errors
	}
	if result.RowsAffected == 0 {
		errors = append(errors, errs.ErrUserNotFound)
		return nil, errors
	}
	return user, nil
}

func (ar *AuthenticationRepository) CheckIfUserExists(email string) *models.User {
	var user models.User
	result := ar.db.Where("email = ?", email).First(&user)
	if result.Error == nil && result.RowsAffected > 0 {
		return &user
	}
	return nil
}

func (ar *AuthenticationRepository) Login(login *models.LoginRequestBody) (*models.User, []error) {
	var errors []error
	user := ar.CheckIfUserExists(login.Email)
	if user == nil {
		errors = append(errors, errs.ErrUserNotFound)
		return nil, errors
	}
	if err := utils.CompareHashAndPassword(user.PasswordHash, login.Password); err != nil {
		errors = append(errors, errs.ErrWrongPassword)
		return nil, errors
	}
	return user, nil
}

func (ar *AuthenticationRepository) GetAllUsersWithPagination(page, size int) (*models.GetUsersResponse, []error) {
	var errors []error
	var users []models.User
	var total int64

	if err := ar.db.
		Scopes(utils.Paginate(page, size)).
		Order("username ASC").
		Find(&users).Error; err != nil {
		errors = append(errors, err)
		return nil, errors
	}
	if err := ar.db.Model(&models.User{}).Count(&total).Error; err != nil {
		errors = append(errors, err)
		return nil, errors
	}

	userResponses := make([]*models.UserResponse, 0, len(users))
	for i := range users {
		userResponses = append(userResponses, users[i].ToUserResponse())
	}

	return &models.GetUsersResponse{
		Users: userResponses,
		Page:  page,
		Size:  size,
		Total: total,
	}, nil
}

func (ar *AuthenticationRepository) GetUserById(id uint) (*models.User, error) {
	var user models.User
	if err := ar.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ar *AuthenticationRepository) UpdateAvatarUrl(userId uint, url string) error {
	return ar.db.Model(&models.User{}).Where("id = ?", userId).Update("avatar_url", url).Error
}
