package services

import (
	"time"

	"directChat/configs"
	"directChat/internal/errs"
	"directChat/internal/models"
	"directChat/internal/repositories"
	"directChat/internal/utils"
	"directChat/internal/validators"
)

type AuthenticationService struct {
	authRepo *repositories.AuthenticationRepository
	config   *configs.Config
}

func NewAuthenticationService(
	authRepo *repositories.AuthenticationRepository,
	config *configs.Config,
) *AuthenticationService {
	return &AuthenticationService{
		authRepo: authRepo,
		config:   config,
	}
}

func (as *AuthenticationService) Register(user *models.User) (*models.User, []error) {
	var errors []error
	if as.CheckIfUserExists(user.Email) {
		errors = append(errors, errs.ErrUserAlreadyExists)
		return nil, errors
	}
	validationErrs := validators.ValidateUser(user)
	if len(validationErrs) > 0 {
		errors = append(errors, validationErrs...)
		return nil, errors
	}
	password, err := utils.HashPassword(user.Password)
	if err != nil {
		errors = append(errors, err)
		return nil, errors
	}
	user.PasswordHash = password
	return as.authRepo.CreateUser(user)
}

func (as *AuthenticationService) Login(loginData *models.LoginRequestBody) (*models.LoginResponse, []error) {
	var errors []error

	user, loginErrs := as.authRepo.Login(loginData)
	if len(loginErrs) > 0 {
		errors = append(errors, loginErrs...)
		return nil, errors
	}

	expiration := time.Now().Add(time.Duration(as.config.Viper.GetInt("jwt.expiration_time")) * time.Second)
	token, jwtErr := utils.CreateJwtToken(
		user.ID,
		user.Email,
		user.Username,
		utils.GetJwtKey(),
		expiration,
	)
	if jwtErr != nil {
		errors = append(errors, jwtErr)
		return nil, errors
	}

	return &models.LoginResponse{
		User:  *user,
		Token: token,
	}, nil
}

func (as *AuthenticationService) CheckIfUserExists(email string) bool {
	return as.authRepo.CheckIfUserExists(email) != nil
}

func (as *AuthenticationService) GetAllUsersWithPagination(page, size int) (*models.GetUsersResponse, []error) {
	var errors []error
	if page <= 0 || size <= 0 {
		errors = append(errors, errs.ErrInvalidPageOrSize)
		return nil, errors
	}
	return as.authRepo.GetAllUsersWithPagination(page, size)
}

func (as *AuthenticationService) GetUserById(id uint) (*models.User, error) {
	return as.authRepo.GetUserById(id)
}

func (as *AuthenticationService) UpdateAvatarUrl(userId uint, url string) error {
	return as.authRepo.UpdateAvatarUrl(userId, url)
}
