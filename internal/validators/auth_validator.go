package validators

import (
	"regexp"

	"directChat/internal/errs"
	"directChat/internal/models"
)

func ValidateUser(user *models.User) []error {
	var errors []error
	if user == nil {
		errors = append(errors, errs.ErrInvalidUser)
		return errors
	}

	if user.Email == "" || !ValidateEmail(user.Email) {
		errors = append(errors, errs.ErrInvalidEmail)
	}

	if !ValidatePassword(user.Password) {
		errors = append(errors, errs.ErrInvalidPassword)
	}

	if user.Username == "" || len(user.Username) < 3 {
		errors = append(errors, errs.ErrInvalidUsername)
	}
	return errors
}

func ValidateEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return regex.MatchString(email)
}

// ValidatePassword requires at least 8 characters drawn from letters, digits
// and the special set @#$%^&+=!.
func ValidatePassword(password string) bool {
	pattern := `^(?:[0-9a-zA-Z@#$%^&+=!]{8,})$`
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return regex.MatchString(password)
}
