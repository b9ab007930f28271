package request

import (
	"marketfill/internal/domain/customer"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (r *RegisterRequest) ToDomain() (customer.Email, customer.Password, error) {
	email, err := customer.NewEmail(r.Email)
	if err != nil {
		return customer.Email{}, customer.Password{}, err
	}
	pass, err := customer.NewPassword(r.Password)
	if err != nil {
		return customer.Email{}, customer.Password{}, err
	}
	return email, pass, nil
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (r *LoginRequest) ToDomain() (customer.Email, customer.Password, error) {
	email, err := customer.NewEmail(r.Email)
	if err != nil {
		return customer.Email{}, customer.Password{}, err
	}
	pass, err := customer.NewPassword(r.Password)
	if err != nil {
		return customer.Email{}, customer.Password{}, err
	}
	return email, pass, nil
}
