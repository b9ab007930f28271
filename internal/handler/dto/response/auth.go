package response

import "marketfill/internal/usecase/queries"

type LoginResponse struct {
	AccessToken string                          `json:"access_token"`
	Customer    *queries.AuthorizedCustomerView `json:"customer"`
}

type RegisterResponse struct {
	Customer *queries.AuthorizedCustomerView `json:"customer"`
}
