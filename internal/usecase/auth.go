package usecase

import (
	"context"
	"errors"

	"marketfill/internal/domain/customer"
	"marketfill/internal/infra"
	"marketfill/internal/pkg/jwt"
	"marketfill/internal/pkg/password"
	"marketfill/internal/usecase/queries"
	"marketfill/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrCustomerNotFound     = errors.New("customer not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailAlreadyUsed     = errors.New("email already registered")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrTokenGeneration      = errors.New("token generation failed")
	ErrTokenValidation      = errors.New("token validation failed")
)

// TokenValidator is the narrow surface the auth middleware depends on.
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, customer.Role, error)
}

type AuthUseCase interface {
	Register(ctx context.Context, email customer.Email, pass customer.Password) (*queries.AuthorizedCustomerView, error)
	Login(ctx context.Context, email customer.Email, pass customer.Password) (string, *queries.AuthorizedCustomerView, error)
	GetCurrentCustomer(ctx context.Context, customerID uuid.UUID) (*queries.AuthorizedCustomerView, error)
	ValidateToken(tokenString string) (uuid.UUID, customer.Role, error)
}

type authUseCaseImpl struct {
	uow             shared.UnitOfWork
	customerQueries queries.CustomerQueries
	jwtService      *jwt.Service
}

func NewAuthUseCase(uow shared.UnitOfWork, customerQueries queries.CustomerQueries, jwtService *jwt.Service) AuthUseCase {
	return &authUseCaseImpl{
		uow:             uow,
		customerQueries: customerQueries,
		jwtService:      jwtService,
	}
}

func (a *authUseCaseImpl) Register(ctx context.Context, email customer.Email, pass customer.Password) (*queries.AuthorizedCustomerView, error) {
	hashed, err := password.HashPassword(pass.Value())
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	var view *queries.AuthorizedCustomerView
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		id, err := tx.Customers().Create(ctx, tx.DB(), email.Value(), hashed, customer.RoleCustomer.String())
		if err != nil {
			if infra.IsKind(err, infra.KindDuplicateKey) {
				return ErrEmailAlreadyUsed
			}
			return err
		}
		view = &queries.AuthorizedCustomerView{
			ID:    id,
			Email: email.Value(),
			Role:  customer.RoleCustomer.String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return view, nil
}

func (a *authUseCaseImpl) Login(ctx context.Context, email customer.Email, pass customer.Password) (string, *queries.AuthorizedCustomerView, error) {
	snapshot, err := a.uow.CommandReads().CustomerByEmail(ctx, email.Value())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, ErrAuthenticationFailed
	}

	if err := password.ComparePassword(snapshot.PasswordHash, pass.Value()); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	role, err := customer.NewRole(snapshot.Role)
	if err != nil {
		return "", nil, ErrAuthenticationFailed
	}

	token, err := a.jwtService.GenerateToken(snapshot.ID, role)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	view := &queries.AuthorizedCustomerView{
		ID:    snapshot.ID,
		Email: snapshot.Email,
		Role:  snapshot.Role,
	}
	return token, view, nil
}

func (a *authUseCaseImpl) GetCurrentCustomer(ctx context.Context, customerID uuid.UUID) (*queries.AuthorizedCustomerView, error) {
	view, err := a.customerQueries.GetByID(ctx, customerID)
	if err != nil || view == nil {
		return nil, ErrCustomerNotFound
	}
	return view, nil
}

func (a *authUseCaseImpl) ValidateToken(tokenString string) (uuid.UUID, customer.Role, error) {
	claims, err := a.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, "", ErrTokenValidation
	}

	role, err := customer.NewRole(claims.Role)
	if err != nil {
		return uuid.Nil, "", ErrTokenValidation
	}

	return claims.CustomerID, role, nil
}
