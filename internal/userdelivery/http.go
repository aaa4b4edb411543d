// Package userdelivery manages delivery layer of users.
package userdelivery

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/domain"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/errorspkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/web"
)

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	Create(ctx context.Context, arg domain.RegisterUserParams) (domain.UserWithoutPassword, error)
	List(ctx context.Context) ([]domain.UserSummary, error)
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns user handler.
func NewHandler(us Service) *Handler {
	return &Handler{
		service: us,
	}
}

type createRequest struct {
	Name     string      `json:"name" binding:"required"`
	CPFCNPJ  string      `json:"cpf_cnpj" binding:"required,numeric,len=11|len=14"`
	Password string      `json:"password" binding:"required,min=6"`
	Email    string      `json:"email" binding:"required,email"`
	Balance  json.Number `json:"balance" binding:"required,amount"`
	IsSeller *bool       `json:"is_seller"`
}

type createData struct {
	User domain.UserWithoutPassword `json:"user"`
}

// Create handles http request to register a user with an opening balance.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	arg := domain.RegisterUserParams{
		Name:     req.Name,
		CPFCNPJ:  req.CPFCNPJ,
		Password: req.Password,
		Email:    req.Email,
		Balance:  req.Balance.String(),
		IsSeller: req.IsSeller != nil && *req.IsSeller,
	}

	createdUser, err := h.service.Create(ctx, arg)
	if err != nil {
		switch err {
		case domain.ErrUserAlreadyExists, domain.ErrInvalidAmount:
			gctx.JSON(http.StatusBadRequest, web.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, web.Response{Data: createData{createdUser}})
}

// List handles http request to list every user with its balance.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	users, err := h.service.List(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, users)
}
