// Package transferdelivery manages delivery layer of transfers.
package transferdelivery

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/domain"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/errorspkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/web"
)

// Service provides service layer interface needed by transfer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transferdelivery
type Service interface {
	Transfer(ctx context.Context, arg domain.CreateTransferParams) (domain.TransferTxResult, error)
}

// Handler facilitates transfer delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transfer handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

// Ids and value are accepted both as JSON numbers and numeric strings.
type request struct {
	Payee json.Number `json:"payee" binding:"required"`
	Payer json.Number `json:"payer" binding:"required"`
	Value json.Number `json:"value" binding:"required"`
}

type data struct {
	Transfer domain.Transfer `json:"transfer"`
}

func parseID(n json.Number) (int64, error) {
	id, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return 0, domain.ErrInvalidID
	}

	return id, nil
}

// Create handles http request to move money from payer to payee.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	payee, err := parseID(req.Payee)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	payer, err := parseID(req.Payer)
	if err != nil {
		gctx.JSON(http.StatusBadRequest, web.Error(err))
		return
	}

	arg := domain.CreateTransferParams{
		Payee: payee,
		Payer: payer,
		Value: req.Value.String(),
	}

	result, err := h.service.Transfer(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()

		switch err {
		case domain.ErrUnauthorized:
			gctx.JSON(http.StatusUnauthorized, web.Error(err))

			return
		case domain.ErrAuthorizerUnavailable:
			gctx.JSON(http.StatusServiceUnavailable, web.Error(err))

			return
		case
			domain.ErrInvalidID,
			domain.ErrInvalidAmount,
			domain.ErrNonPositiveAmount,
			domain.ErrSameParty,
			domain.ErrSellerCannotPay,
			domain.ErrInsufficientBalance,
			domain.ErrPayeeNotFound:
			gctx.JSON(http.StatusBadRequest, web.Error(err))

			return
		}

		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, web.Response{Data: data{result.Transfer}})
}
