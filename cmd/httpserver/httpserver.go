// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/HeitorAzevedoBelo/desafio-backend/internal/accountrepo"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/authorizer"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/middleware"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/notifier"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/transferdelivery"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/transferrepo"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/transferservice"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/userdelivery"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/userrepo"
	"github.com/HeitorAzevedoBelo/desafio-backend/internal/userservice"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/amountpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/configpkg"
	"github.com/HeitorAzevedoBelo/desafio-backend/pkg/web"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config

	transfers *transferservice.Service
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

// Wait blocks until every pending transfer notification has been sent.
func (s *Server) Wait() {
	s.transfers.Wait()
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(web.JSONTagName)

		if err := v.RegisterValidation("amount", amountpkg.ValidAmount); err != nil {
			return nil, errors.New("cannot register amount validator")
		}
	}

	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	transferRepo := transferrepo.NewRepoPGS(conn)

	authorizerClient := authorizer.New(authorizer.Config{
		URL:     config.AuthorizerURL,
		Timeout: config.AuthorizerTimeout,
	}, logger)
	notifierClient := notifier.New(config.NotifierURL, config.NotifierTimeout)

	userService := userservice.New(userRepo)
	transferService := transferservice.New(transferRepo, accountRepo, authorizerClient, notifierClient)

	userHandler := userdelivery.NewHandler(userService)
	transferHandler := transferdelivery.NewHandler(transferService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/create_user", userHandler.Create)
	engine.GET("/get_all_users", userHandler.List)
	engine.POST("/transfer", transferHandler.Create)

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,

		transfers: transferService,
	}

	return server, nil
}
