package http

import (
	"errors"
	"net/http"
	"strings"

	"doc-attest/internal/app"
	"doc-attest/internal/model"
	"doc-attest/internal/ports/http/middleware/auth"
	"doc-attest/internal/ports/http/middleware/cors"
	"doc-attest/internal/wallet"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type server struct {
	app        *app.App
	wallet     wallet.Capability
	httpServer *http.Server
	addr       string
	logger     *zap.Logger
}

func NewServer(logger *zap.Logger, a *app.App, signer wallet.Capability, address string) server {
	return server{
		app:    a,
		wallet: signer,
		addr:   address,
		logger: logger,
	}
}

func (ser server) registerHandlers(router *mux.Router) {

	router.HandleFunc("/health", healthcheck)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.ExtractIdentity)

	api.HandleFunc("/documents", ser.getDocuments).Methods(http.MethodGet)
	api.HandleFunc("/documents", ser.postDocument).Methods(http.MethodPost)
	api.HandleFunc("/documents/{documentID}", ser.getDocument).Methods(http.MethodGet)
	api.HandleFunc("/documents/{documentID}/signatures", ser.postSignature).Methods(http.MethodPost)
	api.HandleFunc("/documents/{documentID}/verification", ser.getVerification).Methods(http.MethodGet)
	api.HandleFunc("/documents/{documentID}/cancel", ser.postCancel).Methods(http.MethodPost)
	api.HandleFunc("/documents/{documentID}/bundle", ser.getBundle).Methods(http.MethodGet)
}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("all good here"))
}

func (ser server) Run() error {
	router := mux.NewRouter()
	ser.registerHandlers(router)

	ser.httpServer = &http.Server{
		Handler: cors.AddCorsPolicy(router),
		Addr:    ser.addr,
	}

	return ser.httpServer.ListenAndServe()
}

func (ser server) badRequest(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	if _, err := w.Write([]byte(message)); err != nil {
		ser.logger.Error("failed to write a bad request error message: " + err.Error())
	}

	ser.logger.Warn(message)
}

func (ser server) serverError(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusInternalServerError)
	if _, err := w.Write([]byte(message)); err != nil {
		ser.logger.Error("failed to write a server error message: " + err.Error())
	}

	ser.logger.Error(message)
}

// operationError maps the error taxonomy onto HTTP statuses.
func (ser server) operationError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, model.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, model.ErrNotARequiredSigner):
		status = http.StatusForbidden
	case errors.Is(err, model.ErrAlreadySigned):
		status = http.StatusConflict
	case errors.Is(err, model.ErrDocumentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, model.ErrInvalidContent),
		errors.Is(err, model.ErrNoRequiredSigners),
		errors.Is(err, model.ErrDocumentCancelled):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrSigningFailed):
		status = http.StatusBadGateway
	}

	w.WriteHeader(status)
	if _, writeErr := w.Write([]byte(err.Error())); writeErr != nil {
		ser.logger.Error("failed to write the error response: " + writeErr.Error())
	}

	ser.logger.Warn(err.Error())
}

func normalize(param string) string {
	return strings.TrimSpace(param)
}
